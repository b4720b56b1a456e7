package site

import "embed"

// assetsFS carries the page layout template and the static files every
// generated site ships with.
//
//go:embed assets
var assetsFS embed.FS
