// Package search generates the client-side search index: one JSON record per
// page with its title, site-absolute href, and plain-text content.
package search

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// IndexPath is where the index lands inside the output directory; the search
// page fetches it relative to the site root.
const IndexPath = "assets/search_index.json"

// Record is one searchable page.
type Record struct {
	Title string   `json:"title"`
	Path  string   `json:"path"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags,omitempty"`
}

var (
	fenceRe    = regexp.MustCompile("(?s)```.*?```")
	codeRe     = regexp.MustCompile("`[^`]*`")
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	mdLinkRe   = regexp.MustCompile(`\[(.*?)\]\([^)]*\)`)
	markupRe   = regexp.MustCompile(`[#*_>\-]+`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// Strip reduces Markdown to plain text for indexing and snippets. It is a
// crude lexical strip, not a rendering pass: code blocks drop out, links and
// wikilinks keep their visible text, markup characters become spaces.
func Strip(md string) string {
	plain := fenceRe.ReplaceAllString(md, " ")
	plain = codeRe.ReplaceAllString(plain, " ")
	plain = wikilinkRe.ReplaceAllString(plain, "$1")
	plain = mdLinkRe.ReplaceAllString(plain, "$1")
	plain = markupRe.ReplaceAllString(plain, " ")
	plain = spaceRe.ReplaceAllString(plain, " ")
	return strings.TrimSpace(plain)
}

// Marshal encodes records as the compact JSON array the search page consumes.
// Callers pass records in a deterministic order so rebuilds stay
// byte-identical.
func Marshal(records []Record) ([]byte, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("search: marshal index: %w", err)
	}
	return data, nil
}
