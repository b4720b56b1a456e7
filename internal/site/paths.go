package site

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/sowilo/internal/checksum"
)

// maxStemLen caps output filename stems so deep vault titles stay portable
// across file systems.
const maxStemLen = 80

var (
	invalidCharRe = regexp.MustCompile(`[<>:"/\\|?*]`)
	controlRe     = regexp.MustCompile(`[\x00-\x1f]`)
)

// Names reserved on Windows, with or without an extension.
var reservedStems = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// OutputPath maps a vault-relative Markdown path to its site-relative HTML
// path. index.md keeps its directory's index.html slot; other stems are
// sanitised and, when altered, suffixed with a short stable hash so distinct
// sources never collide.
func OutputPath(rel string) string {
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	name := path.Base(rel)
	stem := trimMarkdownExt(name)

	if strings.EqualFold(stem, "index") {
		return path.Join(dir, "index.html")
	}
	return path.Join(dir, sanitizeStem(stem, rel)+".html")
}

func trimMarkdownExt(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".markdown"):
		return name[:len(name)-len(".markdown")]
	case strings.HasSuffix(lower, ".md"):
		return name[:len(name)-len(".md")]
	}
	return name
}

// sanitizeStem returns a filesystem-safe, bounded-length stem. Any change to
// the original (invalid characters, truncation, reserved names) appends a
// short digest of the full relative path to keep the result unique and
// stable across builds.
func sanitizeStem(stem, rel string) string {
	original := stem
	s := invalidCharRe.ReplaceAllString(stem, "-")
	s = controlRe.ReplaceAllString(s, "")
	s = strings.Trim(s, " .")

	changed := s != original
	truncated := false
	if runes := []rune(s); len(runes) > maxStemLen {
		s = string(runes[:maxStemLen])
		truncated = true
	}

	if _, reserved := reservedStems[strings.ToUpper(s)]; reserved {
		s += "_"
		changed = true
	}

	if changed || truncated {
		suffix := "-" + checksum.Short(rel)
		if runes := []rune(s); len(runes)+len(suffix) > maxStemLen {
			s = string(runes[:maxStemLen-len(suffix)])
		}
		s += suffix
	}

	s = strings.Trim(s, " .")
	if s == "" {
		return "untitled"
	}
	return s
}

// relHref returns the slash-separated relative href from one output
// directory to a site-relative target.
func relHref(fromDir, to string) string {
	if fromDir == "" {
		fromDir = "."
	}
	rel, err := filepath.Rel(filepath.FromSlash(fromDir), filepath.FromSlash(to))
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}
