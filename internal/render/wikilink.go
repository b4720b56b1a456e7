package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	wikilinkRe  = regexp.MustCompile(`\[\[([^\]|#]+)(?:#([^\]|]+))?(?:\|([^\]]+))?\]\]`)
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
)

// Embed describes a resolved wikilink target: the panel title, the target
// page's pre-rendered HTML, and the relative href of the full page.
type Embed struct {
	Title string
	HTML  string
	Href  string
}

// Resolver maps a wikilink target (and optional heading anchor) to an Embed.
// It returns false when the target does not match any known note.
type Resolver func(target, anchor string) (Embed, bool)

// ExpandWikilinks replaces every resolvable [[wikilink]] in the Markdown
// source with a collapsible embed panel of the target page, closed by
// default, with a link to open the full page. Unresolved links are left
// untouched so they degrade to literal text.
func ExpandWikilinks(src string, resolve Resolver) string {
	return wikilinkRe.ReplaceAllStringFunc(src, func(match string) string {
		m := wikilinkRe.FindStringSubmatch(match)
		target := strings.TrimSpace(m[1])
		anchor := strings.TrimSpace(m[2])
		if target == "" {
			return match
		}
		embed, ok := resolve(target, anchor)
		if !ok {
			return match
		}
		return embedHTML(embed)
	})
}

// embedHTML renders the <details> panel for a resolved wikilink. Blank lines
// inside the embedded HTML are collapsed so goldmark keeps the whole panel in
// one raw HTML block.
func embedHTML(e Embed) string {
	return fmt.Sprintf(
		`<details class="embed-block mb-3">`+
			`<summary class="text-muted d-flex align-items-center justify-content-between">`+
			`<span>%s</span>`+
			`<span class="chev" aria-hidden="true">&#9656;</span>`+
			`</summary>`+
			`<div class="mt-2">%s<div class="mt-2"><a href="%s" class="link-secondary">Open page &rarr;</a></div></div>`+
			`</details>`,
		html.EscapeString(e.Title),
		blankLineRe.ReplaceAllString(e.HTML, "\n"),
		html.EscapeString(e.Href),
	)
}
