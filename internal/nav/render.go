package nav

import (
	"html"
	"path/filepath"
	"strings"

	"github.com/starford/sowilo/internal/parser"
)

// Page identifies the page a sidebar is being rendered for. Hrefs are made
// relative to its output directory; the active link and its ancestor folders
// are marked.
type Page struct {
	Source string // vault-relative Markdown path
	OutDir string // site-relative output directory, "" for the root
}

// Render produces the sidebar HTML for one page: a search form, a home
// button, and the nested <details>/<summary> folder tree. Folders containing
// the current page render open; the current page's link is highlighted.
func Render(root *Dir, page Page) string {
	var b strings.Builder
	b.WriteString(`<div class="p-2">`)
	b.WriteString(`<form class="mb-2" action="`)
	b.WriteString(relHref(page.OutDir, "search.html"))
	b.WriteString(`" method="get">`)
	b.WriteString(`<div class="input-group input-group-sm">`)
	b.WriteString(`<input class="form-control" type="text" name="q" placeholder="Search&#8230;" />`)
	b.WriteString(`<button class="btn btn-outline-secondary" type="submit">Search</button>`)
	b.WriteString(`</div></form>`)
	b.WriteString(`<a class="btn btn-outline-primary w-100 mb-2" href="`)
	b.WriteString(relHref(page.OutDir, "index.html"))
	b.WriteString(`">Home</a>`)
	b.WriteString(`<ul class="list-unstyled">`)
	renderDir(&b, root, page)
	b.WriteString(`</ul></div>`)
	return b.String()
}

func renderDir(b *strings.Builder, d *Dir, page Page) {
	for _, f := range d.Files {
		active := f.Source == page.Source
		b.WriteString(`<li class="nav-item"><a class="nav-link`)
		if active {
			b.WriteString(` active`)
		}
		b.WriteString(`"`)
		if active {
			b.WriteString(` aria-current="page"`)
		}
		b.WriteString(` href="`)
		b.WriteString(relHref(page.OutDir, f.Output))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(f.Title))
		b.WriteString(`</a></li>`)
	}

	for _, name := range d.sortedSubdirNames() {
		sub := d.Subdirs[name]
		b.WriteString(`<li><details class="mb-1"`)
		if sub.contains(page.Source) {
			b.WriteString(` open`)
		}
		b.WriteString(`><summary class="fw-semibold d-flex align-items-center justify-content-between"><span>`)
		b.WriteString(html.EscapeString(parser.StripNumericPrefix(sub.Name)))
		b.WriteString(`</span><span class="chev" aria-hidden="true">&#9656;</span></summary>`)
		b.WriteString(`<ul class="list-unstyled ms-3 my-1">`)
		renderDir(b, sub, page)
		b.WriteString(`</ul></details></li>`)
	}
}

// relHref returns the href from one output directory to a site-relative
// target, HTML-escaped and slash-separated.
func relHref(fromDir, to string) string {
	if fromDir == "" {
		fromDir = "."
	}
	rel, err := filepath.Rel(filepath.FromSlash(fromDir), filepath.FromSlash(to))
	if err != nil {
		rel = to
	}
	return html.EscapeString(filepath.ToSlash(rel))
}
