// Package site implements the batch build: it scans the vault, resolves
// wikilinks, renders every included note through the page layout, and writes
// the search index and static assets to the output directory.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"path"
	"strings"

	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/nav"
	"github.com/starford/sowilo/internal/parser"
	"github.com/starford/sowilo/internal/render"
	"github.com/starford/sowilo/internal/search"
	"github.com/starford/sowilo/internal/storage"
)

// Builder performs one full site generation. It holds no state between
// builds; re-running on unchanged input produces byte-identical output.
type Builder struct {
	in     storage.Provider
	out    storage.Provider
	title  string
	engine *render.Engine
	layout *template.Template
	logger *slog.Logger
}

// NewBuilder wires a builder reading the vault through in and writing the
// generated site through out. siteTitle, when non-empty, is appended to
// every page title.
func NewBuilder(in, out storage.Provider, siteTitle string, logger *slog.Logger) (*Builder, error) {
	layout, err := template.ParseFS(assetsFS, "assets/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("site: parse layout: %w", err)
	}
	return &Builder{
		in:     in,
		out:    out,
		title:  siteTitle,
		engine: render.NewEngine(),
		layout: layout,
		logger: logger,
	}, nil
}

// page is the per-note build state.
type page struct {
	source string // vault-relative Markdown path
	output string // site-relative HTML path
	note   *models.Note
	embed  string // plain rendered HTML used when other pages embed this one
}

// pageData feeds the layout template.
type pageData struct {
	Title       string
	PageTitle   string
	Description string
	Nav         template.HTML
	Content     template.HTML
	TOC         template.HTML
	CSSHref     string
	JSHref      string
}

// Build runs the whole pipeline once.
func (b *Builder) Build() error {
	pages, err := b.scan()
	if err != nil {
		return err
	}

	files := make([]*nav.File, len(pages))
	for i, p := range pages {
		files[i] = &nav.File{Title: p.note.Title, Source: p.source, Output: p.output}
	}
	tree := nav.Build(files)

	index := linkIndex(pages)

	for _, p := range pages {
		html, err := b.engine.Convert([]byte(p.note.Body))
		if err != nil {
			return fmt.Errorf("site: render embed for %s: %w", p.source, err)
		}
		p.embed = html
	}

	for _, p := range pages {
		if err := b.writePage(p, tree, index); err != nil {
			return err
		}
	}

	if err := b.writeSearchAssets(pages); err != nil {
		return err
	}
	if err := b.writeStaticAssets(); err != nil {
		return err
	}
	if err := b.copyVaultAssets(); err != nil {
		return err
	}

	b.logger.Info("site: build complete", slog.Int("pages", len(pages)))
	return nil
}

// scan lists the vault, applies the inclusion rules, and parses every
// included note. Pages come back sorted by path.
func (b *Builder) scan() ([]*page, error) {
	metas, err := b.in.ListNotes("")
	if err != nil {
		return nil, fmt.Errorf("site: scan vault: %w", err)
	}

	var pages []*page
	for _, m := range metas {
		if !nav.Included(m.Path) {
			continue
		}
		data, err := b.in.Read(m.Path)
		if err != nil {
			return nil, fmt.Errorf("site: read %s: %w", m.Path, err)
		}
		res, err := parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("site: parse %s: %w", m.Path, err)
		}
		title := res.Title
		if title == "" {
			title = parser.StripNumericPrefix(trimMarkdownExt(path.Base(m.Path)))
		}
		links := make([]string, len(res.Links))
		for i, l := range res.Links {
			links[i] = l.Target
		}
		pages = append(pages, &page{
			source: m.Path,
			output: OutputPath(m.Path),
			note: &models.Note{
				Path:        m.Path,
				Content:     data,
				Body:        res.Body,
				Frontmatter: res.Frontmatter,
				Title:       title,
				Links:       links,
				Tags:        res.Tags,
				Checksum:    m.Checksum,
			},
		})
	}
	return pages, nil
}

// linkIndex builds the case-insensitive wikilink resolution index. Keys are
// each page's filename stem, the stem with its numeric prefix stripped, and
// its title. On collision the first page in path order wins.
func linkIndex(pages []*page) map[string]*page {
	index := make(map[string]*page)
	add := func(key string, p *page) {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		if _, ok := index[key]; !ok {
			index[key] = p
		}
	}
	for _, p := range pages {
		stem := trimMarkdownExt(path.Base(p.source))
		add(stem, p)
		add(parser.StripNumericPrefix(stem), p)
		add(p.note.Title, p)
	}
	return index
}

func (b *Builder) writePage(p *page, tree *nav.Dir, index map[string]*page) error {
	outDir := path.Dir(p.output)
	if outDir == "." {
		outDir = ""
	}

	resolve := func(target, anchor string) (render.Embed, bool) {
		t, ok := index[strings.ToLower(target)]
		if !ok {
			t, ok = index[strings.ToLower(parser.StripNumericPrefix(target))]
		}
		if !ok {
			return render.Embed{}, false
		}
		href := relHref(outDir, t.output)
		if anchor != "" {
			href += "#" + render.Slug(anchor)
		}
		return render.Embed{Title: t.note.Title, HTML: t.embed, Href: href}, true
	}

	for _, target := range p.note.Links {
		if _, ok := resolve(target, ""); !ok {
			b.logger.Warn("site: unresolved wikilink",
				slog.String("source", p.source),
				slog.String("target", target))
		}
	}

	expanded := render.ExpandWikilinks(p.note.Body, resolve)
	content, toc, err := b.engine.ConvertWithTOC([]byte(expanded))
	if err != nil {
		return fmt.Errorf("site: render %s: %w", p.source, err)
	}

	fullTitle := p.note.Title
	if b.title != "" {
		fullTitle = p.note.Title + " · " + b.title
	}

	var buf bytes.Buffer
	err = b.layout.Execute(&buf, pageData{
		Title:       fullTitle,
		PageTitle:   p.note.Title,
		Description: p.note.Description(),
		Nav:         template.HTML(nav.Render(tree, nav.Page{Source: p.source, OutDir: outDir})),
		Content:     template.HTML(content),
		TOC:         template.HTML(toc),
		CSSHref:     relHref(outDir, "assets/site.css"),
		JSHref:      relHref(outDir, "assets/site.js"),
	})
	if err != nil {
		return fmt.Errorf("site: layout %s: %w", p.source, err)
	}

	if err := b.out.Write(p.output, buf.Bytes()); err != nil {
		return fmt.Errorf("site: write %s: %w", p.output, err)
	}
	b.logger.Debug("site: page written",
		slog.String("source", p.source),
		slog.String("output", p.output),
		slog.String("checksum", p.note.Checksum))
	return nil
}

// writeSearchAssets emits the JSON index plus the static search page.
// Hrefs are site-root-absolute.
func (b *Builder) writeSearchAssets(pages []*page) error {
	records := make([]search.Record, 0, len(pages))
	for _, p := range pages {
		records = append(records, search.Record{
			Title: p.note.Title,
			Path:  "/" + p.output,
			Text:  search.Strip(p.note.Body),
			Tags:  p.note.Tags,
		})
	}
	data, err := search.Marshal(records)
	if err != nil {
		return err
	}
	if err := b.out.Write(search.IndexPath, data); err != nil {
		return fmt.Errorf("site: write search index: %w", err)
	}

	searchPage, err := assetsFS.ReadFile("assets/search.html")
	if err != nil {
		return fmt.Errorf("site: embedded search page: %w", err)
	}
	if err := b.out.Write("search.html", searchPage); err != nil {
		return fmt.Errorf("site: write search page: %w", err)
	}
	return nil
}

// writeStaticAssets copies the embedded stylesheet and sidebar script into
// the output tree.
func (b *Builder) writeStaticAssets() error {
	for _, name := range []string{"site.css", "site.js"} {
		data, err := assetsFS.ReadFile("assets/" + name)
		if err != nil {
			return fmt.Errorf("site: embedded asset %s: %w", name, err)
		}
		if err := b.out.Write("assets/"+name, data); err != nil {
			return fmt.Errorf("site: write asset %s: %w", name, err)
		}
	}
	return nil
}

// copyVaultAssets mirrors every non-Markdown vault file into the output
// tree, preserving structure.
func (b *Builder) copyVaultAssets() error {
	assets, err := b.in.ListAssets("")
	if err != nil {
		return fmt.Errorf("site: list assets: %w", err)
	}
	for _, rel := range assets {
		data, err := b.in.Read(rel)
		if err != nil {
			return fmt.Errorf("site: read asset %s: %w", rel, err)
		}
		if err := b.out.Write(rel, data); err != nil {
			return fmt.Errorf("site: copy asset %s: %w", rel, err)
		}
	}
	return nil
}
