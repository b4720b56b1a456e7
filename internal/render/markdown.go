// Package render converts Markdown to HTML and generates per-page tables of
// contents using the goldmark engine.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// minTOCEntries is the number of headings a page needs before the table of
// contents sidebar is emitted.
const minTOCEntries = 2

// Engine wraps a configured goldmark instance. It is stateless and safe to
// reuse across pages.
type Engine struct {
	md goldmark.Markdown
}

// NewEngine returns an Engine with GFM extensions, footnotes, definition
// lists, auto heading IDs, and raw HTML passthrough. Raw HTML must pass
// through because wikilink embeds are substituted into the Markdown source
// as HTML blocks before conversion.
func NewEngine() *Engine {
	return &Engine{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.DefinitionList,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Convert renders Markdown to an HTML fragment.
func (e *Engine) Convert(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render: convert: %w", err)
	}
	return buf.String(), nil
}

// Heading is a single entry collected for the table of contents.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// ConvertWithTOC renders Markdown to HTML and returns a nested list built
// from the page's headings. The TOC is empty when the page has fewer than
// two headings.
func (e *Engine) ConvertWithTOC(src []byte) (content string, toc string, err error) {
	reader := text.NewReader(src)
	doc := e.md.Parser().Parse(reader)

	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, src, doc); err != nil {
		return "", "", fmt.Errorf("render: render: %w", err)
	}

	headings := collectHeadings(doc, src)
	if len(headings) >= minTOCEntries {
		toc = renderTOC(headings)
	}
	return buf.String(), toc, nil
}

// collectHeadings walks the AST gathering heading levels, auto-assigned IDs,
// and text in document order.
func collectHeadings(doc ast.Node, src []byte) []Heading {
	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var id string
		if v, found := h.AttributeString("id"); found {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		out = append(out, Heading{
			Level: h.Level,
			ID:    id,
			Text:  string(h.Text(src)),
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// renderTOC builds nested <ul> markup from an ordered heading list. Deeper
// headings nest inside the previous entry's list item.
func renderTOC(headings []Heading) string {
	var b strings.Builder
	openEntry := func(h Heading) {
		b.WriteString(`<li><a href="#`)
		b.WriteString(html.EscapeString(h.ID))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(h.Text))
		b.WriteString(`</a>`)
	}

	b.WriteString(`<ul>`)
	openEntry(headings[0])
	open := 1
	prev := headings[0].Level

	for _, h := range headings[1:] {
		if h.Level > prev {
			for i := prev; i < h.Level; i++ {
				b.WriteString(`<ul>`)
				open++
			}
		} else {
			b.WriteString(`</li>`)
			for i := h.Level; i < prev && open > 1; i++ {
				b.WriteString(`</ul></li>`)
				open--
			}
		}
		prev = h.Level
		openEntry(h)
	}

	b.WriteString(`</li>`)
	for ; open > 1; open-- {
		b.WriteString(`</ul></li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// Slug converts heading text to the anchor form goldmark's auto heading IDs
// use: lowercase, spaces and underscores to hyphens, punctuation dropped.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteByte('-')
		}
	}
	return b.String()
}
