package site

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/starford/sowilo/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildVault(t *testing.T, files map[string]string) (vaultDir, outDir string) {
	t.Helper()
	vaultDir, in := testutil.TestVault(t)
	for rel, content := range files {
		testutil.WriteFile(t, vaultDir, rel, content)
	}
	outDir, out := testutil.TestOutput(t)

	b, err := NewBuilder(in, out, "Test Site", discardLogger())
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return vaultDir, outDir
}

func testFiles() map[string]string {
	return map[string]string{
		"index.md":                          "# Home\n\nWelcome. See [[Note B]].\n",
		"01 - Topics/01 Note A.md":          "# Note A\n\n## First Part\n\ntext\n\n## Second Part\n\nmore\n",
		"01 - Topics/02 Note B.md":          "# Note B\n\nContent of note B.\n",
		"01 - Topics/02 - Deep/03 Gamma.md": "# Gamma\n\nSee [[Note A]] and [[No Such Note]].\n",
		"Draft.md":                          "# Draft\n\nNot published.\n",
		"unnumbered/Skipped.md":             "# Skipped\n\nNot published either.\n",
		"img/logo.png":                      "not really a png",
		".obsidian/app.json":                "{}",
	}
}

func readOutput(t *testing.T, outDir, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return data
}

func parseHTML(t *testing.T, data []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestBuild_OneOutputPerIncludedNote(t *testing.T) {
	_, outDir := buildVault(t, testFiles())

	for _, rel := range []string{
		"index.html",
		"01 - Topics/01 Note A.html",
		"01 - Topics/02 Note B.html",
		"01 - Topics/02 - Deep/03 Gamma.html",
		"search.html",
		"assets/search_index.json",
		"assets/site.css",
		"assets/site.js",
		"img/logo.png",
	} {
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing output %s: %v", rel, err)
		}
	}

	for _, rel := range []string{"Draft.html", "unnumbered/Skipped.html", ".obsidian/app.json"} {
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel))); err == nil {
			t.Errorf("unexpected output %s", rel)
		}
	}
}

func TestBuild_WikilinkEmbed(t *testing.T) {
	_, outDir := buildVault(t, testFiles())
	doc := parseHTML(t, readOutput(t, outDir, "index.html"))

	embeds := doc.Find("details.embed-block")
	if embeds.Length() != 1 {
		t.Fatalf("embed count = %d, want 1", embeds.Length())
	}
	if got := embeds.Find("summary span").First().Text(); got != "Note B" {
		t.Errorf("embed title = %q", got)
	}
	if !strings.Contains(embeds.Text(), "Content of note B.") {
		t.Error("embedded page content missing")
	}
	href, _ := embeds.Find("a.link-secondary").Attr("href")
	if href != "01 - Topics/02 Note B.html" {
		t.Errorf("open-page href = %q", href)
	}
}

func TestBuild_UnresolvedWikilinkDegrades(t *testing.T) {
	_, outDir := buildVault(t, testFiles())
	page := string(readOutput(t, outDir, "01 - Topics/02 - Deep/03 Gamma.html"))

	if !strings.Contains(page, "[[No Such Note]]") {
		t.Error("unresolved wikilink should remain literal text")
	}
	// The resolvable sibling link did become an embed.
	if !strings.Contains(page, `class="embed-block`) {
		t.Error("resolved wikilink missing its embed")
	}
}

func TestBuild_NavigationSidebar(t *testing.T) {
	_, outDir := buildVault(t, testFiles())
	doc := parseHTML(t, readOutput(t, outDir, "01 - Topics/01 Note A.html"))

	active := doc.Find("aside.sidebar a.nav-link.active")
	if active.Length() != 1 {
		t.Fatalf("active links = %d, want 1", active.Length())
	}
	if got := active.Text(); got != "Note A" {
		t.Errorf("active label = %q", got)
	}
	// The folder holding the current page renders open.
	if doc.Find("aside.sidebar details[open]").Length() != 1 {
		t.Error("expected exactly one open folder")
	}
	// Folder label has its numeric prefix stripped.
	if !strings.Contains(doc.Find("aside.sidebar summary").Text(), "Topics") {
		t.Error("folder label missing")
	}
}

func TestBuild_TOCOnlyWithEnoughHeadings(t *testing.T) {
	_, outDir := buildVault(t, testFiles())

	withTOC := parseHTML(t, readOutput(t, outDir, "01 - Topics/01 Note A.html"))
	if withTOC.Find("aside.rightbar .toc a").Length() < 2 {
		t.Error("expected TOC entries on multi-heading page")
	}

	without := parseHTML(t, readOutput(t, outDir, "01 - Topics/02 Note B.html"))
	if without.Find("aside.rightbar").Length() != 0 {
		t.Error("TOC should be suppressed on single-heading page")
	}
}

func TestBuild_PageTitleIncludesSiteTitle(t *testing.T) {
	_, outDir := buildVault(t, testFiles())
	doc := parseHTML(t, readOutput(t, outDir, "index.html"))
	if got := doc.Find("title").Text(); got != "Home · Test Site" {
		t.Errorf("title = %q", got)
	}
}

func TestBuild_SearchIndex(t *testing.T) {
	_, outDir := buildVault(t, testFiles())
	data := string(readOutput(t, outDir, "assets/search_index.json"))

	if !strings.Contains(data, `"path":"/01 - Topics/02 Note B.html"`) {
		t.Errorf("search index missing page href: %s", data)
	}
	if !strings.Contains(data, "Content of note B.") {
		t.Error("search index missing plain text")
	}
	if strings.Contains(data, "Not published") {
		t.Error("excluded notes leaked into search index")
	}
}

func TestBuild_LogsUnresolvedWikilink(t *testing.T) {
	vaultDir, in := testutil.TestVault(t)
	testutil.WriteFile(t, vaultDir, "index.md", "# Home\n\nSee [[No Such Note]].\n")
	_, out := testutil.TestOutput(t)

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	b, err := NewBuilder(in, out, "", logger)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "unresolved wikilink") || !strings.Contains(logged, "No Such Note") {
		t.Errorf("unresolved wikilink not logged:\n%s", logged)
	}
}

func TestBuild_SearchIndexIncludesTags(t *testing.T) {
	_, outDir := buildVault(t, map[string]string{
		"index.md":           "# Home\n",
		"01 - Notes/Dogs.md": "---\ntags:\n  - pets\n---\n# Dogs\n\nAbout #animals.\n",
	})
	data := string(readOutput(t, outDir, "assets/search_index.json"))

	if !strings.Contains(data, `"tags":["pets","animals"]`) {
		t.Errorf("tags missing from search index: %s", data)
	}
}

func TestBuild_DescriptionMeta(t *testing.T) {
	_, outDir := buildVault(t, map[string]string{
		"index.md": "---\ndescription: A vault of notes.\n---\n# Home\n",
	})
	doc := parseHTML(t, readOutput(t, outDir, "index.html"))

	content, ok := doc.Find(`meta[name="description"]`).Attr("content")
	if !ok || content != "A vault of notes." {
		t.Errorf("description meta = %q, ok = %v", content, ok)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	files := testFiles()
	_, outA := buildVault(t, files)
	_, outB := buildVault(t, files)

	for _, rel := range []string{"index.html", "01 - Topics/01 Note A.html", "assets/search_index.json"} {
		a := readOutput(t, outA, rel)
		b := readOutput(t, outB, rel)
		if !bytes.Equal(a, b) {
			t.Errorf("%s differs between identical builds", rel)
		}
	}
}
