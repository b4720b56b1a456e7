package render

import (
	"strings"
	"testing"
)

func TestExpandWikilinks_Resolved(t *testing.T) {
	var gotTarget, gotAnchor string
	resolve := func(target, anchor string) (Embed, bool) {
		gotTarget, gotAnchor = target, anchor
		return Embed{
			Title: "Note B",
			HTML:  "<h1>Note B</h1>\n<p>content</p>",
			Href:  "01 - Topics/Note B.html#setup",
		}, true
	}

	out := ExpandWikilinks("See [[Note B#Setup|the note]].", resolve)

	if gotTarget != "Note B" || gotAnchor != "Setup" {
		t.Errorf("resolver got target=%q anchor=%q", gotTarget, gotAnchor)
	}
	if !strings.Contains(out, `<details class="embed-block mb-3">`) {
		t.Errorf("embed panel missing: %q", out)
	}
	if !strings.Contains(out, "<span>Note B</span>") {
		t.Errorf("panel title missing: %q", out)
	}
	if !strings.Contains(out, `href="01 - Topics/Note B.html#setup"`) {
		t.Errorf("open-page href missing: %q", out)
	}
	if strings.Contains(out, "[[") {
		t.Errorf("wikilink left behind: %q", out)
	}
}

func TestExpandWikilinks_UnresolvedLeftAlone(t *testing.T) {
	resolve := func(string, string) (Embed, bool) { return Embed{}, false }
	src := "See [[Missing Note]] here."
	if out := ExpandWikilinks(src, resolve); out != src {
		t.Errorf("unresolved link altered: %q", out)
	}
}

func TestExpandWikilinks_BlankLinesCollapsed(t *testing.T) {
	resolve := func(string, string) (Embed, bool) {
		return Embed{Title: "T", HTML: "<p>a</p>\n\n<p>b</p>", Href: "t.html"}, true
	}
	out := ExpandWikilinks("[[T]]", resolve)
	if strings.Contains(out, "\n\n") {
		t.Errorf("blank line survived inside embed: %q", out)
	}
}

func TestExpandWikilinks_EscapesTitle(t *testing.T) {
	resolve := func(string, string) (Embed, bool) {
		return Embed{Title: `A <b> & "B"`, HTML: "", Href: "x.html"}, true
	}
	out := ExpandWikilinks("[[x]]", resolve)
	if !strings.Contains(out, "A &lt;b&gt; &amp; &#34;B&#34;") {
		t.Errorf("title not escaped: %q", out)
	}
}
