package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRouter_ServesSite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>home</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(NewRouter(dir))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRouter_Health(t *testing.T) {
	srv := httptest.NewServer(NewRouter(t.TempDir()))
	defer srv.Close()

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
			t.Errorf("%s content-type = %q", path, ct)
		}
		resp.Body.Close()
	}
}

func TestRouter_NotFound(t *testing.T) {
	srv := httptest.NewServer(NewRouter(t.TempDir()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/missing.html")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHiddenPath(t *testing.T) {
	root := "/vault"
	cases := map[string]bool{
		"/vault/01 - A/note.md":     false,
		"/vault/.obsidian/app.json": true,
		"/vault/01 - A/.swap.md":    true,
		"/vault/note.md":            false,
	}
	for p, want := range cases {
		if got := hiddenPath(root, p); got != want {
			t.Errorf("hiddenPath(%q) = %v, want %v", p, got, want)
		}
	}
}
