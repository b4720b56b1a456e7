// Package nav builds the navigation tree from the vault's folder structure
// and renders it as nested collapsible HTML for the sidebar.
package nav

import (
	"path"
	"sort"
	"strings"
	"unicode"
)

// File is a leaf page in the navigation tree.
type File struct {
	Title  string // sidebar label, numeric prefix already stripped
	Source string // vault-relative Markdown path
	Output string // site-relative HTML path
}

// Dir is a folder node. Subdirectories are keyed by their raw folder name;
// labels are derived at render time.
type Dir struct {
	Name    string
	Path    string // vault-relative, "" for the root
	Subdirs map[string]*Dir
	Files   []*File
}

// Included applies the vault's publishing convention to a vault-relative
// Markdown path: hidden components are skipped everywhere, the root admits
// only index.md, and top-level folders participate only when their name
// starts with a digit.
func Included(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, p := range parts {
		if strings.HasPrefix(p, ".") {
			return false
		}
	}
	if len(parts) == 1 {
		return strings.EqualFold(parts[0], "index.md") || strings.EqualFold(parts[0], "index.markdown")
	}
	first := []rune(parts[0])
	return len(first) > 0 && unicode.IsDigit(first[0])
}

// Build constructs the tree from the included files. Files within a folder
// are ordered by source filename for stable navigation.
func Build(files []*File) *Dir {
	root := &Dir{Subdirs: map[string]*Dir{}}
	for _, f := range files {
		node := root
		dir := path.Dir(f.Source)
		if dir != "." {
			accumulated := ""
			for _, part := range strings.Split(dir, "/") {
				if accumulated == "" {
					accumulated = part
				} else {
					accumulated = accumulated + "/" + part
				}
				child, ok := node.Subdirs[part]
				if !ok {
					child = &Dir{Name: part, Path: accumulated, Subdirs: map[string]*Dir{}}
					node.Subdirs[part] = child
				}
				node = child
			}
		}
		node.Files = append(node.Files, f)
	}
	sortTree(root)
	return root
}

func sortTree(d *Dir) {
	sort.Slice(d.Files, func(i, j int) bool {
		return strings.ToLower(path.Base(d.Files[i].Source)) < strings.ToLower(path.Base(d.Files[j].Source))
	})
	for _, sub := range d.Subdirs {
		sortTree(sub)
	}
}

// sortedSubdirNames returns subdirectory names ordered case-insensitively.
func (d *Dir) sortedSubdirNames() []string {
	names := make([]string, 0, len(d.Subdirs))
	for name := range d.Subdirs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// contains reports whether the current page lives under this folder.
func (d *Dir) contains(source string) bool {
	return d.Path != "" && strings.HasPrefix(source, d.Path+"/")
}
