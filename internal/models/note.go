// Package models defines the domain types for Sowilo.
package models

import (
	"strings"
	"time"
)

// Note represents a parsed Markdown file in the vault.
type Note struct {
	Path        string                 `json:"path"`
	Content     []byte                 `json:"-"`
	Body        string                 `json:"body"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Links       []string               `json:"links,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Checksum    string                 `json:"checksum"`
}

// Description returns the frontmatter "description" field, or empty when
// absent or not a string.
func (n *Note) Description() string {
	if n.Frontmatter == nil {
		return ""
	}
	v, ok := n.Frontmatter["description"]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// NoteMetadata is a lightweight representation returned by vault scans.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
