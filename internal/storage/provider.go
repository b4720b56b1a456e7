// Package storage defines the file-system abstraction shared by the vault
// (read side) and the generated site (write side).
package storage

import "github.com/starford/sowilo/internal/models"

// Provider is the interface for vault and output file operations.
type Provider interface {
	// ListNotes returns metadata for every Markdown file under dir
	// (relative to the root), sorted by path.
	ListNotes(dir string) ([]models.NoteMetadata, error)
	// ListAssets returns the relative paths of every non-Markdown,
	// non-hidden file under dir, sorted.
	ListAssets(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root),
	// creating parent directories as needed.
	Write(path string, content []byte) error
}
