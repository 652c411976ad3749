// Package reader turns raw document bytes into the structural text
// representation the engine analyzes. Format-specific readers register in a
// registry; a generic plain-text reader is the fallback.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/clausula/internal/model"
)

// Reader defines the interface for format-specific document readers
type Reader interface {
	// Name returns the reader name
	Name() string

	// CanHandle checks if this reader handles the given filename/content type
	CanHandle(filename string, contentType string) bool

	// Parse builds a ParsedDocument from raw bytes
	Parse(data []byte, name string) (*model.ParsedDocument, error)
}

// Registry manages format readers
type Registry struct {
	readers []Reader
	generic Reader
}

// NewRegistry creates a registry with the built-in readers
func NewRegistry() *Registry {
	registry := &Registry{
		readers: make([]Reader, 0),
	}

	registry.Register(NewHTMLReader())

	// Plain text handles .txt and .md and is the fallback
	registry.generic = NewTextReader()

	return registry
}

// Register registers an additional reader
func (r *Registry) Register(reader Reader) {
	r.readers = append(r.readers, reader)
}

// Find returns the best reader for the given filename and content type
func (r *Registry) Find(filename string, contentType string) Reader {
	for _, reader := range r.readers {
		if reader.CanHandle(filename, contentType) {
			return reader
		}
	}
	return r.generic
}

// ParseFile reads and parses a document from disk
func (r *Registry) ParseFile(path string) (*model.ParsedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	reader := r.Find(path, "")
	doc, err := reader.Parse(data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	doc.SourceExt = strings.ToLower(filepath.Ext(path))
	return doc, nil
}

// Parse parses in-memory document bytes, picking a reader by name/type
func (r *Registry) Parse(data []byte, name string, contentType string) (*model.ParsedDocument, error) {
	reader := r.Find(name, contentType)
	doc, err := reader.Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", name, err)
	}
	doc.SourceExt = strings.ToLower(filepath.Ext(name))
	return doc, nil
}
