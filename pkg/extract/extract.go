// Package extract turns source documents into plain text.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Extractor reads the text content of a single document.
type Extractor interface {
	// Extract returns the document text. A document with no extractable text
	// yields an empty string and no error.
	Extract(ctx context.Context, path string) (string, error)
}

// Error reports a document that could not be read or parsed.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Registry selects an Extractor by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns a Registry that handles PDFs plus plain text and markdown.
func NewRegistry() *Registry {
	r := &Registry{byExt: map[string]Extractor{}}
	r.Register(".pdf", &PDF{})
	r.Register(".txt", &Text{})
	r.Register(".md", &Text{})
	return r
}

// Register maps ext (with or without the leading dot, any case) to e.
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[normalizeExt(ext)] = e
}

// For returns the extractor for path, or false when the extension is not handled.
func (r *Registry) For(path string) (Extractor, bool) {
	e, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return e, ok
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.For(path)
	return ok
}

// Extract dispatches path to the matching extractor.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	e, ok := r.For(path)
	if !ok {
		return "", &Error{Path: path, Err: ErrUnsupported}
	}
	return e.Extract(ctx, path)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
