// Package workspace supplies parsed documents and the include graph to the resolver.
package workspace

import (
	"errors"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/source"
)

// ErrNotFound is returned when a document or include target does not exist.
var ErrNotFound = errors.New("file not found")

// Document - разобранный файл.
type Document struct {
	URI     string
	File    *source.File
	Tree    *ast.Tree
	Markers []diag.Diagnostic // маркеры парсера
}

// FileProvider is the file-system boundary of the analysis core.
type FileProvider interface {
	// Get returns the parsed document for uri.
	Get(uri string) (*Document, error)
	// GetAll lists every known source file accepted by filter (nil accepts all), sorted.
	GetAll(filter func(uri string) bool) []string
	// ResolveInclude maps a raw $INCLUDE path written in from to a document uri.
	ResolveInclude(raw, from string) (string, error)
}
