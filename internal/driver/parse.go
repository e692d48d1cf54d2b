package driver

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/parser"
	"cncmacro/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree
	Bag     *diag.Bag
}

// Parse builds the tree for path without resolving symbols.
func Parse(path string, opts Options) (*ParseResult, error) {
	cfg, err := opts.config(path)
	if err != nil {
		return nil, err
	}
	maxErrors, err := opts.maxErrors()
	if err != nil {
		return nil, err
	}
	fs := newFileSet(cfg, "")
	file, err := loadFile(fs, path)
	if err != nil {
		return nil, err
	}

	res := parser.ParseFile(fs, file, parser.Options{MaxErrors: maxErrors})
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.AddAll(res.Markers)
	bag.Sort()

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tree:    res.Tree,
		Bag:     bag,
	}, nil
}
