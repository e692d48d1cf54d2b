package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"cncmacro/internal/parser"
	"cncmacro/internal/source"
)

type Options struct {
	Roots        []string // каталоги для GetAll
	IncludePaths []string // где ещё искать $INCLUDE
	MaxErrors    uint
}

// DiskProvider читает и разбирает файлы с диска, кэшируя документы по абсолютному пути.
// Безопасен для параллельного использования.
type DiskProvider struct {
	mu   sync.Mutex
	fs   *source.FileSet
	opts Options
	docs map[string]*Document
}

func NewDiskProvider(fileSet *source.FileSet, opts Options) *DiskProvider {
	return &DiskProvider{
		fs:   fileSet,
		opts: opts,
		docs: make(map[string]*Document),
	}
}

func (p *DiskProvider) FileSet() *source.FileSet { return p.fs }

func (p *DiskProvider) Get(uri string) (*Document, error) {
	path, err := source.AbsolutePath(uri)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if doc, ok := p.docs[path]; ok {
		return doc, nil
	}

	fileID, err := p.fs.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	file := p.fs.Get(fileID)
	res := parser.ParseFile(p.fs, file, parser.Options{MaxErrors: p.opts.MaxErrors})
	doc := &Document{
		URI:     path,
		File:    file,
		Tree:    res.Tree,
		Markers: res.Markers,
	}
	p.docs[path] = doc
	return doc, nil
}

// Invalidate drops the cached document so the next Get re-reads it.
func (p *DiskProvider) Invalidate(uri string) {
	path, err := source.AbsolutePath(uri)
	if err != nil {
		return
	}
	p.mu.Lock()
	delete(p.docs, path)
	p.mu.Unlock()
}

func (p *DiskProvider) GetAll(filter func(uri string) bool) []string {
	exts := p.fs.Extensions()
	var out []string
	for _, root := range p.opts.Roots {
		// ошибки обхода не фатальны: берём что смогли прочитать
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !exts.Matches(path) {
				return nil
			}
			abs, absErr := source.AbsolutePath(path)
			if absErr != nil {
				return nil
			}
			if filter == nil || filter(abs) {
				out = append(out, abs)
			}
			return nil
		})
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ResolveInclude: относительно включающего файла, затем по IncludePaths.
// Путь без расширения пробуется с расширениями файлов определений.
func (p *DiskProvider) ResolveInclude(raw, from string) (string, error) {
	for _, cand := range includeCandidates(raw, from, p.opts.IncludePaths, p.fs.Extensions()) {
		if info, err := os.Stat(cand); err == nil && !info.IsDir() {
			return source.AbsolutePath(cand)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, raw)
}

func includeCandidates(raw, from string, includePaths []string, exts source.Extensions) []string {
	var bases []string
	if filepath.IsAbs(raw) {
		bases = []string{filepath.Clean(raw)}
	} else {
		bases = append(bases, filepath.Join(filepath.Dir(from), raw))
		for _, dir := range includePaths {
			bases = append(bases, filepath.Join(dir, raw))
		}
	}
	if filepath.Ext(raw) != "" {
		return bases
	}
	out := make([]string, 0, len(bases)*(1+len(exts.Definition)))
	for _, b := range bases {
		out = append(out, b)
		for _, ext := range exts.Definition {
			out = append(out, b+ext)
		}
	}
	return out
}
