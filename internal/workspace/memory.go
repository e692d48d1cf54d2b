package workspace

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"cncmacro/internal/parser"
	"cncmacro/internal/source"
)

// MemProvider держит файлы в памяти; пути - в форме slash. Используется в тестах
// и для документов, которых нет на диске.
type MemProvider struct {
	mu           sync.Mutex
	fs           *source.FileSet
	texts        map[string]string
	docs         map[string]*Document
	includePaths []string
}

func NewMemProvider(files map[string]string, includePaths ...string) *MemProvider {
	p := &MemProvider{
		fs:           source.NewFileSet(),
		texts:        make(map[string]string, len(files)),
		docs:         make(map[string]*Document),
		includePaths: includePaths,
	}
	for name, text := range files {
		p.texts[path.Clean(name)] = text
	}
	return p
}

func (p *MemProvider) FileSet() *source.FileSet { return p.fs }

// Set заменяет текст файла; следующий Get разберёт его заново.
func (p *MemProvider) Set(uri, text string) {
	uri = path.Clean(uri)
	p.mu.Lock()
	p.texts[uri] = text
	delete(p.docs, uri)
	p.mu.Unlock()
}

func (p *MemProvider) Get(uri string) (*Document, error) {
	uri = path.Clean(uri)
	p.mu.Lock()
	defer p.mu.Unlock()
	if doc, ok := p.docs[uri]; ok {
		return doc, nil
	}
	text, ok := p.texts[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	file := p.fs.Get(p.fs.AddVirtual(uri, []byte(text)))
	res := parser.ParseFile(p.fs, file, parser.Options{})
	doc := &Document{URI: uri, File: file, Tree: res.Tree, Markers: res.Markers}
	p.docs[uri] = doc
	return doc, nil
}

func (p *MemProvider) GetAll(filter func(uri string) bool) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.texts))
	for uri := range p.texts {
		if filter == nil || filter(uri) {
			out = append(out, uri)
		}
	}
	slices.Sort(out)
	return out
}

func (p *MemProvider) ResolveInclude(raw, from string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	exts := p.fs.Extensions()
	for _, cand := range includeCandidates(raw, from, p.includePaths, exts) {
		cand = path.Clean(filepath.ToSlash(cand))
		if _, ok := p.texts[cand]; ok {
			return cand, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, raw)
}
