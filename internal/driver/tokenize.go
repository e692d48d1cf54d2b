package driver

import (
	"cncmacro/internal/diag"
	"cncmacro/internal/lexer"
	"cncmacro/internal/source"
	"cncmacro/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize scans path to EOF. The EOF token is the last element of Tokens.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	cfg, err := opts.config(path)
	if err != nil {
		return nil, err
	}
	fs := newFileSet(cfg, "")
	file, err := loadFile(fs, path)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	bag.Sort()

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
