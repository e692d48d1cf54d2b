package parser

import (
	"slices"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/lexer"
	"cncmacro/internal/source"
	"cncmacro/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter // extra sink; markers are attached to nodes regardless
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors > o.MaxErrors
}

type Result struct {
	Tree    *ast.Tree
	Markers []diag.Diagnostic // all markers of the tree, by position
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	tree     *ast.Tree
	file     *source.File
	opts     Options
	cur      ast.NodeID  // innermost open node, markers attach here
	stop     stopSet     // terminators of every open block
	boundary bool        // block was closed by a program boundary (O, $INCLUDE, @, >)
	lastSpan source.Span // span of the last consumed token
}

// ParseFile parses one file. The file kind (program or definitions) comes from file.Kind.
// It never panics on bad input: every error becomes a marker on a node.
func ParseFile(fs *source.FileSet, file *source.File, opts Options) Result {
	p := &Parser{
		file: file,
		opts: opts,
	}
	p.tree = ast.NewTree(file, fs)
	p.cur = p.tree.Root
	p.lx = lexer.New(file, lexer.Options{Reporter: diag.NewDedupReporter(markerSink{p})})
	p.lastSpan = p.lx.EmptySpan()

	p.parseItems()

	markers := p.tree.Markers()
	slices.SortStableFunc(markers, func(a, b diag.Diagnostic) int {
		if a.Primary.Start != b.Primary.Start {
			return int(a.Primary.Start) - int(b.Primary.Start)
		}
		return int(a.Code) - int(b.Code)
	})
	return Result{Tree: p.tree, Markers: markers}
}

// ParseSource parses in-memory text.
func ParseSource(name, text string, kind source.FileKind, opts Options) (Result, *source.FileSet) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual(name, []byte(text)))
	f.Kind = kind
	return ParseFile(fs, f, opts), fs
}

// markerSink attaches lexer errors to the current node.
type markerSink struct{ p *Parser }

func (s markerSink) Report(d diag.Diagnostic) { s.p.emit(d) }

// parseItems is the top-level loop.
//
//	program:     $INCLUDE | @NAME v | >NAME v | O1000 ...
//	definitions: $INCLUDE | @NAME v | >NAME v
func (p *Parser) parseItems() {
	for !p.at(token.EOF) {
		p.boundary = false
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.Newline:
			p.advance()
		case tok.Kind == token.Percent:
			p.skipLine()
		case tok.Kind == token.KwInclude:
			p.parseInclude()
		case tok.Kind == token.At:
			p.parseDefinition(ast.KindSymbolDefinition)
		case tok.Kind == token.Gt:
			p.parseDefinition(ast.KindLabelDefinition)
		case p.file.Kind == source.KindDefinition:
			p.err(diag.SynDefinitionFileOnly, "only $INCLUDE, @symbol and >label definitions are allowed in a definition file")
			p.skipLine()
		case isProgramStart(tok):
			p.parseProgram()
		default:
			p.parseStray()
		}
	}
}

// parseStray parses an executable line before the first O header so the
// tree stays complete, and marks it as an error.
func (p *Parser) parseStray() {
	stmt, _ := p.parseStatement()
	if !stmt.IsValid() {
		return
	}
	p.tree.AddChild(p.tree.Root, stmt)
	p.reportOn(stmt, diag.SynStatementOutsideProgram, p.tree.Get(stmt).Span, "statement outside of a program; expected O<number> first")
}

func isProgramStart(tok token.Token) bool {
	return tok.Kind == token.Address && (tok.Text == "O" || tok.Text == "o")
}
