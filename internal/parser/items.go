package parser

import (
	"strings"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// parseInclude: $INCLUDE "path" | $INCLUDE path
// An unquoted path is read as raw bytes up to whitespace or a comment.
func (p *Parser) parseInclude() {
	kw := p.advance()
	data := &ast.IncludeData{}
	inc := p.tree.New(ast.KindInclude, kw.Span, data)
	p.tree.AddChild(p.tree.Root, inc)
	defer p.enter(inc)()

	p.lx.ScanWhile(func(b byte) bool { return b == ' ' || b == '\t' || b == '\r' })
	off := p.lx.Offset()
	content := p.file.Content
	switch {
	case int(off) >= len(content) || content[off] == '\n' || content[off] == ';':
		p.err(diag.SynExpectIncludePath, "expected include path after $INCLUDE")
	case content[off] == '"':
		tok := p.advance()
		data.Path = unquote(tok.Text)
		data.PathSpan = tok.Span
		data.Quoted = true
		p.tree.Extend(inc, tok.Span)
	default:
		sp := p.lx.ScanWhile(func(b byte) bool {
			return b != ' ' && b != '\t' && b != '\r' && b != '\n' && b != ';'
		})
		data.Path = p.file.Text(sp)
		data.PathSpan = sp
		p.lastSpan = sp
		p.tree.Extend(inc, sp)
	}
	p.endStatement()
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// parseDefinition parses @NAME value (symbol) or >NAME value (label).
func (p *Parser) parseDefinition(kind ast.Kind) {
	sigil := p.advance()
	data := &ast.DefinitionData{}
	def := p.tree.New(kind, sigil.Span, data)
	p.tree.AddChild(p.tree.Root, def)
	defer p.enter(def)()

	if !p.at(token.Ident) {
		p.err(diag.SynExpectIdentifier, "expected name after '"+sigil.Text+"', got "+describe(p.lx.Peek()))
		p.skipLine()
		p.endStatement()
		return
	}
	nameTok := p.advance()
	ref := ast.RefSymbol
	nameKind := ast.KindSymbol
	if kind == ast.KindLabelDefinition {
		ref, nameKind = ast.RefLabel, ast.KindLabel
	}
	data.Name = p.ref(nameKind, nameTok, ref)
	p.tree.AddChild(def, data.Name)

	data.Value = p.parseDefinitionValue()
	p.attach(def, data.Value)
	p.endStatement()
}

// parseDefinitionValue: 100 | -1.5 | #100 | G01 | X | O1000 | OTHER_SYMBOL | "text"
func (p *Parser) parseDefinitionValue() ast.NodeID {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Number:
		return p.leaf(ast.KindNumeric, p.advance())
	case token.Hash:
		return p.parseVariable()
	case token.String:
		return p.leaf(ast.KindString, p.advance())
	case token.Ident:
		return p.ref(ast.KindSymbol, p.advance(), ast.RefSymbol)
	case token.Address:
		letter := p.advance()
		if p.at(token.Number) {
			return p.finishCode(letter)
		}
		return p.ref(ast.KindAddress, letter, ast.RefAddress)
	}
	p.err(diag.SynExpectValue, "expected definition value, got "+describe(tok))
	return ast.NoNodeID
}

// finishCode expects the number after an already consumed letter: G01, M30, O1000.
func (p *Parser) finishCode(letter token.Token) ast.NodeID {
	data := &ast.CodeData{Letter: upper(letter.Text[0])}
	code := p.tree.New(ast.KindCode, letter.Span, data)
	data.Number = p.leaf(ast.KindNumeric, p.advance())
	p.tree.AddChild(code, data.Number)
	return code
}

// parseProgram parses O1000 | O MYPROG and the body up to the next O or EOF.
func (p *Parser) parseProgram() {
	o := p.advance()
	data := &ast.ProgramData{}
	prog := p.tree.New(ast.KindProgram, o.Span, data)
	p.tree.AddChild(p.tree.Root, prog)
	defer p.enter(prog)()

	switch {
	case p.at(token.Number):
		data.Number = p.leaf(ast.KindNumeric, p.advance())
	case p.at(token.Ident):
		data.Number = p.ref(ast.KindSymbol, p.advance(), ast.RefSymbol|ast.RefProgram)
	default:
		p.err(diag.SynExpectProgramNumber, "expected program number after O, got "+describe(p.lx.Peek()))
	}
	p.attach(prog, data.Number)
	p.endStatement()

	p.parseBlock(prog, 0)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
