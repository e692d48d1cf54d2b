package parser

import (
	"strings"

	"cncmacro/internal/ast"
	"cncmacro/internal/builtins"
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// parseFfunc: NAME[a,b] | ATAN[a]/[b] | DPRNT[text#100[53]] | POPEN
// Any argument list is accepted; the index of the matching signature is stored on the node.
func (p *Parser) parseFfunc() ast.NodeID {
	name := p.advance()
	data := &ast.FfuncData{
		Name:             strings.ToUpper(name.Text),
		Delimiter:        token.Comma,
		MatchedSignature: -1,
	}
	f := p.tree.New(ast.KindFfunc, name.Span, data)
	defer p.enter(f)()

	bracketed := p.at(token.LBracket)
	switch {
	case bracketed && token.IsPrintFunction(name.Text):
		p.parsePrintArgs(f, data)
	case bracketed:
		p.parseArgs(f, data)
	}

	data.MatchedSignature = builtins.Match(data.Name, len(data.Args), data.Delimiter, bracketed)
	if !bracketed && data.MatchedSignature < 0 {
		p.err(diag.SynExpectOpenBracket, "expected '[' after "+data.Name+", got "+describe(p.lx.Peek()))
	}
	return f
}

func (p *Parser) addArg(f ast.NodeID, data *ast.FfuncData, arg ast.NodeID) {
	if arg.IsValid() {
		data.Args = append(data.Args, arg)
		p.tree.AddChild(f, arg)
	}
}

func (p *Parser) parseArgs(f ast.NodeID, data *ast.FfuncData) {
	p.advance() // '['
	if !p.at(token.RBracket) {
		for {
			p.addArg(f, data, p.parseExpr())
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closing, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close "+data.Name+" arguments, got "+describe(p.lx.Peek()))
	if !ok {
		return
	}
	p.tree.Extend(f, closing.Span)

	// ATAN[y]/[x]
	if len(data.Args) == 1 && p.at(token.Slash) && builtins.HasSlashForm(data.Name) {
		p.advance()
		data.Delimiter = token.Slash
		if _, ok := p.expect(token.LBracket, diag.SynExpectOpenBracket, "expected '[' after '/', got "+describe(p.lx.Peek())); !ok {
			return
		}
		p.addArg(f, data, p.parseExpr())
		if closing, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']', got "+describe(p.lx.Peek())); ok {
			p.tree.Extend(f, closing.Span)
		}
	}
}

// parsePrintArgs reads DPRNT/BPRNT arguments: free text and variables with a format, #100[53].
func (p *Parser) parsePrintArgs(f ast.NodeID, data *ast.FfuncData) {
	p.advance() // '['
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.Text:
			p.addArg(f, data, p.leaf(ast.KindText, p.advance()))
		case token.Hash:
			p.addArg(f, data, p.parsePrintVariable())
		case token.RBracket:
			closing := p.advance()
			p.tree.Extend(f, closing.Span)
			return
		case token.Newline, token.EOF:
			p.err(diag.SynUnclosedBracket, "expected ']' to close "+data.Name+" arguments")
			return
		default:
			p.err(diag.SynUnexpectedToken, "unexpected "+describe(tok)+" in "+data.Name+" arguments")
			p.advance()
		}
	}
}

func (p *Parser) parsePrintVariable() ast.NodeID {
	hash := p.advance()
	data := &ast.VariableData{}
	v := p.tree.NewRef(ast.KindVariable, hash.Span, ast.RefVariable, data)
	defer p.enter(v)()

	switch {
	case p.at(token.Number):
		data.Index = p.leaf(ast.KindNumeric, p.advance())
	case p.at(token.Ident):
		data.Index = p.ref(ast.KindSymbol, p.advance(), ast.RefSymbol|ast.RefVariable)
	default:
		p.err(diag.SynExpectIdentifier, "expected variable number after '#', got "+describe(p.lx.Peek()))
		return v
	}
	p.tree.AddChild(v, data.Index)

	// format [integer fraction]
	if p.at(token.LBracket) {
		p.advance()
		if p.at(token.Number) {
			p.tree.AddChild(v, p.leaf(ast.KindNumeric, p.advance()))
		}
		if closing, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after print format"); ok {
			p.tree.Extend(v, closing.Span)
		}
	}
	return v
}
