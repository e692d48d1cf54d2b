package parser

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// parseGoto: GOTO 100 | GOTO LABEL | GOTO #1 | GOTO [expr]
func (p *Parser) parseGoto(parent ast.NodeID) ast.NodeID {
	kw := p.advance()
	data := &ast.GotoData{}
	g := p.tree.New(ast.KindGoto, kw.Span, data)
	p.tree.AddChild(parent, g)
	defer p.enter(g)()

	switch {
	case p.at(token.Number):
		data.Target = p.leaf(ast.KindNumeric, p.advance())
	case p.at(token.Ident):
		data.Target = p.ref(ast.KindSymbol, p.advance(), ast.RefLabel|ast.RefSymbol|ast.RefSequence)
	case p.atOr(token.Hash, token.LBracket, token.LParen):
		data.Target = p.parseExpr()
	default:
		p.err(diag.SynExpectLabel, "expected sequence number or label after GOTO, got "+describe(p.lx.Peek()))
	}
	p.attach(g, data.Target)
	return g
}

// parseIf:
//
//	IF [c] GOTO n
//	IF [c] THEN stmt
//	IF [c] THEN \n ... [ELSE \n ...] ENDIF
func (p *Parser) parseIf(parent ast.NodeID) bool {
	kw := p.advance()
	data := &ast.IfData{}
	ifn := p.tree.New(ast.KindIf, kw.Span, data)
	p.tree.AddChild(parent, ifn)
	defer p.enter(ifn)()

	var ok bool
	if data.Cond, ok = p.parseBracketCondition(ifn); !ok {
		return false
	}

	switch {
	case p.at(token.KwGoto):
		data.Then = p.parseGoto(ifn)
		return true
	case p.at(token.KwThen):
		thenTok := p.advance()
		if p.atLineEnd() {
			return p.parseThenBlock(ifn, data, thenTok)
		}
		return p.parseThenTerm(ifn, data, thenTok)
	}
	p.err(diag.SynExpectThenOrGoto, "expected THEN or GOTO after IF condition, got "+describe(p.lx.Peek()))
	return false
}

func (p *Parser) parseThenTerm(ifn ast.NodeID, data *ast.IfData, thenTok token.Token) bool {
	tt := p.tree.New(ast.KindThenTerm, thenTok.Span, nil)
	p.tree.AddChild(ifn, tt)
	data.Then = tt
	defer p.enter(tt)()
	for !p.atLineEnd() {
		if !p.parseItem(tt) {
			return false
		}
	}
	return true
}

func (p *Parser) parseThenBlock(ifn ast.NodeID, data *ast.IfData, thenTok token.Token) bool {
	then := p.tree.New(ast.KindThen, thenTok.Span, nil)
	p.tree.AddChild(ifn, then)
	data.Then = then
	p.endStatement()

	term := p.parseBlock(then, stopElse|stopEndif)
	if term == token.KwElse {
		elseTok := p.advance()
		el := p.tree.New(ast.KindElse, elseTok.Span, nil)
		p.tree.AddChild(ifn, el)
		data.Else = el
		p.endStatement()
		term = p.parseBlock(el, stopEndif)
	}
	if term != token.KwEndif {
		p.reportOn(ifn, diag.SynExpectEndif, p.tree.Get(ifn).Span.ZeroideToStart().Cover(thenTok.Span), "missing ENDIF for IF ... THEN block")
		return true
	}
	end := p.advance()
	p.tree.Extend(ifn, end.Span)
	return true
}

// parseWhile:
//
//	WHILE [c] DO n \n ... END n
//	DO n \n ... END n
func (p *Parser) parseWhile(parent ast.NodeID) bool {
	first := p.lx.Peek()
	data := &ast.WhileData{}
	w := p.tree.New(ast.KindWhile, first.Span, data)
	p.tree.AddChild(parent, w)
	defer p.enter(w)()

	if p.at(token.KwWhile) {
		p.advance()
		var ok bool
		if data.Cond, ok = p.parseBracketCondition(w); !ok {
			return false
		}
		if !p.at(token.KwDo) {
			p.err(diag.SynExpectDo, "expected DO after WHILE condition, got "+describe(p.lx.Peek()))
			return false
		}
	}
	doTok := p.advance()
	p.tree.Extend(w, doTok.Span)
	data.Do = p.parseLoopNumber("DO")
	p.attach(w, data.Do)
	p.endStatement()

	term := p.parseBlock(w, stopEnd)
	if term != token.KwEnd {
		p.reportOn(w, diag.SynExpectEnd, first.Span.Cover(doTok.Span), "missing END for "+loopName(data)+" loop")
		return true
	}
	end := p.advance()
	p.tree.Extend(w, end.Span)
	data.End = p.parseLoopNumber("END")
	p.attach(w, data.End)
	return true
}

func loopName(data *ast.WhileData) string {
	if data.Cond.IsValid() {
		return "WHILE"
	}
	return "DO"
}

// parseLoopNumber reads the number after DO/END: a numeric or a symbol.
func (p *Parser) parseLoopNumber(kw string) ast.NodeID {
	switch {
	case p.at(token.Number):
		return p.leaf(ast.KindNumeric, p.advance())
	case p.at(token.Ident):
		return p.ref(ast.KindSymbol, p.advance(), ast.RefSymbol)
	}
	p.err(diag.SynExpectValue, "expected loop number after "+kw+", got "+describe(p.lx.Peek()))
	return ast.NoNodeID
}
