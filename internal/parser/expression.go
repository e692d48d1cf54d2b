package parser

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// Precedence from weakest to strongest: additive (+ - OR XOR),
// multiplicative (* / AND MOD), unary sign, primary.
func (p *Parser) parseExpr() ast.NodeID {
	return p.parseAdditive()
}

func (p *Parser) parseAdditive() ast.NodeID {
	left := p.parseMultiplicative()
	for p.atOr(token.Plus, token.Minus, token.KwOr, token.KwXor) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = p.binary(op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.NodeID {
	left := p.parseUnary()
	for p.atOr(token.Star, token.Slash, token.KwAnd, token.KwMod) {
		op := p.advance()
		right := p.parseUnary()
		left = p.binary(op, left, right)
	}
	return left
}

func (p *Parser) binary(op token.Token, left, right ast.NodeID) ast.NodeID {
	b := p.tree.New(ast.KindBinary, op.Span, &ast.BinaryData{Op: op.Kind, Left: left, Right: right})
	p.attach(b, left)
	p.attach(b, right)
	return b
}

func (p *Parser) parseUnary() ast.NodeID {
	if p.atOr(token.Minus, token.Plus) {
		op := p.advance()
		data := &ast.UnaryData{Op: op.Kind}
		u := p.tree.New(ast.KindUnary, op.Span, data)
		data.Operand = p.parseUnary()
		p.attach(u, data.Operand)
		return u
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.NodeID {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Number:
		return p.leaf(ast.KindNumeric, p.advance())
	case token.Hash:
		return p.parseVariable()
	case token.LBracket:
		p.advance()
		inner := p.parseExpr()
		if p.lx.Peek().IsConditionOp() {
			inner = p.finishCondition(inner)
		}
		p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']', got "+describe(p.lx.Peek()))
		return inner
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')', got "+describe(p.lx.Peek()))
		return inner
	case token.Func:
		return p.parseFfunc()
	case token.Ident:
		return p.ref(ast.KindSymbol, p.advance(), ast.RefSymbol)
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return ast.NoNodeID
}

// parseVariable: #100 | #SYM | #[expr]
func (p *Parser) parseVariable() ast.NodeID {
	hash := p.advance()
	data := &ast.VariableData{}
	v := p.tree.NewRef(ast.KindVariable, hash.Span, ast.RefVariable, data)
	defer p.enter(v)()

	switch {
	case p.at(token.Number):
		data.Index = p.leaf(ast.KindNumeric, p.advance())
	case p.at(token.Ident):
		data.Index = p.ref(ast.KindSymbol, p.advance(), ast.RefSymbol|ast.RefVariable)
	case p.at(token.LBracket):
		p.advance()
		data.Index = p.parseExpr()
		if closing, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after variable index"); ok {
			p.tree.Extend(v, closing.Span)
		}
	default:
		p.err(diag.SynExpectIdentifier, "expected variable number after '#', got "+describe(p.lx.Peek()))
	}
	p.attach(v, data.Index)
	return v
}

// parseBracketCondition parses '[' condition chain ']' for IF and WHILE.
func (p *Parser) parseBracketCondition(owner ast.NodeID) (ast.NodeID, bool) {
	if !p.at(token.LBracket) {
		p.err(diag.SynExpectOpenBracket, "expected '[' before condition, got "+describe(p.lx.Peek()))
		return ast.NoNodeID, false
	}
	open := p.advance()
	p.tree.Extend(owner, open.Span)
	cond := p.finishCondition(p.parseExpr())
	p.attach(owner, cond)
	closing, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close condition, got "+describe(p.lx.Peek()))
	if !ok {
		return cond, false
	}
	p.tree.Extend(owner, closing.Span)
	return cond, true
}

// finishCondition builds one link of the chain.
//
//	left [EQ right [&& next]]
//
// The chain is right-associative: a EQ b && c EQ d || e EQ f = a EQ b && (c EQ d || (e EQ f)).
func (p *Parser) finishCondition(left ast.NodeID) ast.NodeID {
	data := &ast.ConditionalData{Left: left}
	sp := p.lx.Peek().Span.ZeroideToStart()
	if n := p.tree.Get(left); n != nil {
		sp = n.Span
	}
	c := p.tree.New(ast.KindConditional, sp, data)
	p.attach(c, left)
	defer p.enter(c)()

	switch {
	case p.lx.Peek().IsConditionOp():
		op := p.advance()
		data.CondOp = p.tree.New(ast.KindOperator, op.Span, &ast.OperatorData{Op: op.Kind})
		p.tree.AddChild(c, data.CondOp)
		data.Right = p.parseExpr()
		p.attach(c, data.Right)
	case p.tree.Get(left) == nil || p.tree.Get(left).Kind != ast.KindConditional:
		// without a comparison only a nested condition continues the chain: [[a EQ b] && c EQ d]
		return c
	}

	if p.lx.Peek().IsLogicOp() {
		logic := p.advance()
		data.LogicOp = p.tree.New(ast.KindOperator, logic.Span, &ast.OperatorData{Op: logic.Kind})
		p.tree.AddChild(c, data.LogicOp)
		data.Next = p.finishCondition(p.parseExpr())
		p.attach(c, data.Next)
	}
	return c
}
