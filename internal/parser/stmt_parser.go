package parser

import (
	"strings"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// stopSet is the set of block terminators currently expected.
type stopSet uint8

const (
	stopEnd stopSet = 1 << iota
	stopElse
	stopEndif
)

func stopFor(k token.Kind) stopSet {
	switch k {
	case token.KwEnd:
		return stopEnd
	case token.KwElse:
		return stopElse
	case token.KwEndif:
		return stopEndif
	default:
		return 0
	}
}

func (s stopSet) has(k token.Kind) bool {
	bit := stopFor(k)
	return bit != 0 && s&bit != 0
}

// parseBlock parses lines into parent until an expected terminator, which it
// returns without consuming, or a program boundary (token.EOF).
func (p *Parser) parseBlock(parent ast.NodeID, own stopSet) token.Kind {
	prevStop := p.stop
	p.stop |= own
	defer func() { p.stop = prevStop }()
	defer p.enter(parent)()

	for {
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			return token.EOF
		case tok.Kind == token.Newline:
			p.advance()
			continue
		case tok.Kind == token.Percent:
			p.skipLine()
			continue
		case tok.Kind == token.KwInclude, tok.Kind == token.At, tok.Kind == token.Gt, isProgramStart(tok):
			p.boundary = true
			return token.EOF
		}

		stmt, term := p.parseStatement()
		p.attach(parent, stmt)
		if term != token.Invalid {
			return term
		}
		if p.boundary {
			return token.EOF
		}
	}
}

// parseStatement: [/n] [Nnnn | N label] item* newline
// A line starting with the terminator of an open block returns it as the second value.
func (p *Parser) parseStatement() (ast.NodeID, token.Kind) {
	data := &ast.StatementData{}
	stmt := p.tree.New(ast.KindStatement, p.lx.Peek().Span.ZeroideToStart(), data)
	defer p.enter(stmt)()

	if p.at(token.Slash) {
		data.BlockDelete = p.parseBlockDelete()
		p.tree.AddChild(stmt, data.BlockDelete)
	}
	if tok := p.lx.Peek(); tok.Kind == token.Address && upper(tok.Text[0]) == 'N' {
		data.Sequence = p.parseSequence()
		p.tree.AddChild(stmt, data.Sequence)
	}

	for !p.atLineEnd() && !p.boundary {
		tok := p.lx.Peek()
		if k := tok.Kind; stopFor(k) != 0 {
			if p.stop.has(k) {
				return p.nonEmpty(stmt), k
			}
			p.err(diag.SynUnexpectedBlockEnd, "unexpected "+strings.ToUpper(tok.Text)+" without a matching block")
			p.skipLine()
			break
		}
		if !p.parseItem(stmt) {
			p.skipLine()
			break
		}
	}
	if !p.boundary {
		p.endStatement()
	}
	return p.nonEmpty(stmt), token.Invalid
}

func (p *Parser) nonEmpty(stmt ast.NodeID) ast.NodeID {
	n := p.tree.Get(stmt)
	if len(n.Children) == 0 && len(n.Markers) == 0 {
		return ast.NoNodeID
	}
	return stmt
}

// parseItem parses one construct of a line into parent.
// false means the line is broken and the caller skips the rest of it.
func (p *Parser) parseItem(parent ast.NodeID) bool {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Address:
		p.attach(parent, p.parseAddressWord())
		return true
	case token.Ident:
		p.attach(parent, p.parseSymbolItem())
		return true
	case token.Hash:
		return p.parseVariableAssignment(parent)
	case token.KwGoto:
		p.parseGoto(parent)
		return true
	case token.KwIf:
		return p.parseIf(parent)
	case token.KwWhile, token.KwDo:
		return p.parseWhile(parent)
	case token.Func:
		p.attach(parent, p.parseFfunc())
		return true
	}
	p.err(diag.SynUnexpectedToken, "unexpected "+describe(tok)+" in statement")
	return false
}

// parseBlockDelete parses "/" or "/n".
func (p *Parser) parseBlockDelete() ast.NodeID {
	slash := p.advance()
	data := &ast.BlockDeleteData{}
	bd := p.tree.New(ast.KindBlockDelete, slash.Span, data)
	if tok := p.lx.Peek(); tok.Kind == token.Number && tok.Span.Start == slash.Span.End {
		data.Number = p.leaf(ast.KindNumeric, p.advance())
		p.tree.AddChild(bd, data.Number)
	}
	return bd
}

// parseSequence: N100 is a sequence number, N LABEL a jump label.
func (p *Parser) parseSequence() ast.NodeID {
	n := p.advance()
	switch {
	case p.at(token.Number):
		data := &ast.SequenceData{}
		seq := p.tree.New(ast.KindSequence, n.Span, data)
		data.Number = p.leaf(ast.KindNumeric, p.advance())
		p.tree.AddChild(seq, data.Number)
		return seq
	case p.at(token.Ident):
		data := &ast.JumpLabelData{}
		jl := p.tree.New(ast.KindJumpLabel, n.Span, data)
		data.Label = p.ref(ast.KindLabel, p.advance(), ast.RefLabel|ast.RefJumpLabel)
		p.tree.AddChild(jl, data.Label)
		return jl
	}
	seq := p.tree.New(ast.KindSequence, n.Span, &ast.SequenceData{})
	p.reportOn(seq, diag.SynExpectLabel, p.getDiagnosticSpan(), "expected sequence number or label after N")
	return seq
}

// parseAddressWord: G01/M30 is a code, anything else a parameter: X10, X#1, X[#1+2], X (no value).
func (p *Parser) parseAddressWord() ast.NodeID {
	letter := p.advance()
	l := upper(letter.Text[0])
	if (l == 'G' || l == 'M') && p.at(token.Number) {
		return p.finishCode(letter)
	}
	addr := p.ref(ast.KindAddress, letter, ast.RefAddress)
	return p.finishParameter(addr)
}

func (p *Parser) finishParameter(addr ast.NodeID) ast.NodeID {
	data := &ast.ParameterData{Address: addr}
	param := p.tree.New(ast.KindParameter, p.tree.Get(addr).Span, data)
	p.tree.AddChild(param, addr)
	if p.atValueStart() {
		defer p.enter(param)()
		data.Value = p.parseExpr()
		p.attach(param, data.Value)
	}
	return param
}

func (p *Parser) atValueStart() bool {
	return p.atOr(token.Number, token.Hash, token.LBracket, token.LParen,
		token.Minus, token.Plus, token.Ident, token.Func)
}

// parseSymbolItem: SYM = expr | SYM value (symbol as address) | SYM (symbol as code).
func (p *Parser) parseSymbolItem() ast.NodeID {
	tok := p.advance()
	if p.at(token.Assign) {
		target := p.ref(ast.KindSymbol, tok, ast.RefSymbol|ast.RefVariable)
		return p.finishAssignment(target)
	}
	if p.atValueStart() {
		addr := p.ref(ast.KindSymbol, tok, ast.RefSymbol|ast.RefAddress)
		return p.finishParameter(addr)
	}
	return p.ref(ast.KindSymbol, tok, ast.RefSymbol|ast.RefCode)
}

// parseVariableAssignment: #1 = expr, #[#1+1] = expr, #SYM = expr.
func (p *Parser) parseVariableAssignment(parent ast.NodeID) bool {
	target := p.parseVariable()
	if !p.at(token.Assign) {
		p.attach(parent, target)
		p.err(diag.SynExpectOperator, "expected '=' after variable, got "+describe(p.lx.Peek()))
		return false
	}
	p.attach(parent, p.finishAssignment(target))
	return true
}

func (p *Parser) finishAssignment(target ast.NodeID) ast.NodeID {
	eq := p.advance()
	data := &ast.AssignmentData{Target: target}
	asg := p.tree.New(ast.KindAssignment, eq.Span, data)
	p.attach(asg, target)
	defer p.enter(asg)()
	data.Value = p.parseExpr()
	p.attach(asg, data.Value)
	return asg
}
