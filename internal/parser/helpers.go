package parser

import (
	"slices"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/source"
	"cncmacro/internal/token"
)

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) atLineEnd() bool {
	return p.lx.Peek().EndsStatement()
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan: возвращает лучший span для диагностики.
// На конце строки или файла указываем сразу за последним съеденным токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.EndsStatement() && p.lastSpan.End > 0 {
		return p.lastSpan.ZeroideToEnd()
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет, репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) bool {
	return p.reportOn(p.cur, code, sp, msg)
}

func (p *Parser) reportOn(node ast.NodeID, code diag.Code, sp source.Span, msg string) bool {
	prev := p.cur
	p.cur = node
	ok := p.emit(diag.NewError(code, sp, msg))
	p.cur = prev
	return ok
}

func (p *Parser) emit(d diag.Diagnostic) bool {
	if d.Severity == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	p.tree.AddMarker(p.cur, d)
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(d)
	}
	return true
}

// enter делает id текущим узлом; вернуть прежний - через возвращённую функцию.
func (p *Parser) enter(id ast.NodeID) func() {
	prev := p.cur
	p.cur = id
	return func() { p.cur = prev }
}

// skipLine прокручивает до конца строки, не съедая перевод строки.
func (p *Parser) skipLine() {
	for !p.atLineEnd() {
		p.advance()
	}
}

// endStatement ожидает конец строки; хвост строки пропускается с одной ошибкой.
func (p *Parser) endStatement() {
	if p.at(token.EOF) {
		return
	}
	if !p.at(token.Newline) {
		p.err(diag.SynExpectNewline, "expected end of line, got "+describe(p.lx.Peek()))
		p.skipLine()
	}
	if p.at(token.Newline) {
		p.advance()
	}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Newline:
		return "end of line"
	default:
		return "\"" + tok.Text + "\""
	}
}

// leaf создаёт узел по только что съеденному токену.
func (p *Parser) leaf(kind ast.Kind, tok token.Token) ast.NodeID {
	return p.tree.New(kind, tok.Span, nil)
}

func (p *Parser) ref(kind ast.Kind, tok token.Token, ref ast.RefType) ast.NodeID {
	return p.tree.NewRef(kind, tok.Span, ref, nil)
}

// attach добавляет child, если он есть.
func (p *Parser) attach(parent, child ast.NodeID) {
	if child.IsValid() {
		p.tree.AddChild(parent, child)
	}
}
