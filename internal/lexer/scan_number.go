package lexer

import (
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// scanNumber: [+-]? digits ('.' digits?)? | [+-]? '.' digits
// Знак уже проверен вызывающим (signAllowed).
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	lx.cursor.BumpWhile(isDec)
	if lx.cursor.Match(".") {
		lx.cursor.BumpWhile(isDec)
	}

	// 1.2.3: хвост съедаем целиком, одна ошибка на литерал
	if lx.cursor.Peek() == '.' && lx.isNumberAfter(1) {
		lx.cursor.BumpWhile(func(b byte) bool { return isDec(b) || b == '.' })
		tok := lx.emit(token.Number, start)
		lx.report(diag.LexBadNumber, tok.Span, "invalid number literal "+tok.Text)
		return tok
	}
	return lx.emit(token.Number, start)
}
