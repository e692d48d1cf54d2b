package lexer

import (
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// "..." с экранированием \" и \\. Строка не может переноситься:
// конец строки или файла до закрывающей кавычки даёт BadString.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.String, start)
		case '\\':
			lx.cursor.Bump()
			if b := lx.cursor.Peek(); b != '\n' && !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '\n':
			return lx.badString(start)
		default:
			lx.cursor.Bump()
		}
	}
	return lx.badString(start)
}

func (lx *Lexer) badString(start Mark) token.Token {
	tok := lx.emit(token.String, start)
	lx.report(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}
