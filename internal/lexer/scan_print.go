package lexer

import (
	"cncmacro/internal/token"
)

// scanPrint режет аргументы DPRNT[...] / BPRNT[...]:
//
//	DPRNT[X#100[53]**]  → Text "X", Hash, Number, '[', Number, ']', Text "**", ']'
//
// Числа распознаются только сразу после '#' или внутри формата [..].
func (lx *Lexer) scanPrint() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()
	switch {
	case ch == '[', ch == ']', ch == '#':
		return lx.scanOperatorOrPunct()
	case isDec(ch) && (lx.prev == token.Hash || lx.depth > 1):
		return lx.scanNumber()
	case isWordStart(ch) && lx.prev == token.Hash:
		return lx.scanWord()
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '[' || b == ']' || b == '#' || b == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Text, start)
}
