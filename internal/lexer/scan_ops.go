package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// Жадность: сначала 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.cursor.Match("&&"):
		return lx.emit(token.AndAnd, start)
	case lx.cursor.Match("||"):
		return lx.emit(token.OrOr, start)
	case lx.cursor.Match("=="):
		return lx.emit(token.EqEq, start)
	case lx.cursor.Match("!="), lx.cursor.Match("<>"):
		return lx.emit(token.BangEq, start)
	case lx.cursor.Match("<="):
		return lx.emit(token.LtEq, start)
	case lx.cursor.Match(">="):
		return lx.emit(token.GtEq, start)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return lx.emit(token.Plus, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '/':
		return lx.emit(token.Slash, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '#':
		return lx.emit(token.Hash, start)
	case '@':
		return lx.emit(token.At, start)
	case '%':
		return lx.emit(token.Percent, start)
	}

	// неизвестный символ: съедаем всю руну, чтобы не резать UTF-8
	lx.cursor.Reset(start)
	_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	n, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	lx.cursor.Off += n
	tok := lx.emit(token.Invalid, start)
	lx.report(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", tok.Text))
	return tok
}

func (lx *Lexer) scanNewline() token.Token {
	start := lx.cursor.Mark()
	for lx.cursor.Peek() == '\n' {
		lx.cursor.Bump()
	}
	return lx.emit(token.Newline, start)
}
