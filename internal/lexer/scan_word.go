package lexer

import (
	"strings"

	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// scanWord разбирает слово из букв, цифр и '_'.
//
//	X, G01, N100   → Address (одна буква) + число отдельным токеном
//	GOTO10, DO1    → ключевое слово + число
//	SIN, DPRNT     → Func
//	MY_SYMBOL      → Ident
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isWordContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	word := lx.file.Content[sp.Start:sp.End]

	// адресная буква: одиночная или сразу за ней цифры (G01X10)
	if isLetter(word[0]) && (len(word) == 1 || isDec(word[1])) {
		lx.cursor.Reset(start + 1)
		return lx.emit(token.Address, start)
	}

	if k, ok := token.LookupKeyword(string(word)); ok {
		return lx.emit(k, start)
	}
	if token.IsFunction(string(word)) {
		return lx.emit(token.Func, start)
	}

	// GOTO10, DO1, END1: ключевое слово вплотную к номеру
	if p := letterPrefix(word); p > 1 && p < len(word) && allDigits(word[p:]) {
		if k, ok := token.LookupKeyword(string(word[:p])); ok {
			lx.cursor.Reset(start + Mark(p)) // #nosec G115 -- p < len(word)
			return lx.emit(k, start)
		}
	}

	return lx.emit(token.Ident, start)
}

func letterPrefix(word []byte) int {
	n := 0
	for n < len(word) && isLetter(word[n]) {
		n++
	}
	return n
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if !isDec(c) {
			return false
		}
	}
	return len(b) > 0
}

// scanDirective: $INCLUDE. Любое другое $-слово: ошибка.
func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '$'
	for !lx.cursor.EOF() && isWordContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.KwInclude, start)
	if len(tok.Text) != len("$INCLUDE") || !strings.EqualFold(tok.Text[1:], "INCLUDE") {
		tok.Kind = token.Invalid
		lx.report(diag.LexUnknownChar, tok.Span, "unknown directive "+tok.Text)
	}
	return tok
}
