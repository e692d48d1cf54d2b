package lexer

import (
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t' и одиночный '\r' коалесцируются в один TriviaSpace
// - ;... до \n -> TriviaLineComment
// - /* ... */ -> TriviaBlockComment (без вложенности; если не закрыта, репорт и обрезаем на EOF)
// '\n' сюда не входит: перевод строки это значимый токен.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\r':
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)

		case b == ';':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaLineComment, start)

		case b == '/' && lx.scanBlockComment():
			lx.pushTrivia(token.TriviaBlockComment, start)

		default:
			return
		}
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

// scanBlockComment съедает /* ... */; если это не комментарий, курсор не двигается.
func (lx *Lexer) scanBlockComment() bool {
	start := lx.cursor.Mark()
	if !lx.cursor.Match("/*") {
		return false
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Match("*/") {
			return true
		}
		lx.cursor.Bump()
	}
	lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	return true
}
