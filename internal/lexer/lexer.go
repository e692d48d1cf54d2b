package lexer

import (
	"cncmacro/internal/source"
	"cncmacro/internal/token"
)

// printState tracks the free-text argument list of DPRNT/BPRNT.
type printState uint8

const (
	printOff   printState = iota
	printArmed            // print function seen, waiting for '['
	printOn               // inside the argument list
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
	prev   token.Kind     // последний выданный значимый токен
	print  printState
	depth  int // глубина скобок внутри DPRNT[...]
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		prev:   token.Newline,
	}
}

// File returns the source file being scanned.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// Newline is significant and returned as a token. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	// внутри DPRNT[...] пробелы входят в текст
	if lx.print != printOn {
		lx.collectLeadingTrivia()
	}

	if lx.cursor.EOF() {
		lx.print = printOff
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		tok = lx.scanNewline()

	case lx.print == printOn:
		tok = lx.scanPrint()

	case isWordStart(ch):
		tok = lx.scanWord()

	case isDec(ch), ch == '.' && lx.isNumberAfter(0):
		tok = lx.scanNumber()

	case (ch == '+' || ch == '-') && lx.signAllowed() && lx.isNumberAfter(1):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	case ch == '$':
		tok = lx.scanDirective()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	lx.advanceState(tok)
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// GoBackTo restarts scanning at the given byte offset. The lookahead buffer is dropped
// and the scanner behaves as if a statement starts at off.
func (lx *Lexer) GoBackTo(off uint32) {
	lx.cursor.Seek(off)
	lx.look = nil
	lx.hold = nil
	lx.prev = token.Newline
	lx.print = printOff
	lx.depth = 0
}

// ScanWhile consumes raw bytes while pred holds and returns the covered span.
// Pending lookahead is discarded first, so the scan starts where that token started.
func (lx *Lexer) ScanWhile(pred func(b byte) bool) source.Span {
	if lx.look != nil {
		lx.cursor.Off = lx.look.Span.Start
		lx.look = nil
	}
	start := lx.cursor.Mark()
	lx.cursor.BumpWhile(pred)
	sp := lx.cursor.SpanFrom(start)
	if !sp.Empty() {
		lx.prev = token.String
	}
	return sp
}

// Offset returns the byte offset of the next unread byte (ignoring lookahead).
func (lx *Lexer) Offset() uint32 {
	return lx.cursor.Off
}

// EmptySpan is a zero-width span at the cursor.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) advanceState(tok token.Token) {
	lx.prev = tok.Kind
	switch lx.print {
	case printOff:
		if tok.Kind == token.Func && token.IsPrintFunction(tok.Text) {
			lx.print = printArmed
		}
	case printArmed:
		if tok.Kind == token.LBracket {
			lx.print = printOn
			lx.depth = 1
		} else {
			lx.print = printOff
		}
	case printOn:
		switch tok.Kind {
		case token.LBracket:
			lx.depth++
		case token.RBracket:
			lx.depth--
			if lx.depth <= 0 {
				lx.print = printOff
			}
		case token.Newline, token.EOF:
			lx.print = printOff
		}
	}
}

// signAllowed: знак приклеивается к числу только там, где ожидается операнд
// (X-10, [-1], = -2), но не после операнда (#1-2).
func (lx *Lexer) signAllowed() bool {
	switch lx.prev {
	case token.Number, token.Ident, token.RBracket, token.RParen, token.String, token.Text:
		return false
	default:
		return true
	}
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}
