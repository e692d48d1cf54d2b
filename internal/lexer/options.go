package lexer

import (
	"cncmacro/internal/diag"
	"cncmacro/internal/source"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}
