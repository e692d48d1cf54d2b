package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cncmacro/internal/diag"
	"cncmacro/internal/source"
)

type palette struct {
	err, warn, info, hint *color.Color
	code, path, gutter    *color.Color
	caret, note           *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		hint:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.hint, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch {
	case s >= diag.SevError:
		return p.err
	case s == diag.SevWarning:
		return p.warn
	case s == diag.SevInfo:
		return p.info
	default:
		return p.hint
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, p, d, fs, opts)
	}
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
	snippet(w, p, p.caret, fs, d.Primary, opts)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s: %s\n",
			p.note.Sprint("note:"),
			p.path.Sprintf("%s:%d:%d", formatPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col),
			n.Msg,
		)
		snippet(w, p, p.note, fs, n.Span, opts)
	}
}

// snippet печатает строки контекста и подчёркивает первую строку span.
func snippet(w io.Writer, p palette, mark *color.Color, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	gw := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		if ln != start.Line && ln > uint32(len(f.LineIdx))+1 {
			break
		}
		text := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gw, ln), text)
		if ln != start.Line {
			continue
		}
		line := expandTabs(f.GetLine(ln))
		prefix := prefixBytes(line, start.Col)
		pad := runewidth.StringWidth(prefix)
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			width = runewidth.StringWidth(prefixBytes(line, end.Col)) - pad
		} else if end.Line > start.Line {
			width = runewidth.StringWidth(line) - pad
		}
		width = max(width, 1)
		fmt.Fprintf(w, " %s %s%s\n",
			p.gutter.Sprintf("%*s |", gw, ""),
			strings.Repeat(" ", pad),
			mark.Sprint("^"+strings.Repeat("~", width-1)),
		)
	}
}

// prefixBytes - часть строки до колонки col (1-based, в байтах).
func prefixBytes(line string, col uint32) string {
	if col <= 1 {
		return ""
	}
	n := int(col - 1)
	if n > len(line) {
		return line
	}
	return line[:n]
}

// табы заменяются одним пробелом, чтобы байтовые колонки совпадали с экраном
func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
