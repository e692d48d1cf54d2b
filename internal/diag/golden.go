package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"cncmacro/internal/source"
)

// goldenLine - одна строка короткого формата.
type goldenLine struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

func (l goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
}

func compareGolden(a, b goldenLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.pos.Line, b.pos.Line),
		cmp.Compare(a.pos.Col, b.pos.Col),
		cmp.Compare(a.sev, b.sev),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders one line per diagnostic, the layout used by
// golden tests and the CLI short format:
//
//	error SYN2002 main.src:3:14 missing ']'
//
// Paths are relative to the file set base dir. Notes become "note" lines
// carrying the code of their diagnostic. Spans in unknown files are dropped.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]goldenLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		if l, ok := newGoldenLine(fs, d.Primary, d.Severity.Label(), d.Code, d.Message); ok {
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := newGoldenLine(fs, n.Span, "note", d.Code, n.Msg); ok {
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, compareGolden)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func newGoldenLine(fs *source.FileSet, sp source.Span, sev string, code Code, msg string) (goldenLine, bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return goldenLine{}, false
	}
	start, _ := fs.Resolve(sp)
	path := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return goldenLine{
		sev:  sev,
		code: code.ID(),
		path: path,
		pos:  start,
		// многострочные сообщения схлопываем в одну строку
		msg: strings.Join(strings.Fields(msg), " "),
	}, true
}
