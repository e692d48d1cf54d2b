package diagfmt

import (
	"fmt"

	"cncmacro/internal/source"
)

// formatSpan renders "startLine:startCol-endLine:endCol", or raw offsets without a file set.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	return f.FormatPath(mode.mode(), fs.BaseDir())
}
