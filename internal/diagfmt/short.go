package diagfmt

import (
	"fmt"
	"io"

	"cncmacro/internal/diag"
	"cncmacro/internal/source"
)

// Short writes one line per diagnostic: "severity CODE path:line:col message".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, withNotes bool) {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, withNotes)
	if out != "" {
		fmt.Fprintln(w, out)
	}
}
