package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
	lf      = []byte("\n")
)

// normalizeCRLF turns \r\n into \n. A lone \r is kept as is.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, crlf) {
		return content, false
	}
	return bytes.ReplaceAll(content, crlf, lf), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		return rest, true
	}
	return content, false
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}
	out := make([]uint32, 0, bytes.Count(content, lf))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- length checked above
		}
	}
	return out
}

// toLineCol maps a byte offset to 1-based line and column. A newline byte
// belongs to the line it ends.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// сколько переводов строки строго до off
	k := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var lineStart uint32
	if k > 0 {
		lineStart = lineIdx[k-1] + 1
	}
	return LineCol{Line: uint32(k + 1), Col: off - lineStart + 1} // #nosec G115 -- k <= len(lineIdx)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
