package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the code page source files are stored in.
// Controllers and older CAM post-processors often write Windows-1252 or Latin-1.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingLatin1      Encoding = "latin1"
)

// ParseEncoding maps a config value onto a known Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	case "latin1", "iso-8859-1":
		return EncodingLatin1, nil
	default:
		return EncodingUTF8, fmt.Errorf("unknown encoding %q (expected utf-8|windows-1252|latin1)", s)
	}
}

// decode converts content to UTF-8. Valid UTF-8 input is passed through untouched,
// so a workspace configured for a legacy page still reads files saved by modern editors.
func decode(content []byte, enc Encoding) ([]byte, bool, error) {
	var cm *charmap.Charmap
	switch enc {
	case EncodingWindows1252:
		cm = charmap.Windows1252
	case EncodingLatin1:
		cm = charmap.ISO8859_1
	default:
		return content, false, nil
	}
	if utf8.Valid(content) {
		return content, false, nil
	}
	out, err := cm.NewDecoder().Bytes(content)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", enc, err)
	}
	return out, true, nil
}

// Extensions lists the file suffixes recognised for each FileKind.
type Extensions struct {
	Definition []string
	Program    []string
}

// DefaultExtensions is used when no workspace config overrides it.
var DefaultExtensions = Extensions{
	Definition: []string{".def"},
	Program:    []string{".src", ".nc", ".mac"},
}

// KindOf returns the FileKind for path. Unknown suffixes are programs.
func (e Extensions) KindOf(path string) FileKind {
	ext := strings.ToLower(filepath.Ext(path))
	for _, d := range e.Definition {
		if strings.EqualFold(d, ext) {
			return KindDefinition
		}
	}
	return KindProgram
}

// Matches reports whether path carries any known suffix.
func (e Extensions) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, group := range [][]string{e.Definition, e.Program} {
		for _, x := range group {
			if strings.EqualFold(x, ext) {
				return true
			}
		}
	}
	return false
}
