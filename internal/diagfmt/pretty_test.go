package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"cncmacro/internal/diag"
	"cncmacro/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("O1000\nG01 X#1 Y\"open\n")
	fileID := fs.AddVirtual("/home/user/project/src/main.src", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 15, End: 20},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/main.src"},
		{"Relative path", PathModeRelative, "src/main.src:2:10"},
		{"Basename only", PathModeBasename, "main.src:2:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR") {
				t.Error("Expected ERROR in output")
			}
			if !strings.Contains(output, "LEX1002") {
				t.Error("Expected LEX1002 code in output")
			}
		})
	}
}

func TestPrettyCaretUnderSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.src", []byte("O1000\nGOTO 900\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.LintSequenceNotFound,
		source.Span{File: fileID, Start: 11, End: 14}, "sequence 900 not found"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	if !strings.HasSuffix(lines[1], "| GOTO 900") {
		t.Fatalf("source line = %q", lines[1])
	}
	caretCol := strings.Index(lines[2], "^")
	if caretCol != strings.Index(lines[1], "900") {
		t.Fatalf("caret misaligned:\n%s\n%s", lines[1], lines[2])
	}
	if !strings.Contains(lines[2], "^~~") {
		t.Fatalf("caret does not cover the span: %q", lines[2])
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "main.src", "main.src"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/O1000.nc", "O1000.nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.AddVirtual(tt.path, []byte("O1000 ?\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar,
				source.Span{File: fileID, Start: 6, End: 7}, "unknown character"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, buf.String())
			}
		})
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("defs.def", []byte("@AXIS_X X\n@AXIS_X Y\n"))

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.LintDuplicateDeclaration,
		source.Span{File: fileID, Start: 11, End: 17}, "duplicate declaration of AXIS_X")
	d = d.WithNote(source.Span{File: fileID, Start: 1, End: 7}, "first declared here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(buf.String(), "note: defs.def:1:2: first declared here") {
		t.Fatalf("expected note with location, got:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}
}

func TestShortFormat(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.src", []byte("O1000\nGOTO 900\n"))

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.LintSequenceNotFound,
		source.Span{File: fileID, Start: 11, End: 14}, "sequence 900 not found"))

	var buf bytes.Buffer
	Short(&buf, bag, fs, false)
	if got, want := buf.String(), "error LNT3007 main.src:2:6 sequence 900 not found\n"; got != want {
		t.Fatalf("Short() = %q, want %q", got, want)
	}
}
