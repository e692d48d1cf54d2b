package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.src", []byte("O1000\n"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	// тот же путь, новое содержимое, новый ID, индекс указывает на последний
	id2 := fs.Add("main.src", []byte("O2000\n"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, exists := fs.GetLatest("main.src")
	if !exists || latestID != id2 {
		t.Errorf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}

	if got := string(fs.Get(id1).Content); got != "O1000\n" {
		t.Errorf("old version content changed: %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "O2000\n" {
		t.Errorf("new version content: %q", got)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// "a\nb\n" → LineIdx = [1,3]
	id := fs.AddVirtual("a.src", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestFileKindFromExtension(t *testing.T) {
	fs := NewFileSet()
	cases := map[string]FileKind{
		"macros.def":   KindDefinition,
		"MACROS.DEF":   KindDefinition,
		"main.src":     KindProgram,
		"part.nc":      KindProgram,
		"no-extension": KindProgram,
	}
	for path, want := range cases {
		id := fs.AddVirtual(path, nil)
		if got := fs.Get(id).Kind; got != want {
			t.Errorf("%s: kind = %v, want %v", path, got, want)
		}
	}
}

func TestCRLFNormalization(t *testing.T) {
	original := []byte("a\r\nb\r\n")
	normalized, changed := normalizeCRLF(original)
	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}
	if string(normalized) != "a\nb\n" {
		t.Errorf("Expected normalized content %q, got %q", "a\nb\n", string(normalized))
	}

	// одиночный \r не трогаем
	lone, changed := normalizeCRLF([]byte("a\rb"))
	if changed || string(lone) != "a\rb" {
		t.Errorf("lone CR changed: %q (changed=%v)", lone, changed)
	}
}

func TestBOMRemoval(t *testing.T) {
	bomContent := []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}
	withoutBOM, hadBOM := removeBOM(bomContent)
	if !hadBOM {
		t.Error("Expected BOM to be detected")
	}
	if string(withoutBOM) != "x\n" {
		t.Errorf("Expected content without BOM %q, got %q", "x\n", string(withoutBOM))
	}
}

func TestLoadDecodesLegacyCodePage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.src")
	// "(Ä)" в windows-1252: 0xC4 это невалидный UTF-8
	if err := os.WriteFile(path, []byte{'O', '1', ' ', ';', 0xC4, '\r', '\n'}, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	fs.SetEncoding(EncodingWindows1252)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if got := string(f.Content); got != "O1 ;Ä\n" {
		t.Errorf("decoded content = %q", got)
	}
	if f.Flags&FileDecoded == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want decoded and crlf", f.Flags)
	}
}

func TestLoadKeepsValidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modern.src")
	if err := os.WriteFile(path, []byte("; Ä\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	fs.SetEncoding(EncodingLatin1)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f := fs.Get(id); string(f.Content) != "; Ä\n" || f.Flags&FileDecoded != 0 {
		t.Errorf("utf-8 input was transcoded: %q flags=%b", f.Content, f.Flags)
	}
}

func TestParseEncoding(t *testing.T) {
	for in, want := range map[string]Encoding{"": EncodingUTF8, "CP1252": EncodingWindows1252, "iso-8859-1": EncodingLatin1} {
		got, err := ParseEncoding(in)
		if err != nil || got != want {
			t.Errorf("ParseEncoding(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseEncoding("ebcdic"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

// TestResolveUTF8 проверяет разрешение позиций в UTF-8 тексте
func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.src", []byte("α\n")) // α = 2 байта

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})
	if start != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("end = %+v", end)
	}
}

func TestResolveSecondLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.src", []byte("O1\nG01 X1\n"))
	start, _ := fs.Resolve(Span{File: id, Start: 7, End: 9})
	if start != (LineCol{Line: 2, Col: 5}) {
		t.Errorf("start = %+v", start)
	}
	if line := fs.Get(id).GetLine(2); line != "G01 X1" {
		t.Errorf("GetLine(2) = %q", line)
	}
}

func TestTextClampsSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.src", []byte("G01"))
	if got := fs.Text(Span{File: id, Start: 1, End: 99}); got != "01" {
		t.Errorf("Text = %q", got)
	}
	if got := fs.Text(Span{File: 42}); got != "" {
		t.Errorf("unknown file text = %q", got)
	}
}
