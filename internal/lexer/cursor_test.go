package lexer

import (
	"testing"

	"cncmacro/internal/source"
)

func TestCursorBasics(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("c.src", []byte("<=12x")))
	c := NewCursor(f)

	if c.Peek() != '<' || c.PeekAt(2) != '1' || c.PeekAt(10) != 0 {
		t.Fatalf("peek = %q %q", c.Peek(), c.PeekAt(2))
	}
	m := c.Mark()
	if c.Match("<>") || !c.Match("<=") {
		t.Fatal("Match mismatch")
	}
	c.BumpWhile(isDec)
	if c.Off != 4 || c.Peek() != 'x' {
		t.Fatalf("after digits off = %d", c.Off)
	}
	if c.Match("xy") {
		t.Fatal("Match past the end")
	}
	c.Bump()
	if !c.EOF() || c.Bump() != 0 {
		t.Fatal("expected EOF")
	}
	if sp := c.SpanFrom(m); sp.Start != 0 || sp.End != 5 {
		t.Fatalf("span = %v", sp)
	}
	c.Reset(m)
	if c.Off != 0 {
		t.Fatalf("reset off = %d", c.Off)
	}
	c.Seek(99)
	if c.Off != c.Len() {
		t.Fatalf("seek not clamped: %d", c.Off)
	}
}
