package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"cncmacro/internal/source"
)

// Cursor - байтовая позиция в содержимом файла.
type Cursor struct {
	File *source.File
	Off  uint32
	end  uint32
}

// NewCursor positions a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return Cursor{File: f, end: end}
}

// Len is the content length; offsets never exceed it.
func (c *Cursor) Len() uint32 { return c.end }

func (c *Cursor) EOF() bool { return c.Off >= c.end }

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt looks n bytes ahead without moving; 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if off := c.Off + n; off < c.end {
		return c.File.Content[off]
	}
	return 0
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// BumpWhile consumes bytes while pred holds.
func (c *Cursor) BumpWhile(pred func(b byte) bool) {
	for c.Off < c.end && pred(c.File.Content[c.Off]) {
		c.Off++
	}
}

// Match consumes lit when the input continues with it.
func (c *Cursor) Match(lit string) bool {
	n := uint32(len(lit)) // #nosec G115 -- literals are operator spellings
	if c.Off+n > c.end || string(c.File.Content[c.Off:c.Off+n]) != lit {
		return false
	}
	c.Off += n
	return true
}

// Seek moves to off, clamped to the content length.
func (c *Cursor) Seek(off uint32) {
	c.Off = min(off, c.end)
}

// Mark - сохранённая позиция для построения Span.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom covers the bytes consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset returns to m.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
