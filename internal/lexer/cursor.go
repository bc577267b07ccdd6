package lexer

import (
	"bytes"

	"nixkit/internal/source"
)

// Cursor walks the bytes of one file. Reads past the end yield 0.
type Cursor struct {
	file source.FileID
	src  []byte
	Off  uint32
}

func NewCursor(f *source.File) Cursor {
	return Cursor{file: f.ID, src: f.Content}
}

func (c *Cursor) EOF() bool { return int(c.Off) >= len(c.src) }

func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt looks n bytes ahead without moving.
func (c *Cursor) PeekAt(n uint32) byte {
	if i := int(c.Off) + int(n); i < len(c.src) {
		return c.src[i]
	}
	return 0
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return !c.EOF() && bytes.HasPrefix(c.src[c.Off:], []byte(s))
}

// Advance skips n bytes, stopping at the end of input.
func (c *Cursor) Advance(n int) {
	c.Off = uint32(min(int(c.Off)+n, len(c.src))) // #nosec G115 -- bounded by len(src)
}

// Mark is a saved offset to build spans from or rewind to.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
