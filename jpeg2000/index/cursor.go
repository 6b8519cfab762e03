package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// windowSize is the read-ahead used to avoid one ReadAt per byte
const windowSize = 4096

// Cursor is a big-endian reader over a byte source of known size.
// It keeps its own position, so several cursors may share one source.
type Cursor struct {
	r    io.ReaderAt
	size int64
	pos  int64

	win    []byte
	winOff int64
}

// NewCursor creates a cursor positioned at offset 0
func NewCursor(r io.ReaderAt, size int64) *Cursor {
	if size < 0 {
		size = 0
	}
	return &Cursor{r: r, size: size}
}

// Position returns the current absolute offset
func (c *Cursor) Position() int64 {
	return c.pos
}

// Size returns the length of the source
func (c *Cursor) Size() int64 {
	return c.size
}

// Remaining returns the number of bytes between the position and the end
func (c *Cursor) Remaining() int64 {
	if c.pos >= c.size {
		return 0
	}
	return c.size - c.pos
}

// SeekAbsolute moves the cursor to offset n
func (c *Cursor) SeekAbsolute(n int64) error {
	if n < 0 || n > c.size {
		return fmt.Errorf("%w: offset %d, size %d", ErrInvalidSeek, n, c.size)
	}
	c.pos = n
	return nil
}

// SeekRelative moves the cursor by n bytes from the current position
func (c *Cursor) SeekRelative(n int64) error {
	return c.SeekAbsolute(c.pos + n)
}

// ReadU8 reads one byte
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.fill(1)
	if err != nil {
		return 0, err
	}
	c.pos++
	return b[0], nil
}

// ReadU16 reads a big-endian uint16
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.fill(2)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return binary.BigEndian.Uint16(b), nil
}

// ReadU32 reads a big-endian uint32
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.fill(4)
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return binary.BigEndian.Uint32(b), nil
}

// PeekU16 reads a big-endian uint16 without moving the cursor
func (c *Cursor) PeekU16() (uint16, error) {
	b, err := c.fill(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// fill returns n bytes starting at the current position, refilling the
// read-ahead window when the request is not covered by it.
func (c *Cursor) fill(n int) ([]byte, error) {
	if c.Remaining() < int64(n) {
		return nil, ErrUnexpectedEOF
	}
	start := c.pos - c.winOff
	if c.pos >= c.winOff && start+int64(n) <= int64(len(c.win)) {
		return c.win[start : start+int64(n)], nil
	}

	want := c.Remaining()
	if want > windowSize {
		want = windowSize
	}
	if cap(c.win) < int(want) {
		c.win = make([]byte, windowSize)
	}
	c.win = c.win[:want]
	got, err := c.r.ReadAt(c.win, c.pos)
	c.win = c.win[:got]
	c.winOff = c.pos
	if got >= n {
		// ReaderAt may report io.EOF together with a full read at the tail
		return c.win[:n], nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("read at offset %d: %w", c.pos, err)
}
