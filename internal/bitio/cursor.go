package bitio

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads little-endian values from a byte slice, failing with
// ErrTruncated instead of panicking when the data runs out.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.data) - c.pos }

// Next consumes n bytes and returns them without copying.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 || n > c.Len() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, c.pos, c.Len())
	}
	b := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// Uint8 consumes one byte.
func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.Next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 consumes a little-endian u16.
func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 consumes a little-endian u32.
func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint consumes an unsigned integer of width w.
func (c *Cursor) Uint(w Width) (uint32, error) {
	switch w {
	case WidthByte:
		v, err := c.Uint8()
		return uint32(v), err
	case WidthWord:
		v, err := c.Uint16()
		return uint32(v), err
	case WidthDword:
		return c.Uint32()
	default:
		return 0, fmt.Errorf("%w: %d", ErrWidth, uint8(w))
	}
}

// Width consumes and validates a width selector byte.
func (c *Cursor) Width() (Width, error) {
	v, err := c.Uint8()
	if err != nil {
		return 0, err
	}
	w := Width(v)
	if !w.Valid() {
		return 0, fmt.Errorf("%w: %d at offset %d", ErrWidth, v, c.pos-1)
	}
	return w, nil
}

// Count consumes a selector followed by a value of that width, the inverse
// of AppendCount.
func (c *Cursor) Count() (uint32, error) {
	w, err := c.Width()
	if err != nil {
		return 0, err
	}
	return c.Uint(w)
}
