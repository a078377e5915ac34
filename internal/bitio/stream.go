package bitio

import (
	"bytes"
	"io"

	icza "github.com/icza/bitio"

	"github.com/deepteams/muzip/internal/pool"
)

// Writer accumulates a bit sequence of unknown length. It wraps an
// icza/bitio writer over a pooled buffer; Bits must be called exactly once to
// collect the result and release the buffer.
type Writer struct {
	buf *bytes.Buffer
	bw  *icza.Writer
	n   int
}

// NewWriter creates a Writer sized for roughly expectedBits bits.
func NewWriter(expectedBits int) *Writer {
	buf := pool.GetBuffer((expectedBits + 7) >> 3)
	return &Writer{buf: buf, bw: icza.NewWriter(buf)}
}

// WriteBit appends one bit.
func (w *Writer) WriteBit(v bool) error {
	if err := w.bw.WriteBool(v); err != nil {
		return err
	}
	w.n++
	return nil
}

// WriteBits appends every bit of b.
func (w *Writer) WriteBits(b Bits) error {
	for i := 0; i < b.n; i += 8 {
		k := b.n - i
		if k > 8 {
			k = 8
		}
		v := b.buf[i>>3] >> uint(8-k)
		if err := w.bw.WriteBits(uint64(v), uint8(k)); err != nil {
			return err
		}
	}
	w.n += b.n
	return nil
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int { return w.n }

// Bits flushes the pending bits and returns the sequence. The Writer must not
// be used afterwards.
func (w *Writer) Bits() (Bits, error) {
	if err := w.bw.Close(); err != nil {
		pool.PutBuffer(w.buf)
		return Bits{}, err
	}
	b := FromBytes(w.buf.Bytes(), w.n)
	pool.PutBuffer(w.buf)
	w.buf = nil
	return b, nil
}

// Reader yields the bits of a sequence one at a time through an icza/bitio
// reader, returning io.EOF once the exact bit count is exhausted even when
// padding bits remain in the final byte.
type Reader struct {
	br   *icza.Reader
	left int
}

// NewReader returns a Reader over b.
func NewReader(b Bits) *Reader {
	return &Reader{br: icza.NewReader(bytes.NewReader(b.Bytes())), left: b.n}
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.left == 0 {
		return false, io.EOF
	}
	v, err := r.br.ReadBool()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return false, err
	}
	r.left--
	return v, nil
}

// Len returns the number of unread bits.
func (r *Reader) Len() int { return r.left }
