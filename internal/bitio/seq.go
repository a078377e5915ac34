package bitio

import (
	"fmt"
	"math"
)

// MaxBits is the longest sequence the dword length prefix can describe.
const MaxBits = math.MaxUint32

// SeqSize returns the serialized size in bytes of an n-bit sequence.
func SeqSize(n int) int {
	return 1 + WidthFor(uint32(n)).Size() + (n+7)>>3
}

// AppendBits appends the length-prefixed serialization of b to dst: a width
// selector, the bit count at that width, then the bits packed eight per byte,
// MSB first, zero padded.
func AppendBits(dst []byte, b Bits) ([]byte, error) {
	if uint64(b.n) > MaxBits {
		return dst, fmt.Errorf("bitio: sequence of %d bits exceeds %d", b.n, uint64(MaxBits))
	}
	dst = AppendCount(dst, uint32(b.n))
	packed := b.Bytes()
	if len(packed) == 0 {
		return dst, nil
	}
	dst = append(dst, packed...)
	if rem := b.n & 7; rem != 0 {
		dst[len(dst)-1] &= byte(0xff << (8 - rem))
	}
	return dst, nil
}

// ReadBits consumes a sequence written by AppendBits.
func (c *Cursor) ReadBits() (Bits, error) {
	n, err := c.Count()
	if err != nil {
		return Bits{}, fmt.Errorf("bit count: %w", err)
	}
	packed, err := c.Next(int((uint64(n) + 7) >> 3))
	if err != nil {
		return Bits{}, fmt.Errorf("%d-bit payload: %w", n, err)
	}
	return FromBytes(packed, int(n)), nil
}
