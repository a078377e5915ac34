// Package bitio holds the bit-level primitives shared by the Huffman coder and
// the container: packed bit sequences, the byte/word/dword width selector used
// by every length prefix, and a bounds-checked little-endian cursor.
//
// Bits are always packed most-significant-bit first, eight per byte, with the
// unused low bits of the final byte cleared.
package bitio

import (
	"errors"
	"strings"
)

// Errors returned while deserializing.
var (
	ErrTruncated = errors.New("bitio: truncated data")
	ErrWidth     = errors.New("bitio: invalid width selector")
	ErrBitString = errors.New("bitio: invalid bit string")
)

// Bits is a packed bit sequence of exact length. The zero value is the empty
// sequence. Copies share storage: appending to two copies of the same value
// clobbers each other's tail, so Clone before extending a shared prefix.
type Bits struct {
	buf []byte
	n   int
}

// FromBytes returns the sequence made of the first n bits of buf, MSB first.
// buf must hold at least (n+7)/8 bytes; the returned Bits owns a copy.
func FromBytes(buf []byte, n int) Bits {
	if n <= 0 {
		return Bits{}
	}
	nb := (n + 7) >> 3
	out := make([]byte, nb)
	copy(out, buf[:nb])
	if rem := n & 7; rem != 0 {
		out[nb-1] &= byte(0xff << (8 - rem))
	}
	return Bits{buf: out, n: n}
}

// ParseBits parses a string of '0' and '1' characters.
func ParseBits(s string) (Bits, error) {
	var b Bits
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			b.AppendBit(false)
		case '1':
			b.AppendBit(true)
		default:
			return Bits{}, ErrBitString
		}
	}
	return b, nil
}

// MustParseBits is like ParseBits but panics on malformed input. Intended for
// tests and literals.
func MustParseBits(s string) Bits {
	b, err := ParseBits(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Len returns the number of bits.
func (b Bits) Len() int { return b.n }

// At reports whether bit i is set. It panics if i is out of range.
func (b Bits) At(i int) bool {
	if i < 0 || i >= b.n {
		panic("bitio: bit index out of range")
	}
	return b.buf[i>>3]&(0x80>>uint(i&7)) != 0
}

// Bytes returns the packed representation, (Len()+7)/8 bytes long. The caller
// must not modify it. Padding bits of the final byte are unspecified; use
// AppendBits for a canonical encoding.
func (b Bits) Bytes() []byte { return b.buf[:(b.n+7)>>3] }

// AppendBit appends a single bit.
func (b *Bits) AppendBit(v bool) {
	if b.n&7 == 0 {
		b.buf = append(b.buf[:b.n>>3], 0)
	}
	if v {
		b.buf[b.n>>3] |= 0x80 >> uint(b.n&7)
	}
	b.n++
}

// Append appends every bit of o.
func (b *Bits) Append(o Bits) {
	if b.n&7 == 0 {
		b.buf = append(b.buf[:b.n>>3], o.Bytes()...)
		b.n += o.n
		return
	}
	for i := 0; i < o.n; i++ {
		b.AppendBit(o.At(i))
	}
}

// Clone returns a copy that shares no memory with b.
func (b Bits) Clone() Bits { return FromBytes(b.buf, b.n) }

// Equal reports whether b and o hold the same bits.
func (b Bits) Equal(o Bits) bool {
	if b.n != o.n {
		return false
	}
	full := b.n >> 3
	for i := 0; i < full; i++ {
		if b.buf[i] != o.buf[i] {
			return false
		}
	}
	if rem := b.n & 7; rem != 0 {
		mask := byte(0xff << (8 - rem))
		return b.buf[full]&mask == o.buf[full]&mask
	}
	return true
}

// HasPrefix reports whether p is a prefix of b.
func (b Bits) HasPrefix(p Bits) bool {
	if p.n > b.n {
		return false
	}
	for i := 0; i < p.n; i++ {
		if b.At(i) != p.At(i) {
			return false
		}
	}
	return true
}

// String renders the bits as '0'/'1' characters.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		if b.At(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
