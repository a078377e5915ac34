package huffman

import (
	"fmt"

	"github.com/deepteams/muzip/internal/bitio"
	"github.com/deepteams/muzip/internal/pool"
)

// MarshalTable appends the serialized form of t to dst:
//
//	selector + symbol count
//	count symbols as little-endian u32, ascending
//	bit sequence of all codes concatenated in symbol order
//	count+1 code start offsets into that sequence
//
// The offsets use the narrowest width that holds the total code length.
func MarshalTable(dst []byte, t Table) ([]byte, error) {
	syms := t.Symbols()
	dst = bitio.AppendCount(dst, uint32(len(syms)))
	for _, s := range syms {
		dst = bitio.AppendUint(dst, bitio.WidthDword, s)
	}

	var all bitio.Bits
	offsets := make([]uint32, 0, len(syms)+1)
	for _, s := range syms {
		offsets = append(offsets, uint32(all.Len()))
		all.Append(t[s])
	}
	offsets = append(offsets, uint32(all.Len()))

	dst, err := bitio.AppendBits(dst, all)
	if err != nil {
		return dst, err
	}
	w := bitio.WidthFor(uint32(all.Len()))
	for _, off := range offsets {
		dst = bitio.AppendUint(dst, w, off)
	}
	return dst, nil
}

// UnmarshalTable reads a table written by MarshalTable.
func UnmarshalTable(c *bitio.Cursor) (Table, error) {
	n, err := c.Count()
	if err != nil {
		return nil, fmt.Errorf("huffman: symbol count: %w", err)
	}
	// Each symbol needs four bytes, which bounds n before allocating.
	if uint64(n)*4 > uint64(c.Len()) {
		return nil, fmt.Errorf("huffman: alphabet of %d symbols: %w", n, bitio.ErrTruncated)
	}
	syms := make([]uint32, n)
	for i := range syms {
		if syms[i], err = c.Uint32(); err != nil {
			return nil, fmt.Errorf("huffman: alphabet: %w", err)
		}
		if i > 0 && syms[i] <= syms[i-1] {
			return nil, fmt.Errorf("%w: alphabet not strictly ascending at %d", ErrInvalidTable, i)
		}
	}

	all, err := c.ReadBits()
	if err != nil {
		return nil, fmt.Errorf("huffman: code bits: %w", err)
	}
	total := uint32(all.Len())
	w := bitio.WidthFor(total)
	if (uint64(n)+1)*uint64(w.Size()) > uint64(c.Len()) {
		return nil, fmt.Errorf("huffman: code offsets: %w", bitio.ErrTruncated)
	}

	t := make(Table, n)
	prev, err := c.Uint(w)
	if err != nil {
		return nil, fmt.Errorf("huffman: code offsets: %w", err)
	}
	if prev != 0 {
		return nil, fmt.Errorf("%w: first offset %d", ErrInvalidTable, prev)
	}
	for i, s := range syms {
		next, err := c.Uint(w)
		if err != nil {
			return nil, fmt.Errorf("huffman: code offsets: %w", err)
		}
		if next <= prev || next > total {
			return nil, fmt.Errorf("%w: offset %d of symbol %d out of order", ErrInvalidTable, next, i)
		}
		var code bitio.Bits
		for j := prev; j < next; j++ {
			code.AppendBit(all.At(int(j)))
		}
		t[s] = code
		prev = next
	}
	if prev != total {
		return nil, fmt.Errorf("%w: codes cover %d of %d bits", ErrInvalidTable, prev, total)
	}
	return t, nil
}

// Marshal appends the table followed by the bit sequence of code.
func Marshal(dst []byte, t Table, code bitio.Bits) ([]byte, error) {
	dst, err := MarshalTable(dst, t)
	if err != nil {
		return dst, err
	}
	return bitio.AppendBits(dst, code)
}

// Unmarshal reads a table and a code written by Marshal.
func Unmarshal(c *bitio.Cursor) (Table, bitio.Bits, error) {
	t, err := UnmarshalTable(c)
	if err != nil {
		return nil, bitio.Bits{}, err
	}
	code, err := c.ReadBits()
	if err != nil {
		return nil, bitio.Bits{}, fmt.Errorf("huffman: code: %w", err)
	}
	return t, code, nil
}

// Compress Huffman codes seq and returns the self-contained blob of its
// table and code.
func Compress(seq []uint32) ([]byte, error) {
	tab := BuildTree(seq).Table()
	code, err := Encode(seq, tab)
	if err != nil {
		return nil, err
	}
	buf := pool.GetBuffer(len(tab)*8 + code.Len()/8 + 16)
	out, err := Marshal(buf.AvailableBuffer(), tab, code)
	if err != nil {
		pool.PutBuffer(buf)
		return nil, err
	}
	buf.Write(out)
	return pool.Detach(buf), nil
}

// Decompress decodes a blob written by Compress. It returns the symbols and
// the number of bytes of blob consumed.
func Decompress(blob []byte) ([]uint32, int, error) {
	c := bitio.NewCursor(blob)
	t, code, err := Unmarshal(c)
	if err != nil {
		return nil, 0, err
	}
	seq, err := Decode(code, t)
	if err != nil {
		return nil, 0, err
	}
	return seq, c.Pos(), nil
}
