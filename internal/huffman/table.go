package huffman

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/deepteams/muzip/internal/bitio"
)

// Table maps each symbol to its code.
type Table map[uint32]bitio.Bits

// Symbols returns the symbols of t in ascending order.
func (t Table) Symbols() []uint32 {
	syms := make([]uint32, 0, len(t))
	for s := range t {
		syms = append(syms, s)
	}
	slices.Sort(syms)
	return syms
}

// Encode concatenates the codes of seq.
func Encode(seq []uint32, t Table) (bitio.Bits, error) {
	w := bitio.NewWriter(len(seq) * 2)
	for i, s := range seq {
		code, ok := t[s]
		if !ok {
			w.Bits()
			return bitio.Bits{}, fmt.Errorf("%w: %d at position %d", ErrUnknownSymbol, s, i)
		}
		if err := w.WriteBits(code); err != nil {
			w.Bits()
			return bitio.Bits{}, err
		}
	}
	return w.Bits()
}

// Decode splits bits into codewords of t and returns their symbols.
func Decode(bits bitio.Bits, t Table) ([]uint32, error) {
	tree, err := TreeFromTable(t)
	if err != nil {
		return nil, err
	}
	return tree.decode(bits)
}

func (t *Tree) decode(bits bitio.Bits) ([]uint32, error) {
	if bits.Len() == 0 {
		return []uint32{}, nil
	}
	if t.root == nilNode {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidCode)
	}

	var out []uint32
	r := bitio.NewReader(bits)
	cur := t.root
	for pos := 0; ; pos++ {
		v, err := r.ReadBit()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		next := t.nodes[cur].left
		if v {
			next = t.nodes[cur].right
		}
		if next == nilNode {
			return nil, fmt.Errorf("%w: at bit %d", ErrInvalidCode, pos)
		}
		if nd := &t.nodes[next]; nd.leaf() {
			out = append(out, nd.symbol)
			cur = t.root
		} else {
			cur = next
		}
	}
	if cur != t.root {
		return nil, ErrTruncatedCode
	}
	return out, nil
}
