// Package huffman builds prefix codes over uint32 symbols, encodes and
// decodes symbol sequences with them, and serializes a code table together
// with the encoded bits.
package huffman

import (
	"container/heap"
	"errors"
	"fmt"
	"slices"

	"github.com/deepteams/muzip/internal/bitio"
)

// Errors returned by the coder.
var (
	ErrUnknownSymbol = errors.New("huffman: symbol not in table")
	ErrInvalidTable  = errors.New("huffman: invalid code table")
	ErrTruncatedCode = errors.New("huffman: code ends inside a codeword")
	ErrInvalidCode   = errors.New("huffman: bit sequence matches no codeword")
)

const nilNode = -1

// node is a leaf when both children are nilNode.
type node struct {
	count  uint64
	symbol uint32
	left   int32
	right  int32
}

func (n *node) leaf() bool { return n.left == nilNode && n.right == nilNode }

// Tree is a binary code tree stored as a node arena. Descending to the left
// child emits 0, to the right child 1.
type Tree struct {
	nodes []node
	root  int32
}

// nodeHeap orders arena indices by count, then by creation order.
type nodeHeap struct {
	pool    []node
	indices []int32
}

func (h *nodeHeap) Len() int { return len(h.indices) }

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.pool[h.indices[i]].count, h.pool[h.indices[j]].count
	if a != b {
		return a < b
	}
	return h.indices[i] < h.indices[j]
}

func (h *nodeHeap) Swap(i, j int) { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }

func (h *nodeHeap) Push(x any) { h.indices = append(h.indices, x.(int32)) }

func (h *nodeHeap) Pop() any {
	old := h.indices
	n := len(old)
	x := old[n-1]
	h.indices = old[:n-1]
	return x
}

// BuildTree returns the Huffman tree for the symbol frequencies of seq.
// Leaves are created in ascending symbol order and nodes of equal count are
// merged in creation order, so the result is deterministic. The first node
// popped becomes the left child. An empty seq yields an empty tree.
func BuildTree(seq []uint32) *Tree {
	freq := make(map[uint32]uint64)
	for _, s := range seq {
		freq[s]++
	}
	t := &Tree{root: nilNode}
	if len(freq) == 0 {
		return t
	}

	symbols := make([]uint32, 0, len(freq))
	for s := range freq {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)

	t.nodes = make([]node, 0, 2*len(symbols)-1)
	h := &nodeHeap{indices: make([]int32, 0, len(symbols))}
	for _, s := range symbols {
		h.indices = append(h.indices, int32(len(t.nodes)))
		t.nodes = append(t.nodes, node{count: freq[s], symbol: s, left: nilNode, right: nilNode})
	}
	h.pool = t.nodes
	heap.Init(h)

	for h.Len() > 1 {
		left := heap.Pop(h).(int32)
		right := heap.Pop(h).(int32)
		parent := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{
			count: t.nodes[left].count + t.nodes[right].count,
			left:  left,
			right: right,
		})
		h.pool = t.nodes
		heap.Push(h, parent)
	}
	t.root = heap.Pop(h).(int32)
	return t
}

// Len returns the number of distinct symbols in the tree.
func (t *Tree) Len() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].leaf() {
			n++
		}
	}
	return n
}

// Table returns the code of every symbol. A tree with a single symbol gives
// it the one-bit code 0 so that every symbol occupies at least one bit.
func (t *Tree) Table() Table {
	tab := make(Table)
	if t.root == nilNode {
		return tab
	}
	if root := &t.nodes[t.root]; root.leaf() {
		tab[root.symbol] = bitio.MustParseBits("0")
		return tab
	}

	type item struct {
		n    int32
		code bitio.Bits
	}
	stack := []item{{n: t.root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := &t.nodes[it.n]
		if nd.leaf() {
			tab[nd.symbol] = it.code
			continue
		}
		// Both children extend the same prefix, so each gets its own copy.
		right := it.code.Clone()
		right.AppendBit(true)
		left := it.code.Clone()
		left.AppendBit(false)
		stack = append(stack, item{nd.right, right}, item{nd.left, left})
	}
	return tab
}

// TreeFromTable rebuilds the code tree described by tab. It fails with
// ErrInvalidTable if a code is empty or is a prefix of another code.
func TreeFromTable(tab Table) (*Tree, error) {
	t := &Tree{root: nilNode}
	if len(tab) == 0 {
		return t, nil
	}
	t.nodes = []node{{left: nilNode, right: nilNode}}
	t.root = 0
	// Internal nodes are told apart from leaves by this set until every
	// code is placed, since a fresh node has no children yet.
	internal := []bool{true}

	for _, s := range tab.Symbols() {
		code := tab[s]
		if code.Len() == 0 {
			return nil, fmt.Errorf("%w: empty code for symbol %d", ErrInvalidTable, s)
		}
		cur := t.root
		for i := 0; i < code.Len(); i++ {
			if !internal[cur] {
				return nil, fmt.Errorf("%w: code of a symbol is a prefix of the code for %d", ErrInvalidTable, s)
			}
			link := &t.nodes[cur].left
			if code.At(i) {
				link = &t.nodes[cur].right
			}
			last := i == code.Len()-1
			if *link == nilNode {
				*link = int32(len(t.nodes))
				t.nodes = append(t.nodes, node{left: nilNode, right: nilNode})
				internal = append(internal, !last)
			} else if last {
				return nil, fmt.Errorf("%w: code for %d is a prefix of another code", ErrInvalidTable, s)
			}
			cur = *link
		}
		t.nodes[cur].symbol = s
	}
	return t, nil
}
