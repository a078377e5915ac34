// Package ght implements a Generalized Hyperplane Tree, a metric index for
// exact nearest-neighbor queries over elements that only expose a distance
// function.
//
// Every node partitions the elements below it by a hyperplane between the
// node and its reference ancestor: the closer subtree holds elements at
// least as close to the node as to the ancestor, the farther subtree the
// rest. The first inserted element sits above the tree as the reference of
// the real root and is never partitioned itself.
//
// Nodes live in a single slice indexed by insertion order, so the whole tree
// is released at once and no traversal recurses.
package ght

import "errors"

// ErrEmpty is returned when querying a tree that holds no elements.
var ErrEmpty = errors.New("ght: empty tree")

// Metric is implemented by elements that can measure their distance to
// another element of the same type. Distance must be a metric: non-negative,
// symmetric, zero on identical elements, and obey the triangle inequality.
// Query pruning is only exact under those conditions.
type Metric[T any] interface {
	Distance(T) float64
}

const none = 0 // node 0 is never a child, so it doubles as the nil link

type node[T any] struct {
	elem    T
	closer  int32
	farther int32
	depth   int32
}

// Tree is a GHT over elements of type T. The zero value is an empty tree
// ready for use. A Tree is not safe for concurrent use.
type Tree[T Metric[T]] struct {
	nodes []node[T]
	depth int
	stack []frame
}

// New returns an empty tree.
func New[T Metric[T]]() *Tree[T] {
	return &Tree[T]{}
}

// Len returns the number of inserted elements.
func (t *Tree[T]) Len() int { return len(t.nodes) }

// Depth returns the number of nodes on the longest path from the first
// element down to a leaf, counting both ends.
func (t *Tree[T]) Depth() int { return t.depth }

// At returns the element with insertion index i.
func (t *Tree[T]) At(i int) T { return t.nodes[i].elem }

// Reset removes every element, keeping the allocated storage.
func (t *Tree[T]) Reset() {
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.stack = t.stack[:0]
	t.depth = 0
}

// Insert adds x and returns its insertion index, which is also the index
// Nearest reports for it. Elements are never rebalanced.
func (t *Tree[T]) Insert(x T) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node[T]{elem: x})
	switch idx {
	case 0:
		t.depth = 1
		return 0
	case 1:
		t.nodes[0].closer = 1
		t.nodes[1].depth = 1
		t.depth = 2
		return 1
	}

	dParent := x.Distance(t.nodes[0].elem)
	n := int32(1)
	for {
		cur := &t.nodes[n]
		dn := x.Distance(cur.elem)
		link := &cur.closer
		if dParent < dn {
			link = &cur.farther
		} else {
			dParent = dn
		}
		if *link == none {
			*link = int32(idx)
			d := cur.depth + 1
			t.nodes[idx].depth = d
			if int(d)+1 > t.depth {
				t.depth = int(d) + 1
			}
			return idx
		}
		n = *link
	}
}

// frame is a pending visit of node n whose reference ancestor is at
// distance dAnc from the query. gap is the hyperplane offset that led to it;
// the visit is skipped once gap exceeds twice the best distance.
type frame struct {
	n    int32
	dAnc float64
	gap  float64
}

// Nearest returns the insertion index, distance, and value of the element
// closest to q. Among elements at the same minimal distance the first one
// reached wins, starting with the first element ever inserted.
func (t *Tree[T]) Nearest(q T) (int, float64, T, error) {
	if len(t.nodes) == 0 {
		var zero T
		return 0, 0, zero, ErrEmpty
	}

	best := 0
	bestDist := q.Distance(t.nodes[0].elem)
	if len(t.nodes) > 1 {
		stack := append(t.stack[:0], frame{n: 1, dAnc: bestDist})
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if f.gap > 2*bestDist {
				continue
			}

			nd := &t.nodes[f.n]
			d := q.Distance(nd.elem)
			if d < bestDist {
				best, bestDist = int(f.n), d
			}

			// The side of the hyperplane holding q goes on top of the stack;
			// the other side is pushed first with its pruning bound.
			if d <= f.dAnc {
				if nd.farther != none {
					stack = append(stack, frame{n: nd.farther, dAnc: f.dAnc, gap: f.dAnc - d})
				}
				if nd.closer != none {
					stack = append(stack, frame{n: nd.closer, dAnc: d})
				}
			} else {
				if nd.closer != none {
					stack = append(stack, frame{n: nd.closer, dAnc: d, gap: d - f.dAnc})
				}
				if nd.farther != none {
					stack = append(stack, frame{n: nd.farther, dAnc: f.dAnc})
				}
			}
		}
		t.stack = stack
	}
	return best, bestDist, t.nodes[best].elem, nil
}
