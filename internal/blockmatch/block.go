// Package blockmatch implements block-matching compression: every block of a
// grid is replaced by the index of a visually close block in a palette of
// representative blocks, and expansion paints the palette back.
package blockmatch

import (
	"fmt"

	"github.com/deepteams/muzip/raster"
)

// Block is a reference to one block of a grid. It carries no pixel data of
// its own.
type Block struct {
	grid  *raster.Grid
	index int
}

// NewBlock returns block i of g.
func NewBlock(g *raster.Grid, i int) Block {
	return Block{grid: g, index: i}
}

// Index returns the block number within its grid.
func (b Block) Index() int { return b.index }

// Distance returns the mean absolute difference between corresponding
// channel values of b and o, in [0, 255]. Both blocks must have the same
// dimensions.
func (b Block) Distance(o Block) float64 {
	p, q := b.grid.Rows(), b.grid.Cols()
	if o.grid.Rows() != p || o.grid.Cols() != q {
		panic(fmt.Sprintf("blockmatch: comparing %dx%d block with %dx%d block", p, q, o.grid.Rows(), o.grid.Cols()))
	}
	var sum int
	for r := 0; r < p; r++ {
		sum += absDiff(b.grid.BlockRow(b.index, r), o.grid.BlockRow(o.index, r))
	}
	return float64(sum) / float64(p*q*3)
}

// absDiff returns the sum of |x[i]-y[i]|. len(y) must be at least len(x).
func absDiff(x, y []byte) int {
	y = y[:len(x)]
	var s int
	for i := range x {
		d := int(x[i]) - int(y[i])
		if d < 0 {
			d = -d
		}
		s += d
	}
	return s
}
