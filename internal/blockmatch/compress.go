package blockmatch

import (
	"errors"
	"fmt"
	"math"

	"github.com/deepteams/muzip/internal/ght"
	"github.com/deepteams/muzip/raster"
)

// Errors reported by Compress and Expand.
var (
	ErrAlpha      = errors.New("blockmatch: threshold must be finite and non-negative")
	ErrIndexRange = errors.New("blockmatch: block index outside the palette")
	ErrIndexCount = errors.New("blockmatch: index count does not match the block count")
)

// Result is the output of Compress.
type Result struct {
	// Indices holds, for every block of the grid in row-major order, the
	// position of its representative in Palette.
	Indices []uint32
	Palette *Palette

	// Merged counts the blocks replaced by an earlier palette entry.
	Merged int
	// Depth is the height of the metric tree built during compression.
	Depth int
}

// Compress walks the blocks of g in order and assigns each one a palette
// entry. Block 0 always starts the palette. Every later block reuses its
// nearest palette entry when that entry is strictly closer than alpha, and
// otherwise becomes a new entry. With alpha zero no block is ever merged.
func Compress(g *raster.Grid, alpha float64) (*Result, error) {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha < 0 {
		return nil, fmt.Errorf("%w: %v", ErrAlpha, alpha)
	}

	n := g.BlockCount()
	res := &Result{
		Indices: make([]uint32, n),
		Palette: NewPalette(g.Rows(), g.Cols()),
	}
	tree := ght.New[Block]()

	// The tree's insertion indices and the palette positions advance
	// together, so a match index is directly a palette index.
	tree.Insert(NewBlock(g, 0))
	res.Palette.AppendBlock(g, 0)

	for i := 1; i < n; i++ {
		b := NewBlock(g, i)
		j, d, _, err := tree.Nearest(b)
		if err != nil {
			return nil, err
		}
		if d < alpha {
			res.Indices[i] = uint32(j)
			res.Merged++
			continue
		}
		tree.Insert(b)
		res.Indices[i] = uint32(res.Palette.AppendBlock(g, i))
	}
	res.Depth = tree.Depth()
	return res, nil
}

// Expand paints a width x height image by copying palette entry indices[i]
// into block i. The index count is checked before any pixels are allocated.
func Expand(indices []uint32, pal *Palette, width, height int) (*raster.Image, error) {
	p, q := pal.Rows(), pal.Cols()
	switch {
	case width <= 0 || height <= 0:
		return nil, fmt.Errorf("%w: %dx%d", raster.ErrDimensions, width, height)
	case p <= 0 || q <= 0 || height%p != 0 || width%q != 0:
		return nil, fmt.Errorf("%w: %dx%d blocks over a %dx%d image", raster.ErrBlockSize, p, q, width, height)
	}
	if blocks := (height / p) * (width / q); len(indices) != blocks {
		return nil, fmt.Errorf("%w: %d indices for %d blocks", ErrIndexCount, len(indices), blocks)
	}

	img := raster.New(width, height)
	g, err := raster.NewGrid(img, p, q)
	if err != nil {
		return nil, err
	}
	n := pal.Len()
	rowBytes := q * 3
	for i, idx := range indices {
		if uint64(idx) >= uint64(n) {
			return nil, fmt.Errorf("%w: block %d refers to entry %d of %d", ErrIndexRange, i, idx, n)
		}
		src := pal.Block(int(idx))
		for r := 0; r < p; r++ {
			copy(g.BlockRow(i, r), src[r*rowBytes:(r+1)*rowBytes])
		}
	}
	return img, nil
}
