package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrBlockSize is returned when a block dimension is not positive or does
	// not divide the matching image dimension.
	ErrBlockSize = errors.New("raster: block size does not tile the image")
	// ErrDimensions is returned for empty or inconsistent images.
	ErrDimensions = errors.New("raster: invalid image dimensions")
)

// Grid is a read-only view that splits an image into p x q pixel blocks,
// numbered in row-major order. It never copies pixel data: every slice it
// returns aliases the underlying image.
type Grid struct {
	img     *Image
	p, q    int
	bRows   int // blocks per column
	bCols   int // blocks per row
	offsets []int
}

// NewGrid builds a grid of p-row by q-column blocks over img.
func NewGrid(img *Image, p, q int) (*Grid, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, ErrDimensions
	}
	if len(img.Pix) != img.Width*img.Height*3 {
		return nil, fmt.Errorf("%w: %dx%d image with %d bytes", ErrDimensions, img.Width, img.Height, len(img.Pix))
	}
	if p <= 0 || q <= 0 {
		return nil, fmt.Errorf("%w: %dx%d blocks", ErrBlockSize, p, q)
	}
	if img.Height%p != 0 || img.Width%q != 0 {
		return nil, fmt.Errorf("%w: %dx%d blocks over a %dx%d image", ErrBlockSize, p, q, img.Width, img.Height)
	}

	g := &Grid{
		img:   img,
		p:     p,
		q:     q,
		bRows: img.Height / p,
		bCols: img.Width / q,
	}
	g.offsets = make([]int, g.bRows*g.bCols)
	for br := 0; br < g.bRows; br++ {
		for bc := 0; bc < g.bCols; bc++ {
			g.offsets[br*g.bCols+bc] = (br*p*img.Width + bc*q) * 3
		}
	}
	return g, nil
}

// Image returns the underlying image.
func (g *Grid) Image() *Image { return g.img }

// Rows returns the block height p.
func (g *Grid) Rows() int { return g.p }

// Cols returns the block width q.
func (g *Grid) Cols() int { return g.q }

// BlockRows returns the number of blocks stacked vertically.
func (g *Grid) BlockRows() int { return g.bRows }

// BlockCols returns the number of blocks per row of blocks.
func (g *Grid) BlockCols() int { return g.bCols }

// BlockCount returns the total number of blocks.
func (g *Grid) BlockCount() int { return len(g.offsets) }

// BlockSize returns the number of bytes in one block, p*q*3.
func (g *Grid) BlockSize() int { return g.p * g.q * 3 }

// Offset returns the byte offset of the top-left pixel of block.
func (g *Grid) Offset(block int) int { return g.offsets[block] }

// At returns the 3-byte pixel at (row, col) inside block.
func (g *Grid) At(block, row, col int) []byte {
	i := g.offsets[block] + (row*g.img.Width+col)*3
	return g.img.Pix[i : i+3 : i+3]
}

// Pixel returns the 3-byte pixel at global image coordinates.
func (g *Grid) Pixel(row, col int) []byte {
	i := g.img.PixOffset(row, col)
	return g.img.Pix[i : i+3 : i+3]
}

// BlockRow returns row r of block as 3*q contiguous bytes.
func (g *Grid) BlockRow(block, r int) []byte {
	i := g.offsets[block] + r*g.img.Width*3
	n := g.q * 3
	return g.img.Pix[i : i+n : i+n]
}

// CopyBlock copies the pixels of block into dst, which must hold BlockSize
// bytes, one block row after another.
func (g *Grid) CopyBlock(dst []byte, block int) {
	n := g.q * 3
	for r := 0; r < g.p; r++ {
		copy(dst[r*n:(r+1)*n], g.BlockRow(block, r))
	}
}
