package blockmatch

import (
	"errors"
	"fmt"

	"github.com/deepteams/muzip/raster"
)

// ErrPaletteSize is returned when palette data is not a whole number of
// blocks.
var ErrPaletteSize = errors.New("blockmatch: palette data is not a multiple of the block size")

// Palette is an ordered list of p x q blocks stored back to back, each block
// row after row, three bytes per pixel.
type Palette struct {
	rows, cols int
	data       []byte
}

// NewPalette returns an empty palette of rows x cols blocks.
func NewPalette(rows, cols int) *Palette {
	return &Palette{rows: rows, cols: cols}
}

// PaletteFromBytes wraps serialized palette data without copying it.
func PaletteFromBytes(rows, cols int, data []byte) (*Palette, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d blocks", raster.ErrBlockSize, rows, cols)
	}
	if len(data)%(rows*cols*3) != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d blocks", ErrPaletteSize, len(data), rows, cols)
	}
	return &Palette{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the block height.
func (p *Palette) Rows() int { return p.rows }

// Cols returns the block width.
func (p *Palette) Cols() int { return p.cols }

// BlockSize returns the number of bytes per entry.
func (p *Palette) BlockSize() int { return p.rows * p.cols * 3 }

// Len returns the number of entries.
func (p *Palette) Len() int {
	if n := p.BlockSize(); n > 0 {
		return len(p.data) / n
	}
	return 0
}

// Block returns entry i. The slice aliases the palette.
func (p *Palette) Block(i int) []byte {
	n := p.BlockSize()
	return p.data[i*n : (i+1)*n : (i+1)*n]
}

// Bytes returns the packed entries.
func (p *Palette) Bytes() []byte { return p.data }

// AppendBlock copies block i of g to the end of the palette and returns its
// position.
func (p *Palette) AppendBlock(g *raster.Grid, i int) int {
	pos := p.Len()
	n := p.BlockSize()
	start := len(p.data)
	p.data = append(p.data, make([]byte, n)...)
	g.CopyBlock(p.data[start:start+n], i)
	return pos
}
