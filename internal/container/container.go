package container

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/deepteams/muzip/internal/pool"
)

// Errors returned by Parse and Marshal.
var (
	ErrTruncated = errors.New("muzip: truncated data")
	ErrGeometry  = errors.New("muzip: invalid block or image geometry")
	ErrPalette   = errors.New("muzip: invalid palette")
	ErrTooLarge  = errors.New("muzip: section too large")
)

// Geometry is the fixed header that follows the index blob.
type Geometry struct {
	BlockHeight uint32 // p
	BlockWidth  uint32 // q
	Width       uint32
	Height      uint32
}

// BlockSize returns the number of palette bytes per block.
func (g Geometry) BlockSize() int {
	return int(g.BlockHeight) * int(g.BlockWidth) * BytesPerPixel
}

// BlockCount returns the number of blocks in the image.
func (g Geometry) BlockCount() int {
	return int(g.Height/g.BlockHeight) * int(g.Width/g.BlockWidth)
}

// Validate checks that the blocks tile a non-empty image.
func (g Geometry) Validate() error {
	switch {
	case g.Width == 0 || g.Height == 0:
		return fmt.Errorf("%w: %dx%d image", ErrGeometry, g.Width, g.Height)
	case g.Width > MaxDimension || g.Height > MaxDimension:
		return fmt.Errorf("%w: %dx%d image exceeds %d", ErrGeometry, g.Width, g.Height, MaxDimension)
	case g.BlockHeight == 0 || g.BlockWidth == 0:
		return fmt.Errorf("%w: %dx%d blocks", ErrGeometry, g.BlockHeight, g.BlockWidth)
	case g.Height%g.BlockHeight != 0 || g.Width%g.BlockWidth != 0:
		return fmt.Errorf("%w: %dx%d blocks do not tile a %dx%d image", ErrGeometry, g.BlockHeight, g.BlockWidth, g.Width, g.Height)
	}
	return nil
}

// File is a compressed file split into its sections. A parsed File aliases
// the data it was parsed from.
type File struct {
	Indices []byte // Huffman blob of the block indices
	Geometry
	Palette []byte // palette blocks back to back
}

// PaletteLen returns the number of palette blocks.
func (f *File) PaletteLen() int {
	if n := f.BlockSize(); n > 0 {
		return len(f.Palette) / n
	}
	return 0
}

// Size returns the serialized size of f.
func (f *File) Size() int {
	return MinFileSize + len(f.Indices) + len(f.Palette)
}

// Marshal serializes f.
func Marshal(f *File) ([]byte, error) {
	if uint64(len(f.Indices)) > MaxBlobSize {
		return nil, fmt.Errorf("%w: %d byte index blob", ErrTooLarge, len(f.Indices))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := f.checkPalette(); err != nil {
		return nil, err
	}

	buf := pool.GetBuffer(f.Size())
	var hdr [GeometrySize]byte
	binary.LittleEndian.PutUint32(hdr[:LengthFieldSize], uint32(len(f.Indices)))
	buf.Write(hdr[:LengthFieldSize])
	buf.Write(f.Indices)
	binary.LittleEndian.PutUint32(hdr[0:4], f.BlockHeight)
	binary.LittleEndian.PutUint32(hdr[4:8], f.BlockWidth)
	binary.LittleEndian.PutUint32(hdr[8:12], f.Width)
	binary.LittleEndian.PutUint32(hdr[12:16], f.Height)
	buf.Write(hdr[:])
	buf.Write(f.Palette)
	return pool.Detach(buf), nil
}

// Parse splits data into its sections and validates the geometry and the
// palette size. The index blob itself is not decoded.
func Parse(data []byte) (*File, error) {
	if len(data) < MinFileSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncated, len(data), MinFileSize)
	}
	s := binary.LittleEndian.Uint32(data[:LengthFieldSize])
	if uint64(s) > uint64(len(data)-MinFileSize) {
		return nil, fmt.Errorf("%w: index blob of %d bytes in a %d byte file", ErrTruncated, s, len(data))
	}
	off := LengthFieldSize + int(s)
	f := &File{Indices: data[LengthFieldSize:off:off]}
	geo := data[off : off+GeometrySize]
	f.BlockHeight = binary.LittleEndian.Uint32(geo[0:4])
	f.BlockWidth = binary.LittleEndian.Uint32(geo[4:8])
	f.Width = binary.LittleEndian.Uint32(geo[8:12])
	f.Height = binary.LittleEndian.Uint32(geo[12:16])
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.Palette = data[off+GeometrySize:]
	if err := f.checkPalette(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) checkPalette() error {
	n := f.BlockSize()
	switch {
	case len(f.Palette) == 0:
		return fmt.Errorf("%w: empty", ErrPalette)
	case len(f.Palette)%n != 0:
		return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrPalette, len(f.Palette), n)
	case f.PaletteLen() > f.BlockCount():
		return fmt.Errorf("%w: %d entries for %d blocks", ErrPalette, f.PaletteLen(), f.BlockCount())
	}
	return nil
}
