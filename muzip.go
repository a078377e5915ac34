package muzip

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/deepteams/muzip/internal/bitio"
	"github.com/deepteams/muzip/internal/blockmatch"
	"github.com/deepteams/muzip/internal/container"
	"github.com/deepteams/muzip/internal/huffman"
	"github.com/deepteams/muzip/raster"
)

// MaxDimension is the largest width or height the compressed format accepts.
const MaxDimension = container.MaxDimension

// Defaults applied by DefaultOptions and to zero block dimensions.
const (
	DefaultBlockSize = 8
	DefaultAlpha     = 8.0
)

// Options controls compression.
type Options struct {
	// BlockHeight and BlockWidth are the block dimensions p and q in pixels.
	// They must divide the image height and width. Zero selects
	// DefaultBlockSize.
	BlockHeight int
	BlockWidth  int

	// Alpha is the merge threshold: a block is replaced by its nearest
	// palette entry when their mean absolute channel difference, in [0, 255],
	// is strictly below Alpha. Zero disables merging and makes the round
	// trip lossless; anything above 255 merges every block into one entry.
	Alpha float64
}

// DefaultOptions returns 8x8 blocks and a threshold of 8.
func DefaultOptions() *Options {
	return &Options{
		BlockHeight: DefaultBlockSize,
		BlockWidth:  DefaultBlockSize,
		Alpha:       DefaultAlpha,
	}
}

// validate returns the resolved block size and threshold.
func (o *Options) validate() (p, q int, alpha float64, err error) {
	p, q, alpha = o.BlockHeight, o.BlockWidth, o.Alpha
	if p == 0 {
		p = DefaultBlockSize
	}
	if q == 0 {
		q = DefaultBlockSize
	}
	if p < 0 || q < 0 || p > MaxDimension || q > MaxDimension {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d blocks", raster.ErrBlockSize, o.BlockHeight, o.BlockWidth)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha < 0 {
		return 0, 0, 0, fmt.Errorf("%w: %v", blockmatch.ErrAlpha, alpha)
	}
	return p, q, alpha, nil
}

// Stats describes a compression run.
type Stats struct {
	Blocks      int // blocks in the image
	PaletteSize int // distinct blocks kept
	Merged      int // blocks replaced by an earlier palette entry
	TreeDepth   int // height of the metric tree
	IndexBytes  int // size of the Huffman coded block indices
	Size        int // total compressed size
}

// Compress compresses img. If opts is nil, DefaultOptions() is used.
func Compress(img *raster.Image, opts *Options) ([]byte, error) {
	data, _, err := CompressStats(img, opts)
	return data, err
}

// CompressStats is like Compress and also reports how the image was
// compressed.
func CompressStats(img *raster.Image, opts *Options) ([]byte, *Stats, error) {
	const op = "compress"
	if opts == nil {
		opts = DefaultOptions()
	}
	p, q, alpha, err := opts.validate()
	if err != nil {
		return nil, nil, newError(KindConfig, op, err)
	}
	if img != nil && (img.Width > MaxDimension || img.Height > MaxDimension) {
		return nil, nil, newError(KindConfig, op, fmt.Errorf("%w: %dx%d exceeds %d", raster.ErrDimensions, img.Width, img.Height, MaxDimension))
	}
	grid, err := raster.NewGrid(img, p, q)
	if err != nil {
		return nil, nil, newError(KindConfig, op, err)
	}

	res, err := blockmatch.Compress(grid, alpha)
	if err != nil {
		return nil, nil, newError(KindConfig, op, err)
	}
	indices, err := huffman.Compress(res.Indices)
	if err != nil {
		return nil, nil, newError(KindConfig, op, err)
	}
	data, err := container.Marshal(&container.File{
		Indices: indices,
		Geometry: container.Geometry{
			BlockHeight: uint32(p),
			BlockWidth:  uint32(q),
			Width:       uint32(img.Width),
			Height:      uint32(img.Height),
		},
		Palette: res.Palette.Bytes(),
	})
	if err != nil {
		return nil, nil, newError(KindConfig, op, err)
	}

	return data, &Stats{
		Blocks:      grid.BlockCount(),
		PaletteSize: res.Palette.Len(),
		Merged:      res.Merged,
		TreeDepth:   res.Depth,
		IndexBytes:  len(indices),
		Size:        len(data),
	}, nil
}

var errTrailing = errors.New("muzip: trailing bytes after the block indices")

// Decompress reconstructs the image stored in data.
func Decompress(data []byte) (*raster.Image, error) {
	const op = "decompress"
	f, err := container.Parse(data)
	if err != nil {
		return nil, newError(KindFormat, op, err)
	}
	indices, n, err := huffman.Decompress(f.Indices)
	if err != nil {
		return nil, newError(KindFormat, op, err)
	}
	if n != len(f.Indices) {
		return nil, newError(KindFormat, op, fmt.Errorf("%w: %d of %d bytes used", errTrailing, n, len(f.Indices)))
	}
	pal, err := blockmatch.PaletteFromBytes(int(f.BlockHeight), int(f.BlockWidth), f.Palette)
	if err != nil {
		return nil, newError(KindFormat, op, err)
	}
	img, err := blockmatch.Expand(indices, pal, int(f.Width), int(f.Height))
	if err != nil {
		return nil, newError(KindFormat, op, err)
	}
	return img, nil
}

// Encode writes img to w in compressed form. If opts is nil,
// DefaultOptions() is used.
func Encode(w io.Writer, img image.Image, opts *Options) error {
	if img == nil {
		return newError(KindConfig, "encode", raster.ErrDimensions)
	}
	data, err := Compress(raster.FromImage(img), opts)
	if err != nil {
		var me *Error
		if errors.As(err, &me) {
			me.Op = "encode"
		}
		return err
	}
	if _, err := w.Write(data); err != nil {
		return newError(KindIO, "encode", err)
	}
	return nil
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads a compressed image from r. The returned image is a
// *raster.Image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, newError(KindIO, "decode", err)
	}
	img, err := Decompress(data)
	if err != nil {
		var me *Error
		if errors.As(err, &me) {
			me.Op = "decode"
		}
		return nil, err
	}
	return img, nil
}

// DecodeConfig returns the color model and dimensions of a compressed image
// without decoding the block indices.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, newError(KindIO, "decode", err)
	}
	f, err := container.Parse(data)
	if err != nil {
		return image.Config{}, newError(KindFormat, "decode", err)
	}
	return image.Config{
		ColorModel: color.RGBAModel,
		Width:      int(f.Width),
		Height:     int(f.Height),
	}, nil
}

// Info describes a compressed file.
type Info struct {
	Width       int
	Height      int
	BlockHeight int
	BlockWidth  int
	Blocks      int
	PaletteSize int
	IndexBytes  int // size of the Huffman blob
	Alphabet    int // distinct palette indices in use
	Size        int
}

// Inspect reads the header of a compressed file and its Huffman table
// without decoding the block indices.
func Inspect(data []byte) (*Info, error) {
	const op = "inspect"
	f, err := container.Parse(data)
	if err != nil {
		return nil, newError(KindFormat, op, err)
	}
	tab, err := huffman.UnmarshalTable(bitio.NewCursor(f.Indices))
	if err != nil {
		return nil, newError(KindFormat, op, err)
	}
	return &Info{
		Width:       int(f.Width),
		Height:      int(f.Height),
		BlockHeight: int(f.BlockHeight),
		BlockWidth:  int(f.BlockWidth),
		Blocks:      f.BlockCount(),
		PaletteSize: f.PaletteLen(),
		IndexBytes:  len(f.Indices),
		Alphabet:    len(tab),
		Size:        len(data),
	}, nil
}
