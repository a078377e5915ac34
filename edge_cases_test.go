package muzip

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/deepteams/muzip/internal/blockmatch"
	"github.com/deepteams/muzip/raster"
)

func TestOnePixelImage(t *testing.T) {
	img := raster.New(1, 1)
	img.SetRGB(0, 0, 1, 2, 3)
	data, err := Compress(img, &Options{BlockHeight: 1, BlockWidth: 1, Alpha: 100})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decompress(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix, img.Pix) {
		t.Errorf("pixels = %v, want %v", got.Pix, img.Pix)
	}
}

func TestFullMergeCollapsesPalette(t *testing.T) {
	img := noise(7, 32, 32)
	data, stats, err := CompressStats(img, &Options{BlockHeight: 4, BlockWidth: 4, Alpha: 256})
	if err != nil {
		t.Fatal(err)
	}
	if stats.PaletteSize != 1 || stats.Merged != stats.Blocks-1 {
		t.Fatalf("palette %d merged %d of %d", stats.PaletteSize, stats.Merged, stats.Blocks)
	}
	got, err := Decompress(data)
	if err != nil {
		t.Fatal(err)
	}
	// Every block now repeats block 0.
	g, _ := raster.NewGrid(got, 4, 4)
	first := make([]byte, g.BlockSize())
	g.CopyBlock(first, 0)
	blk := make([]byte, g.BlockSize())
	for b := 1; b < g.BlockCount(); b++ {
		g.CopyBlock(blk, b)
		if !bytes.Equal(blk, first) {
			t.Fatalf("block %d differs from block 0", b)
		}
	}
}

func TestDecompress_EveryTruncationFails(t *testing.T) {
	data, err := Compress(noise(8, 16, 16), &Options{BlockHeight: 4, BlockWidth: 4, Alpha: 40})
	if err != nil {
		t.Fatal(err)
	}
	for n := 0; n < len(data); n++ {
		if _, err := Decompress(data[:n]); !errors.Is(err, ErrFormat) {
			t.Fatalf("prefix of %d bytes: error = %v, want ErrFormat", n, err)
		}
	}
}

func TestDecompress_CorruptHeaders(t *testing.T) {
	data, err := Compress(gradient(8, 8), &Options{BlockHeight: 2, BlockWidth: 2, Alpha: 0})
	if err != nil {
		t.Fatal(err)
	}
	s := int(binary.LittleEndian.Uint32(data))
	geo := 4 + s
	patch := func(off int, v uint32) []byte {
		b := bytes.Clone(data)
		binary.LittleEndian.PutUint32(b[off:], v)
		return b
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"blob size too large", patch(0, uint32(len(data)))},
		{"blob size too small", patch(0, uint32(s-1))},
		{"zero block height", patch(geo, 0)},
		{"block width does not divide", patch(geo+4, 3)},
		{"width changed", patch(geo+8, 16)},
		{"height zero", patch(geo+12, 0)},
		{"extra palette byte", append(bytes.Clone(data), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.data)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestDecompress_IndexOutOfPalette(t *testing.T) {
	// Drop the last palette entry: block 3 now points past the palette.
	data, err := Compress(noise(9, 4, 4), &Options{BlockHeight: 2, BlockWidth: 2, Alpha: 0})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decompress(data[:len(data)-12])
	if !errors.Is(err, blockmatch.ErrIndexRange) {
		t.Fatalf("error = %v, want ErrIndexRange", err)
	}
	if KindOf(err) != KindFormat {
		t.Errorf("KindOf = %v, want format", KindOf(err))
	}
}

func TestCompress_TooLarge(t *testing.T) {
	img := &raster.Image{Width: MaxDimension + 1, Height: 1}
	_, err := Compress(img, &Options{BlockHeight: 1, BlockWidth: 1})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestCompress_DoesNotAliasImage(t *testing.T) {
	img := noise(10, 8, 8)
	data, err := Compress(img, &Options{BlockHeight: 4, BlockWidth: 4, Alpha: 0})
	if err != nil {
		t.Fatal(err)
	}
	orig := bytes.Clone(img.Pix)
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	got, err := Decompress(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix, orig) {
		t.Error("compressed data changed with the source image")
	}
}
