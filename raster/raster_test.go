package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *Image {
	m := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGB(y, x, uint8(x), uint8(y), uint8(x+y))
		}
	}
	return m
}

func TestImage_SetAndGet(t *testing.T) {
	m := New(3, 2)
	m.SetRGB(1, 2, 10, 20, 30)
	r, g, b := m.RGBAt(1, 2)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("RGBAt = %d,%d,%d, want 10,20,30", r, g, b)
	}
	if got := m.PixOffset(1, 2); got != 15 {
		t.Errorf("PixOffset(1,2) = %d, want 15", got)
	}
	c := m.At(2, 1).(color.RGBA)
	if c != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("At(2,1) = %v", c)
	}
	if got := m.At(5, 5); got != (color.RGBA{}) {
		t.Errorf("out of bounds At = %v, want zero", got)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 3, 6, 5))
	for y := 3; y < 5; y++ {
		for x := 2; x < 6; x++ {
			src.Set(x, y, color.RGBA{uint8(x), uint8(y), 7, 255})
		}
	}
	tests := []struct {
		name string
		img  image.Image
	}{
		{"rgba", src},
		{"generic", struct{ image.Image }{src}},
		{"nrgba", toNRGBA(src)},
		{"paletted", toGray(src)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromImage(tt.img)
			if m.Width != 4 || m.Height != 2 {
				t.Fatalf("size = %dx%d, want 4x2", m.Width, m.Height)
			}
			for y := 0; y < 2; y++ {
				for x := 0; x < 4; x++ {
					want := color.RGBAModel.Convert(tt.img.At(x+2, y+3)).(color.RGBA)
					r, g, b := m.RGBAt(y, x)
					if r != want.R || g != want.G || b != want.B {
						t.Errorf("(%d,%d) = %d,%d,%d, want %d,%d,%d", x, y, r, g, b, want.R, want.G, want.B)
					}
				}
			}
		})
	}

	same := New(1, 1)
	if FromImage(same) != same {
		t.Error("FromImage copied an *Image")
	}
}

func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst
}

func TestNewGrid_Errors(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
		p, q int
		want error
	}{
		{"nil image", nil, 1, 1, ErrDimensions},
		{"empty image", New(0, 0), 1, 1, ErrDimensions},
		{"short pix", &Image{Width: 2, Height: 2, Pix: make([]byte, 5)}, 1, 1, ErrDimensions},
		{"zero p", New(4, 4), 0, 2, ErrBlockSize},
		{"negative q", New(4, 4), 2, -1, ErrBlockSize},
		{"p does not divide height", New(4, 6), 4, 2, ErrBlockSize},
		{"q does not divide width", New(6, 4), 2, 4, ErrBlockSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.img, tt.p, tt.q)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGrid_Layout(t *testing.T) {
	img := gradient(6, 4)
	g, err := NewGrid(img, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.BlockRows() != 2 || g.BlockCols() != 2 || g.BlockCount() != 4 {
		t.Fatalf("blocks = %dx%d (%d), want 2x2 (4)", g.BlockRows(), g.BlockCols(), g.BlockCount())
	}
	if g.Rows() != 2 || g.Cols() != 3 || g.BlockSize() != 18 {
		t.Errorf("Rows/Cols/BlockSize = %d/%d/%d", g.Rows(), g.Cols(), g.BlockSize())
	}

	wantOffsets := []int{0, 9, 36, 45}
	for i, want := range wantOffsets {
		if got := g.Offset(i); got != want {
			t.Errorf("Offset(%d) = %d, want %d", i, got, want)
		}
	}

	for block := 0; block < g.BlockCount(); block++ {
		br, bc := block/g.BlockCols(), block%g.BlockCols()
		for r := 0; r < g.Rows(); r++ {
			for c := 0; c < g.Cols(); c++ {
				got := g.At(block, r, c)
				want := g.Pixel(br*2+r, bc*3+c)
				if string(got) != string(want) {
					t.Errorf("At(%d,%d,%d) = %v, want %v", block, r, c, got, want)
				}
			}
		}
	}
}

func TestGrid_Aliases(t *testing.T) {
	img := gradient(4, 4)
	g, err := NewGrid(img, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	g.At(3, 1, 1)[0] = 99
	if r, _, _ := img.RGBAt(3, 3); r != 99 {
		t.Errorf("write through grid not visible in image: r = %d", r)
	}
	row := g.BlockRow(1, 1)
	if len(row) != 6 || cap(row) != 6 {
		t.Errorf("BlockRow len/cap = %d/%d, want 6/6", len(row), cap(row))
	}
	if string(row) != string(img.Pix[img.PixOffset(1, 2):img.PixOffset(1, 4)]) {
		t.Error("BlockRow does not match image row")
	}
}

func TestGrid_CopyBlock(t *testing.T) {
	img := gradient(4, 4)
	g, _ := NewGrid(img, 2, 2)
	dst := make([]byte, g.BlockSize())
	g.CopyBlock(dst, 2)
	want := append(append([]byte{}, g.BlockRow(2, 0)...), g.BlockRow(2, 1)...)
	if string(dst) != string(want) {
		t.Errorf("CopyBlock = %v, want %v", dst, want)
	}
}
