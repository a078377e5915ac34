// Package raster provides the RGB pixel buffer used by the codec and a
// zero-copy view that partitions it into equal rectangular blocks.
package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is a packed 8-bit RGB raster. Pix holds Height rows of Width pixels,
// three bytes per pixel, with no padding between rows.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zeroed width x height image.
func New(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{Width: width, Height: height, Pix: make([]byte, width*height*3)}
}

// PixOffset returns the index of the first byte of the pixel at (row, col).
func (m *Image) PixOffset(row, col int) int {
	return (row*m.Width + col) * 3
}

// RGBAt returns the channels of the pixel at (row, col).
func (m *Image) RGBAt(row, col int) (r, g, b uint8) {
	i := m.PixOffset(row, col)
	s := m.Pix[i : i+3 : i+3]
	return s[0], s[1], s[2]
}

// SetRGB sets the pixel at (row, col).
func (m *Image) SetRGB(row, col int, r, g, b uint8) {
	i := m.PixOffset(row, col)
	s := m.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = r, g, b
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At implements image.Image.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.RGBA{}
	}
	r, g, b := m.RGBAt(y, x)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Set implements draw.Image. Alpha is discarded.
func (m *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	m.SetRGB(y, x, rgba.R, rgba.G, rgba.B)
}

var _ draw.Image = (*Image)(nil)

// FromImage converts img to an RGB raster anchored at the origin. An *Image is
// returned unchanged. Alpha is dropped without compositing.
func FromImage(img image.Image) *Image {
	switch src := img.(type) {
	case *Image:
		return src
	case *image.RGBA:
		return from4(src.Pix, src.Stride, src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y), src.Rect)
	case *image.NRGBA:
		return from4(src.Pix, src.Stride, src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y), src.Rect)
	}

	b := img.Bounds()
	dst := New(b.Dx(), b.Dy())
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			dst.SetRGB(y, x, c.R, c.G, c.B)
		}
	}
	return dst
}

// from4 copies the colour channels of a 4-byte-per-pixel buffer.
func from4(pix []byte, stride, start int, r image.Rectangle) *Image {
	dst := New(r.Dx(), r.Dy())
	for y := 0; y < dst.Height; y++ {
		row := pix[start+y*stride:]
		out := dst.Pix[y*dst.Width*3:]
		for x := 0; x < dst.Width; x++ {
			out[x*3+0] = row[x*4+0]
			out[x*3+1] = row[x*4+1]
			out[x*3+2] = row[x*4+2]
		}
	}
	return dst
}
