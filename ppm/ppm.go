// Package ppm reads and writes binary (P6) Portable Pixmap images.
//
// Only 8-bit samples are supported. Samples are carried through unscaled, so
// a file whose maxval is below 255 decodes to the same byte values it stores.
// The package registers itself with the standard library's image package.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"

	"github.com/deepteams/muzip/raster"
)

func init() {
	image.RegisterFormat("ppm", "P6", func(r io.Reader) (image.Image, error) {
		return Decode(r)
	}, DecodeConfig)
}

// Errors returned by the decoder.
var (
	ErrFormat    = errors.New("ppm: invalid format")
	ErrTruncated = errors.New("ppm: truncated pixel data")
)

// maxDimension bounds width and height so that a corrupt header cannot
// request an absurd allocation.
const maxDimension = 1 << 16

type header struct {
	width, height, maxval int
}

// Decode reads a P6 image from r.
func Decode(r io.Reader) (*raster.Image, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	img := raster.New(h.width, h.height)
	if _, err := io.ReadFull(br, img.Pix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: want %d bytes", ErrTruncated, len(img.Pix))
		}
		return nil, fmt.Errorf("ppm: reading pixels: %w", err)
	}
	return img, nil
}

// DecodeConfig returns the dimensions of a P6 image without reading its
// pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}

// Encode writes img to w as a P6 image with maxval 255.
func Encode(w io.Writer, img *raster.Image) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) != img.Width*img.Height*3 {
		return fmt.Errorf("%w: cannot encode an empty or inconsistent image", ErrFormat)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P6\n%d %d\n255\n", img.Width, img.Height)
	if _, err := bw.Write(img.Pix); err != nil {
		return err
	}
	return bw.Flush()
}

func readHeader(br *bufio.Reader) (header, error) {
	magic := make([]byte, 2)
	if _, err := io.ReadFull(br, magic); err != nil {
		return header{}, fmt.Errorf("%w: missing magic", ErrFormat)
	}
	if string(magic) != "P6" {
		return header{}, fmt.Errorf("%w: magic %q, want \"P6\"", ErrFormat, magic)
	}

	var fields [3]int
	names := [3]string{"width", "height", "maxval"}
	for i := range fields {
		tok, err := readToken(br)
		if err != nil {
			return header{}, fmt.Errorf("%w: reading %s: %v", ErrFormat, names[i], err)
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v <= 0 {
			return header{}, fmt.Errorf("%w: bad %s %q", ErrFormat, names[i], tok)
		}
		fields[i] = v
	}
	h := header{width: fields[0], height: fields[1], maxval: fields[2]}
	if h.width > maxDimension || h.height > maxDimension {
		return header{}, fmt.Errorf("%w: %dx%d exceeds %d", ErrFormat, h.width, h.height, maxDimension)
	}
	if h.maxval > 255 {
		return header{}, fmt.Errorf("%w: maxval %d, only 8-bit samples are supported", ErrFormat, h.maxval)
	}

	// Exactly one whitespace byte separates the header from the pixels.
	c, err := br.ReadByte()
	if err != nil {
		return header{}, fmt.Errorf("%w: want %d bytes", ErrTruncated, h.width*h.height*3)
	}
	if !isSpace(c) {
		return header{}, fmt.Errorf("%w: no separator after maxval", ErrFormat)
	}
	return h, nil
}

// readToken skips whitespace and comments and returns the next run of
// non-space bytes. The byte that terminates the token is left unread.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			if len(tok) > 0 && err == io.EOF {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case c == '#' && len(tok) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", err
			}
		case isSpace(c):
			if len(tok) > 0 {
				return string(tok), br.UnreadByte()
			}
		default:
			if len(tok) >= 10 {
				return "", errors.New("header field too long")
			}
			tok = append(tok, c)
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
