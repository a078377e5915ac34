package muzip

import (
	"bytes"
	"testing"

	"github.com/deepteams/muzip/raster"
)

// photoLike returns a 640x480 gradient with coarse noise, giving the block
// matcher a mix of near duplicates and unique blocks.
func photoLike() *raster.Image {
	img := gradient(640, 480)
	n := noise(1, 640, 480)
	for i := range img.Pix {
		img.Pix[i] += n.Pix[i] & 0x07
	}
	return img
}

func benchmarkCompress(b *testing.B, alpha float64) {
	img := photoLike()
	opts := &Options{BlockHeight: 8, BlockWidth: 8, Alpha: alpha}
	var size int
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data, err := Compress(img, opts)
		if err != nil {
			b.Fatal(err)
		}
		size = len(data)
	}
	b.SetBytes(int64(len(img.Pix)))
	b.ReportMetric(float64(size), "bytes/op")
}

func BenchmarkCompress_Alpha0(b *testing.B)  { benchmarkCompress(b, 0) }
func BenchmarkCompress_Alpha8(b *testing.B)  { benchmarkCompress(b, 8) }
func BenchmarkCompress_Alpha32(b *testing.B) { benchmarkCompress(b, 32) }

func BenchmarkDecompress(b *testing.B) {
	data, err := Compress(photoLike(), DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decompress(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	data, err := Compress(photoLike(), DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}
