package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func sampleFile() *File {
	pal := make([]byte, 2*2*2*3) // two 2x2 blocks
	for i := range pal {
		pal[i] = byte(i)
	}
	return &File{
		Indices:  []byte{9, 8, 7},
		Geometry: Geometry{BlockHeight: 2, BlockWidth: 2, Width: 4, Height: 2},
		Palette:  pal,
	}
}

func TestMarshal_Layout(t *testing.T) {
	f := sampleFile()
	data, err := Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != f.Size() {
		t.Fatalf("len = %d, want %d", len(data), f.Size())
	}
	if got := binary.LittleEndian.Uint32(data[0:4]); got != 3 {
		t.Errorf("blob size field = %d, want 3", got)
	}
	if !bytes.Equal(data[4:7], f.Indices) {
		t.Errorf("blob = %v", data[4:7])
	}
	want := []uint32{2, 2, 4, 2}
	for i, w := range want {
		if got := binary.LittleEndian.Uint32(data[7+4*i:]); got != w {
			t.Errorf("geometry field %d = %d, want %d", i, got, w)
		}
	}
	if !bytes.Equal(data[23:], f.Palette) {
		t.Error("palette bytes differ")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	f := sampleFile()
	data, err := Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Indices, f.Indices) || got.Geometry != f.Geometry || !bytes.Equal(got.Palette, f.Palette) {
		t.Errorf("Parse = %+v, want %+v", got, f)
	}
	if got.PaletteLen() != 2 || got.BlockCount() != 2 {
		t.Errorf("PaletteLen/BlockCount = %d/%d, want 2/2", got.PaletteLen(), got.BlockCount())
	}
}

func TestParse_Errors(t *testing.T) {
	good, err := Marshal(sampleFile())
	if err != nil {
		t.Fatal(err)
	}
	patch := func(off int, v uint32) []byte {
		b := bytes.Clone(good)
		binary.LittleEndian.PutUint32(b[off:], v)
		return b
	}
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short header", good[:10], ErrTruncated},
		{"blob size past end", patch(0, 1000), ErrTruncated},
		{"zero p", patch(7, 0), ErrGeometry},
		{"zero width", patch(15, 0), ErrGeometry},
		{"indivisible width", patch(15, 5), ErrGeometry},
		{"huge height", patch(19, MaxDimension*2), ErrGeometry},
		{"palette remainder", good[:len(good)-1], ErrPalette},
		{"no palette", good[:23], ErrPalette},
		{"too many entries", append(bytes.Clone(good), make([]byte, 12)...), ErrPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMarshal_Rejects(t *testing.T) {
	f := sampleFile()
	f.Width = 3
	if _, err := Marshal(f); !errors.Is(err, ErrGeometry) {
		t.Errorf("error = %v, want ErrGeometry", err)
	}
	f = sampleFile()
	f.Palette = f.Palette[:5]
	if _, err := Marshal(f); !errors.Is(err, ErrPalette) {
		t.Errorf("error = %v, want ErrPalette", err)
	}
}
