package bitio

import (
	"math/rand"
	"testing"
)

func randomBits(rng *rand.Rand, n int) Bits {
	var b Bits
	for i := 0; i < n; i++ {
		b.AppendBit(rng.Intn(2) == 1)
	}
	return b
}

func TestParseBits_String(t *testing.T) {
	for _, s := range []string{"", "0", "1", "0110", "10110011", "101100111"} {
		b, err := ParseBits(s)
		if err != nil {
			t.Fatalf("ParseBits(%q): %v", s, err)
		}
		if b.Len() != len(s) {
			t.Errorf("ParseBits(%q).Len() = %d, want %d", s, b.Len(), len(s))
		}
		if got := b.String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
	if _, err := ParseBits("01x"); err != ErrBitString {
		t.Errorf("ParseBits(\"01x\") error = %v, want ErrBitString", err)
	}
}

func TestBits_PackingIsMSBFirst(t *testing.T) {
	b := MustParseBits("101")
	if got := b.Bytes(); len(got) != 1 || got[0] != 0xA0 {
		t.Fatalf("Bytes() = %x, want a0", got)
	}
	b = MustParseBits("111111110000000011")
	want := []byte{0xFF, 0x00, 0xC0}
	got := b.Bytes()
	if len(got) != len(want) {
		t.Fatalf("len(Bytes()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %02x, want %02x", i, got[i], want[i])
		}
	}
}

func TestFromBytes_ClearsPadding(t *testing.T) {
	b := FromBytes([]byte{0xFF}, 3)
	if b.Bytes()[0] != 0xE0 {
		t.Errorf("padding not cleared: %02x", b.Bytes()[0])
	}
	if !b.Equal(MustParseBits("111")) {
		t.Errorf("FromBytes = %s, want 111", b)
	}
}

func TestBits_Append(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, split := range [][2]int{{0, 0}, {0, 5}, {8, 3}, {3, 8}, {5, 13}, {16, 16}} {
		a := randomBits(rng, split[0])
		c := randomBits(rng, split[1])
		joined := a.Clone()
		joined.Append(c)
		want := a.String() + c.String()
		if got := joined.String(); got != want {
			t.Errorf("Append(%d,%d) = %s, want %s", split[0], split[1], got, want)
		}
	}
}

func TestBits_EqualAndPrefix(t *testing.T) {
	a := MustParseBits("1011")
	b := MustParseBits("1011")
	c := MustParseBits("10110")
	if !a.Equal(b) {
		t.Error("equal sequences reported unequal")
	}
	if a.Equal(c) {
		t.Error("sequences of different length reported equal")
	}
	if !c.HasPrefix(a) {
		t.Error("1011 should be a prefix of 10110")
	}
	if a.HasPrefix(c) {
		t.Error("a longer sequence cannot be a prefix")
	}
	if !a.HasPrefix(Bits{}) {
		t.Error("empty sequence is a prefix of everything")
	}
}

func TestBits_CloneIsIndependent(t *testing.T) {
	a := MustParseBits("101")
	b := a.Clone()
	b.AppendBit(true)
	a.AppendBit(false)
	if got := b.String(); got != "1011" {
		t.Errorf("clone = %s, want 1011", got)
	}
	if got := a.String(); got != "1010" {
		t.Errorf("original = %s, want 1010", got)
	}
}

func TestWidthFor(t *testing.T) {
	tests := []struct {
		v    uint32
		want Width
	}{
		{0, WidthByte},
		{255, WidthByte},
		{256, WidthWord},
		{65535, WidthWord},
		{65536, WidthDword},
		{1<<32 - 1, WidthDword},
	}
	for _, tt := range tests {
		if got := WidthFor(tt.v); got != tt.want {
			t.Errorf("WidthFor(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestAppendCount_Layout(t *testing.T) {
	tests := []struct {
		n    uint32
		want []byte
	}{
		{7, []byte{0, 7}},
		{300, []byte{1, 0x2c, 0x01}},
		{70000, []byte{2, 0x70, 0x11, 0x01, 0x00}},
	}
	for _, tt := range tests {
		got := AppendCount(nil, tt.n)
		if string(got) != string(tt.want) {
			t.Errorf("AppendCount(%d) = %x, want %x", tt.n, got, tt.want)
		}
		c := NewCursor(got)
		v, err := c.Count()
		if err != nil || v != tt.n {
			t.Errorf("Count() = %d, %v; want %d", v, err, tt.n)
		}
	}
}
