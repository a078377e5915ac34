package bitio

import (
	"encoding/binary"
	"fmt"
)

// Width is the one-byte selector that prefixes variable-width unsigned
// integers in the serialized format.
type Width uint8

const (
	WidthByte  Width = 0 // value stored as u8
	WidthWord  Width = 1 // value stored as u16
	WidthDword Width = 2 // value stored as u32
)

// WidthFor returns the narrowest width able to hold v.
func WidthFor(v uint32) Width {
	switch {
	case v <= 0xff:
		return WidthByte
	case v <= 0xffff:
		return WidthWord
	default:
		return WidthDword
	}
}

// Valid reports whether w is a known selector.
func (w Width) Valid() bool { return w <= WidthDword }

// Size returns the number of bytes used by a value of width w.
func (w Width) Size() int {
	switch w {
	case WidthByte:
		return 1
	case WidthWord:
		return 2
	default:
		return 4
	}
}

// String returns a human-readable width name.
func (w Width) String() string {
	switch w {
	case WidthByte:
		return "byte"
	case WidthWord:
		return "word"
	case WidthDword:
		return "dword"
	default:
		return fmt.Sprintf("Width(%d)", uint8(w))
	}
}

// AppendUint appends v to dst as a little-endian integer of width w. The
// value is truncated to the width, so callers pick w with WidthFor.
func AppendUint(dst []byte, w Width, v uint32) []byte {
	switch w {
	case WidthByte:
		return append(dst, byte(v))
	case WidthWord:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	default:
		return binary.LittleEndian.AppendUint32(dst, v)
	}
}

// AppendCount appends the selector for n followed by n itself.
func AppendCount(dst []byte, n uint32) []byte {
	w := WidthFor(n)
	dst = append(dst, byte(w))
	return AppendUint(dst, w, n)
}
