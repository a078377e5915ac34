// Package container reads and writes the compressed-file layout: a
// length-prefixed Huffman blob for the block indices, the block and image
// geometry, then the raw palette. All integers are little-endian u32.
package container

// Layout sizes. The file starts with the u32 index blob size and the blob is
// followed by u32 p, q, width and height.
const (
	LengthFieldSize = 4
	GeometrySize    = 16
	MinFileSize     = LengthFieldSize + GeometrySize
	BytesPerPixel   = 3

	// MaxDimension bounds the image width and height.
	MaxDimension = 1 << 16
	// MaxBlobSize is the largest index blob the length field can describe.
	MaxBlobSize = 1<<32 - 1
)
