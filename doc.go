// Package muzip implements a lossy block-deduplicating image codec.
//
// An image is cut into fixed-size blocks. Each block is either kept as a new
// palette entry or replaced by the index of an earlier entry that is closer
// than a threshold, found with a metric tree. The block index stream is
// Huffman coded and stored together with the raw palette.
//
// The package supports:
//   - Compression of any image.Image or raw RGB raster
//   - Exact decompression of the stored blocks
//   - Header inspection without decoding pixels
//
// With Alpha set to zero no blocks are merged and the round trip is exact.
//
// Basic usage for compressing:
//
//	err := muzip.Encode(writer, img, &muzip.Options{Alpha: 8})
//
// Basic usage for decompressing:
//
//	img, err := muzip.Decode(reader)
package muzip
