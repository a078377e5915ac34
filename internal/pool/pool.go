// Package pool provides size-classed sync.Pool instances of bytes.Buffer used
// as serialization scratch space. Buffers are organized by capacity so a
// large blob does not pin a small request to an oversized allocation.
package pool

import (
	"bytes"
	"sync"
)

// Size classes for bucketed pools.
const (
	Size1K   = 1024
	Size16K  = 16384
	Size256K = 262144
	Size4M   = 4194304
)

// maxRetained is the largest capacity returned to a pool. Bigger buffers are
// left to the garbage collector.
const maxRetained = 64 << 20

var sizes = [4]int{Size1K, Size16K, Size256K, Size4M}

var pools [4]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, sz))
			},
		}
	}
}

// bucketIndex returns the pool index for a given size.
func bucketIndex(size int) int {
	switch {
	case size <= Size1K:
		return 0
	case size <= Size16K:
		return 1
	case size <= Size256K:
		return 2
	default:
		return 3
	}
}

// GetBuffer returns an empty buffer able to hold at least sizeHint bytes
// without growing. The caller must call PutBuffer when done and must not keep
// references to the buffer's bytes afterwards.
func GetBuffer(sizeHint int) *bytes.Buffer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	b := pools[bucketIndex(sizeHint)].Get().(*bytes.Buffer)
	b.Reset()
	b.Grow(sizeHint)
	return b
}

// PutBuffer returns b to the pool matching its capacity. A nil buffer, or
// one that grew past maxRetained, is dropped.
func PutBuffer(b *bytes.Buffer) {
	if b == nil {
		return
	}
	c := b.Cap()
	if c > maxRetained {
		return
	}
	b.Reset()
	pools[bucketIndex(c)].Put(b)
}

// Detach copies the contents of b into a freshly allocated slice and returns
// b to the pool.
func Detach(b *bytes.Buffer) []byte {
	out := bytes.Clone(b.Bytes())
	if out == nil {
		out = []byte{}
	}
	PutBuffer(b)
	return out
}
