package muzip

import (
	"errors"
	"io/fs"

	"github.com/deepteams/muzip/internal/bitio"
	"github.com/deepteams/muzip/internal/blockmatch"
	"github.com/deepteams/muzip/internal/container"
	"github.com/deepteams/muzip/internal/ght"
	"github.com/deepteams/muzip/internal/huffman"
	"github.com/deepteams/muzip/ppm"
	"github.com/deepteams/muzip/raster"
)

// Kind classifies failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig marks invalid parameters or image geometry.
	KindConfig
	// KindFormat marks malformed compressed or image data.
	KindFormat
	// KindIO marks a failing reader, writer, or file.
	KindIO
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindFormat:
		return "format error"
	case KindIO:
		return "I/O error"
	default:
		return "unknown error"
	}
}

// Sentinels matching every *Error of the corresponding kind with errors.Is.
var (
	ErrConfig = errors.New("muzip: configuration error")
	ErrFormat = errors.New("muzip: format error")
	ErrIO     = errors.New("muzip: I/O error")
)

// Error is returned by every operation of this package.
type Error struct {
	Kind Kind
	Op   string // "compress", "decompress", "encode", "decode", "inspect"
	Err  error
}

func (e *Error) Error() string {
	return "muzip: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfig:
		return e.Kind == KindConfig
	case ErrFormat:
		return e.Kind == KindFormat
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

func newError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var me *Error
	if errors.As(err, &me) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

var (
	configErrors = []error{
		raster.ErrBlockSize, raster.ErrDimensions, ght.ErrEmpty,
		blockmatch.ErrAlpha, container.ErrTooLarge,
	}
	formatErrors = []error{
		ppm.ErrFormat, ppm.ErrTruncated,
		container.ErrTruncated, container.ErrGeometry, container.ErrPalette,
		bitio.ErrTruncated, bitio.ErrWidth,
		huffman.ErrInvalidTable, huffman.ErrTruncatedCode, huffman.ErrInvalidCode,
		blockmatch.ErrIndexRange, blockmatch.ErrIndexCount, blockmatch.ErrPaletteSize,
	}
)

// KindOf classifies err. Errors from this package carry their kind; other
// errors are classified by the sentinels of the packages in this module,
// and file system errors count as I/O errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	switch {
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrFormat):
		return KindFormat
	case errors.Is(err, ErrIO):
		return KindIO
	}
	for _, e := range configErrors {
		if errors.Is(err, e) {
			return KindConfig
		}
	}
	for _, e := range formatErrors {
		if errors.Is(err, e) {
			return KindFormat
		}
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return KindIO
	}
	return KindUnknown
}
