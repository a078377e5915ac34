// Command muzip compresses images into the muzip block format and back.
//
// Usage:
//
//	muzip [options] <input> [output [p [q [alpha]]]]   compress, or decompress a .mz input
//	muzip info <input.mz>                              display file metadata
//
// Inputs may be PPM, PNG, JPEG, GIF, BMP, TIFF or WebP. A .mz input is
// decompressed to <input>.ppm unless an output path is given; any other input
// is compressed to <input>.mz.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/deepteams/muzip"
	"github.com/deepteams/muzip/ppm"
	"github.com/deepteams/muzip/raster"
)

// Exit statuses.
const (
	exitUsage  = 1
	exitConfig = 2
	exitFormat = 3
	exitIO     = 4
)

// compressedExt marks compressed files.
const compressedExt = ".mz"

// usageError reports bad command-line arguments.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		printUsage()
		os.Exit(exitUsage)
	}

	var err error
	switch args[0] {
	case "info":
		err = runInfo(args[1:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		err = run(args)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "muzip: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  muzip [options] <input> [output [p [q [alpha]]]]
  muzip info <input.mz>

A %s input is decompressed, anything else is compressed.

Options:
  -o path     output path (default: input with its extension replaced)
  -p n        block height in pixels (default %d)
  -q n        block width in pixels (default %d)
  -alpha a    merge threshold, mean channel difference 0-255 (default %g)
  -d          decompress regardless of the input extension
  -crop       crop the input to a multiple of the block size
  -v          print compression statistics
`, compressedExt, muzip.DefaultBlockSize, muzip.DefaultBlockSize, muzip.DefaultAlpha)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	switch muzip.KindOf(err) {
	case muzip.KindConfig:
		return exitConfig
	case muzip.KindFormat:
		return exitFormat
	case muzip.KindIO:
		return exitIO
	}
	if errors.Is(err, image.ErrFormat) || errors.Is(err, imaging.ErrUnsupportedFormat) {
		return exitFormat
	}
	return exitUsage
}

type config struct {
	input, output string
	p, q          int
	alpha         float64
	decompress    bool
	crop          bool
	verbose       bool
}

func parseArgs(args []string) (*config, error) {
	fs := flag.NewFlagSet("muzip", flag.ContinueOnError)
	fs.Usage = printUsage
	cfg := &config{}
	fs.StringVar(&cfg.output, "o", "", "output path")
	fs.IntVar(&cfg.p, "p", muzip.DefaultBlockSize, "block height")
	fs.IntVar(&cfg.q, "q", muzip.DefaultBlockSize, "block width")
	fs.Float64Var(&cfg.alpha, "alpha", muzip.DefaultAlpha, "merge threshold")
	fs.BoolVar(&cfg.decompress, "d", false, "force decompression")
	fs.BoolVar(&cfg.crop, "crop", false, "crop to a multiple of the block size")
	fs.BoolVar(&cfg.verbose, "v", false, "print statistics")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, &usageError{msg: err.Error()}
	}
	pos := fs.Args()
	if len(pos) < 1 {
		return nil, usagef("missing input file")
	}
	if len(pos) > 5 {
		return nil, usagef("too many arguments")
	}
	cfg.input = pos[0]
	if len(pos) > 1 {
		cfg.output = pos[1]
	}
	var err error
	if len(pos) > 2 {
		if cfg.p, err = strconv.Atoi(pos[2]); err != nil {
			return nil, usagef("invalid block height %q", pos[2])
		}
	}
	if len(pos) > 3 {
		if cfg.q, err = strconv.Atoi(pos[3]); err != nil {
			return nil, usagef("invalid block width %q", pos[3])
		}
	}
	if len(pos) > 4 {
		if cfg.alpha, err = strconv.ParseFloat(pos[4], 64); err != nil {
			return nil, usagef("invalid alpha %q", pos[4])
		}
	}
	if cfg.p <= 0 || cfg.q <= 0 {
		return nil, usagef("block size must be positive, got %dx%d", cfg.p, cfg.q)
	}

	if strings.EqualFold(filepath.Ext(cfg.input), compressedExt) {
		cfg.decompress = true
	}
	if cfg.output == "" {
		ext := compressedExt
		if cfg.decompress {
			ext = ".ppm"
		}
		cfg.output = strings.TrimSuffix(cfg.input, filepath.Ext(cfg.input)) + ext
	}
	if cfg.output == cfg.input {
		return nil, usagef("output %s would overwrite the input", cfg.output)
	}
	return cfg, nil
}

func run(args []string) error {
	cfg, err := parseArgs(args)
	if err != nil {
		return err
	}
	if cfg.decompress {
		return decompressFile(cfg)
	}
	return compressFile(cfg)
}

// --- compress ---

func compressFile(cfg *config) error {
	src, err := imaging.Open(cfg.input, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.input, err)
	}
	if cfg.crop {
		b := src.Bounds()
		w, h := b.Dx()-b.Dx()%cfg.q, b.Dy()-b.Dy()%cfg.p
		if w == 0 || h == 0 {
			return fmt.Errorf("cannot crop a %dx%d image to %dx%d blocks: %w", b.Dx(), b.Dy(), cfg.p, cfg.q, muzip.ErrConfig)
		}
		if w != b.Dx() || h != b.Dy() {
			src = imaging.CropAnchor(src, w, h, imaging.Center)
		}
	}
	img := raster.FromImage(src)

	data, stats, err := muzip.CompressStats(img, &muzip.Options{
		BlockHeight: cfg.p,
		BlockWidth:  cfg.q,
		Alpha:       cfg.alpha,
	})
	if err != nil {
		return err
	}
	if err := writeFile(cfg.output, data); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Compressed %s → %s (%d bytes)\n", cfg.input, cfg.output, len(data))
	if cfg.verbose {
		raw := len(img.Pix)
		fmt.Fprintf(os.Stderr, "Image:      %d x %d, %d blocks of %d x %d\n", img.Width, img.Height, stats.Blocks, cfg.p, cfg.q)
		fmt.Fprintf(os.Stderr, "Palette:    %d blocks (%d merged)\n", stats.PaletteSize, stats.Merged)
		fmt.Fprintf(os.Stderr, "Tree depth: %d\n", stats.TreeDepth)
		fmt.Fprintf(os.Stderr, "Indices:    %d bytes\n", stats.IndexBytes)
		fmt.Fprintf(os.Stderr, "Ratio:      %.2f:1\n", float64(raw)/float64(stats.Size))
	}
	return nil
}

// writeFile writes data to path, removing the file if writing fails.
func writeFile(path string, data []byte) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// --- decompress ---

func decompressFile(cfg *config) error {
	data, err := os.ReadFile(cfg.input)
	if err != nil {
		return err
	}
	img, err := muzip.Decompress(data)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(cfg.output), ".ppm") {
		if err := savePPM(cfg.output, img); err != nil {
			return err
		}
	} else {
		if _, err := imaging.FormatFromFilename(cfg.output); err != nil {
			return usagef("unsupported output format %q", filepath.Ext(cfg.output))
		}
		if err := imaging.Save(img, cfg.output); err != nil {
			os.Remove(cfg.output)
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Decompressed %s → %s (%d x %d)\n", cfg.input, cfg.output, img.Width, img.Height)
	return nil
}

func savePPM(path string, img *raster.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ppm.Encode(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return usagef("info: missing input file\nUsage: muzip info <input.mz>")
	}
	inputPath := args[0]
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	info, err := muzip.Inspect(data)
	if err != nil {
		return err
	}

	fmt.Printf("File:       %s\n", inputPath)
	fmt.Printf("Dimensions: %d x %d\n", info.Width, info.Height)
	fmt.Printf("Block size: %d x %d\n", info.BlockHeight, info.BlockWidth)
	fmt.Printf("Blocks:     %d\n", info.Blocks)
	fmt.Printf("Palette:    %d blocks\n", info.PaletteSize)
	fmt.Printf("Indices:    %d bytes, %d distinct\n", info.IndexBytes, info.Alphabet)
	fmt.Printf("File size:  %d bytes\n", info.Size)
	return nil
}
