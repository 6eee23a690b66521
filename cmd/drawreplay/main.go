// Command drawreplay renders an encoded drawing stream to an image file.
//
// The stream is read from a file or standard input, decoded, replayed on a
// CPU canvas and flattened to PNG, BMP or TIFF:
//
//	drawreplay --width 1920 --height 1080 -o out.png drawing.flo
//	cat drawing.flo | drawreplay --dump
package main

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/drawstream"
	"github.com/gogpu/drawstream/render"
	"github.com/gogpu/drawstream/wire"
)

func main() {
	var (
		width   = pflag.Int("width", 1920, "canvas width in pixels")
		height  = pflag.Int("height", 1080, "canvas height in pixels")
		output  = pflag.StringP("output", "o", "out.png", "output image file (.png, .bmp or .tiff)")
		dump    = pflag.Bool("dump", false, "print the decoded instructions instead of rendering")
		verbose = pflag.BoolP("verbose", "v", false, "enable debug logging")
	)
	pflag.Parse()

	if *verbose {
		drawstream.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := run(pflag.Args(), *width, *height, *output, *dump); err != nil {
		fmt.Fprintln(os.Stderr, "drawreplay:", err)
		os.Exit(1)
	}
}

func run(args []string, width, height int, output string, dump bool) error {
	stream, err := readStream(args)
	if err != nil {
		return err
	}

	if dump {
		return wire.DecodeEach(string(stream), func(inst drawstream.Instruction) error {
			fmt.Printf("%-18v %+v\n", inst.Op(), inst)
			return nil
		})
	}

	canvas := render.New(width, height)
	if err := wire.DecodeEach(string(stream), func(inst drawstream.Instruction) error {
		canvas.Apply(inst)
		return nil
	}); err != nil {
		return err
	}

	surface := render.NewSurface(width, height)
	canvas.Flatten(surface)
	return writeImage(output, surface)
}

func readStream(args []string) ([]byte, error) {
	switch len(args) {
	case 0:
		return io.ReadAll(os.Stdin)
	case 1:
		return os.ReadFile(args[0])
	default:
		return nil, fmt.Errorf("expected at most one input file, got %d", len(args))
	}
}

func writeImage(path string, surface *render.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var encodeErr error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		encodeErr = bmp.Encode(f, surface.Image())
	case ".tif", ".tiff":
		encodeErr = tiff.Encode(f, surface.Image(), nil)
	case ".png", "":
		encodeErr = png.Encode(f, surface.Image())
	default:
		encodeErr = fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	if encodeErr != nil {
		f.Close()
		return encodeErr
	}
	return f.Close()
}
