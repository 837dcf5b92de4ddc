package viz

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
)

// Format is an image format Render can produce.
type Format string

// Supported image formats.
const (
	SVG Format = "svg"
	PNG Format = "png"
	JPG Format = "jpg"
)

// FormatFromPath picks the image format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPG, nil
	default:
		return "", fmt.Errorf("viz: unsupported image format %q", ext)
	}
}

// Render lays out t with Graphviz's dot engine and writes the image to w.
func Render(ctx context.Context, w io.Writer, t *Trace, opts DOTOptions, format Format) error {
	src, err := MarshalDOT(t, opts)
	if err != nil {
		return err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("viz: start graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(src)
	if err != nil {
		return fmt.Errorf("viz: parse diagram: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, graphviz.Format(format), w); err != nil {
		return fmt.Errorf("viz: render %s: %w", format, err)
	}
	return nil
}

// RenderFile renders t into path, choosing the format from its extension.
func RenderFile(ctx context.Context, path string, t *Trace, opts DOTOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	if err := Render(ctx, f, t, opts, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
