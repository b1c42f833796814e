// Package plotting renders orientation data into gonum/plot figures. A
// Figure is kept in memory and can be rasterised for preview or written in
// any supported format.
package plotting

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var ErrUnsupportedFormat = errors.New("unsupported figure format")

// Kind identifies the plot a figure was rendered from.
type Kind string

const (
	KindStereogram Kind = "stereogram"
	KindRose       Kind = "rose"
)

// FigureSize is the edge length of the square figures.
const FigureSize = 5 * vg.Inch

// SaveFormats lists the extensions accepted by Save.
var SaveFormats = []string{"png", "jpg", "tif", "svg", "pdf", "eps"}

// Figure is a rendered plot.
type Figure struct {
	Kind   Kind
	Width  vg.Length
	Height vg.Length
	plot   *plot.Plot
}

func newFigure(kind Kind, p *plot.Plot) *Figure {
	return &Figure{Kind: kind, Width: FigureSize, Height: FigureSize, plot: p}
}

// Plot exposes the underlying gonum plot.
func (f *Figure) Plot() *plot.Plot {
	return f.plot
}

func (f *Figure) canvas(dpi int, bg color.Color) *vgimg.Canvas {
	c := vgimg.NewWith(
		vgimg.UseWH(f.Width, f.Height),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(bg),
	)
	f.plot.Draw(draw.New(c))
	return c
}

// DPIForWidth returns the resolution at which the figure is px pixels wide.
func (f *Figure) DPIForWidth(px int) int {
	return int(math.Ceil(float64(px) / float64(f.Width/vg.Inch)))
}

// Image rasterises the figure on a transparent background.
func (f *Figure) Image(dpi int) image.Image {
	return f.canvas(dpi, color.Transparent).Image()
}

// NormalizeFormat maps a file extension or format name to a Save format.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch f {
	case "png", "svg", "pdf", "eps":
		return f, nil
	case "jpg", "jpeg":
		return "jpg", nil
	case "tif", "tiff":
		return "tif", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save writes the figure to w. Raster formats use dpi; vector formats ignore it.
// Formats without alpha are drawn on white.
func (f *Figure) Save(w io.Writer, format string, dpi int) error {
	format, err := NormalizeFormat(format)
	if err != nil {
		return err
	}

	var wt io.WriterTo
	switch format {
	case "png":
		wt = vgimg.PngCanvas{Canvas: f.canvas(dpi, color.Transparent)}
	case "tif":
		wt = vgimg.TiffCanvas{Canvas: f.canvas(dpi, color.Transparent)}
	case "jpg":
		wt = vgimg.JpegCanvas{Canvas: f.canvas(dpi, color.White)}
	default:
		wt, err = f.plot.WriterTo(f.Width, f.Height, format)
		if err != nil {
			return fmt.Errorf("failed to prepare %s writer: %w", format, err)
		}
	}

	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s figure: %w", format, err)
	}
	return nil
}

// SaveFile writes the figure to path in the format given by its extension,
// creating the parent directory and replacing any existing file.
func (f *Figure) SaveFile(path string, dpi int) error {
	format, err := NormalizeFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := f.Save(file, format, dpi); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
