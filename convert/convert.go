// Package convert samples an image onto a character grid.
//
// The image is resampled to one pixel per cell, each pixel's luminance
// is faded by its alpha, and the result picks a character from a
// palette. Convert is a pure function of its inputs: the same image and
// options always produce the same grid.
package convert

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/dialup-inc/asciify/palette"
)

// GlyphAspect compensates for terminal and monospace cells being
// roughly twice as tall as they are wide.
const GlyphAspect = 0.45

// MaxColumns bounds the grid width. The UI keeps it far lower.
const MaxColumns = 1000

// MaxRows bounds the grid height, which follows the image's aspect ratio
// and is otherwise unlimited for tall, thin images.
const MaxRows = 2 * MaxColumns

var (
	ErrNoImage        = errors.New("no image")
	ErrEmptyImage     = errors.New("image has zero width or height")
	ErrColumns        = errors.New("column count out of range")
	ErrDegenerateGrid = errors.New("image is too wide to produce any rows")
	ErrGridTooLarge   = errors.New("image is too tall for the grid")
)

// Options control a single conversion.
type Options struct {
	Columns int
	Palette palette.Palette
	Invert  bool
	// Color records each cell's RGB value in the grid.
	Color bool
	// Scaler defaults to Bilinear when nil.
	Scaler Scaler
}

// Rows returns the number of grid rows for an image of the given size
// rendered at cols columns.
func Rows(cols int, size image.Point) int {
	if size.X <= 0 || size.Y <= 0 {
		return 0
	}
	aspect := float64(size.Y) / float64(size.X)
	return int(math.Round(float64(cols) * aspect * GlyphAspect))
}

// Luminance returns the perceptual brightness of an unpremultiplied
// 8-bit color in [0,255], faded toward black by its alpha.
func Luminance(c color.NRGBA) float64 {
	lum := float64(299*int(c.R)+587*int(c.G)+114*int(c.B)) / 1000
	return lum * float64(c.A) / 255
}

// Convert maps img onto a grid of opts.Columns columns.
func Convert(img image.Image, opts Options) (*Grid, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, ErrEmptyImage
	}
	if opts.Columns < 1 || opts.Columns > MaxColumns {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrColumns, opts.Columns, MaxColumns)
	}
	if err := opts.Palette.Validate(); err != nil {
		return nil, err
	}

	cols := opts.Columns
	rows := Rows(cols, size)
	if rows < 1 {
		return nil, fmt.Errorf("%w: %dx%d at %d columns", ErrDegenerateGrid, size.X, size.Y, cols)
	}
	if rows > MaxRows {
		return nil, fmt.Errorf("%w: %dx%d at %d columns needs %d rows, max %d", ErrGridTooLarge, size.X, size.Y, cols, rows, MaxRows)
	}

	scaler := opts.Scaler
	if scaler == nil {
		scaler = Bilinear
	}
	scaled := scaler.Scale(img, cols, rows)
	origin := scaled.Bounds().Min

	g := &Grid{
		Cols:    cols,
		Rows:    rows,
		Colored: opts.Color,
		Palette: opts.Palette,
		Cells:   make([]Cell, cols*rows),
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px := color.NRGBAModel.Convert(scaled.At(origin.X+x, origin.Y+y)).(color.NRGBA)

			normalized := Luminance(px) / 255
			if opts.Invert {
				normalized = 1 - normalized
			}

			cell := Cell{Char: opts.Palette.Char(normalized)}
			if opts.Color {
				cell.Color = color.RGBA{px.R, px.G, px.B, 0xFF}
			}
			g.Cells[y*cols+x] = cell
		}
	}

	return g, nil
}
