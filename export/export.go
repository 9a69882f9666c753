// Package export turns a character grid into text, colored terminal
// output, HTML and PNG files.
package export

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/dialup-inc/asciify/convert"
	"github.com/dialup-inc/asciify/source"
	"github.com/dialup-inc/asciify/term"
)

// ErrEmptyGrid is returned instead of writing an empty artifact.
var ErrEmptyGrid = errors.New("nothing to export")

var (
	// Accent colors glyphs when the grid carries no color.
	Accent = color.RGBA{0xA1, 0xE8, 0x9A, 0xFF}
	// Background fills rasterized exports.
	Background = color.RGBA{0x08, 0x08, 0x0A, 0xFF}
)

// Text returns the grid as lines, each terminated by a newline.
func Text(g *convert.Grid) string {
	var buf bytes.Buffer
	WriteText(&buf, g)
	return buf.String()
}

// WriteText writes each row of g followed by a newline.
func WriteText(w io.Writer, g *convert.Grid) error {
	if g.Empty() {
		return ErrEmptyGrid
	}
	bw := bufio.NewWriter(w)
	for _, line := range g.Lines() {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteANSI writes the grid with a 24-bit foreground color per cell,
// only switching color when it changes.
func WriteANSI(w io.Writer, g *convert.Grid) error {
	if g.Empty() {
		return ErrEmptyGrid
	}
	bw := bufio.NewWriter(w)
	a := term.ANSI{W: bw}

	for y := 0; y < g.Rows; y++ {
		var current color.RGBA
		for x, cell := range g.Row(y) {
			c := g.ColorAt(x, y, Accent)
			if x == 0 || c != current {
				a.Foreground(c)
				current = c
			}
			bw.WriteRune(cell.Char)
		}
		a.Reset()
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Format names an export file type.
type Format string

const (
	FormatText Format = "txt"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
	FormatANSI Format = "ans"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatPNG, FormatHTML, FormatANSI:
		return f, nil
	case "text":
		return FormatText, nil
	case "ansi":
		return FormatANSI, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FileName builds the download name for an export of original.
func FileName(original string, f Format) string {
	return source.Stem(original) + "-ascii." + string(f)
}

// Options carries the settings that affect exported files but not the grid.
type Options struct {
	// FontSize is the on-screen font size in px used by HTML exports.
	FontSize float64
	Title    string
}

// Render writes g to w in format f.
func Render(w io.Writer, f Format, g *convert.Grid, opts Options) error {
	switch f {
	case FormatText:
		return WriteText(w, g)
	case FormatANSI:
		return WriteANSI(w, g)
	case FormatPNG:
		return WritePNG(w, g)
	case FormatHTML:
		return WriteHTML(w, g, opts)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// Save renders g into dir under the name derived from original and
// returns the path written. Nothing is written if rendering fails.
func Save(dir, original string, f Format, g *convert.Grid, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, f, g, opts); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(original, f))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
