package export

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialup-inc/asciify/convert"
	"github.com/dialup-inc/asciify/palette"
)

func testGrid(cols, rows int, colored bool) *convert.Grid {
	g := &convert.Grid{
		Cols:    cols,
		Rows:    rows,
		Colored: colored,
		Palette: palette.Blocks,
		Cells:   make([]convert.Cell, cols*rows),
	}
	for i := range g.Cells {
		g.Cells[i] = convert.Cell{
			Char:  palette.Blocks.Chars[i%palette.Blocks.Len()],
			Color: color.RGBA{uint8(i * 10), 0x40, 0x80, 0xFF},
		}
	}
	return g
}

func TestTextShape(t *testing.T) {
	g := testGrid(7, 3, false)

	text := Text(g)
	assert.True(t, strings.HasSuffix(text, "\n"))

	lines := strings.Split(text, "\n")
	require.Equal(t, "", lines[len(lines)-1])
	lines = lines[:len(lines)-1]

	require.Len(t, lines, g.Rows)
	for y, line := range lines {
		assert.Equal(t, g.Cols, len([]rune(line)), "row %d", y)
	}
	assert.Equal(t, " ░▒▓█ ░", lines[0])
}

func TestEmptyGrid(t *testing.T) {
	for _, g := range []*convert.Grid{nil, {}, {Cols: 3, Rows: 2}} {
		for _, f := range []Format{FormatText, FormatANSI, FormatPNG, FormatHTML} {
			var buf bytes.Buffer
			err := Render(&buf, f, g, Options{})
			assert.ErrorIs(t, err, ErrEmptyGrid, f)
			assert.Zero(t, buf.Len(), f)
		}
	}
	assert.Equal(t, "", Text(nil))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "cat-ascii.txt", FileName("cat.png", FormatText))
	assert.Equal(t, "my-ascii.png", FileName("my.holiday.jpeg", FormatPNG))
	assert.Equal(t, "image-ascii.html", FileName("", FormatHTML))
}

func TestParseFormat(t *testing.T) {
	for in, expected := range map[string]Format{
		"txt": FormatText, "text": FormatText, "png": FormatPNG,
		"html": FormatHTML, "ansi": FormatANSI, "ans": FormatANSI,
	} {
		f, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, f)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestANSI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteANSI(&buf, testGrid(4, 2, false)))
	out := buf.String()

	// one color switch per row in mono mode
	assert.Equal(t, 2, strings.Count(out, "\x1b[38;2;161;232;154m"))
	assert.Equal(t, 2, strings.Count(out, "\n"))

	buf.Reset()
	require.NoError(t, WriteANSI(&buf, testGrid(4, 2, true)))
	assert.Contains(t, buf.String(), "\x1b[38;2;10;64;128m")
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, testGrid(3, 2, false), Options{FontSize: 6.5, Title: "cat.png"}))
	out := buf.String()
	assert.Contains(t, out, "<title>cat.png</title>")
	assert.Contains(t, out, "<pre class=\"ascii\">")
	assert.Contains(t, out, "font-size: 6.5px")
	assert.Contains(t, out, "color: rgb(161,232,154)")
	assert.NotContains(t, out, "<span")

	buf.Reset()
	require.NoError(t, WriteHTML(&buf, testGrid(3, 2, true), Options{}))
	out = buf.String()
	assert.Equal(t, 6, strings.Count(out, "<span"))
	assert.Contains(t, out, "<span style=\"color: rgb(20,64,128)\">▒</span>")
	assert.Contains(t, out, "font-size: 4px")
}

func TestPNG(t *testing.T) {
	g := testGrid(10, 4, true)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, g))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 10*CellWidth, img.Bounds().Dx())
	assert.Equal(t, 4*CellHeight, img.Bounds().Dy())

	// cell 0 is a space and stays background
	r, gr, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, [3]uint32{0x08, 0x08, 0x0A}, [3]uint32{r >> 8, gr >> 8, b >> 8})

	// a full block leaves ink in its cell
	full, err := Rasterize(testGrid(5, 1, false))
	require.NoError(t, err)
	var inked bool
	for y := 0; y < CellHeight; y++ {
		for x := 4 * CellWidth; x < 5*CellWidth; x++ {
			if full.RGBAAt(x, y) != Background {
				inked = true
			}
		}
	}
	assert.True(t, inked)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	path, err := Save(dir, "cat.png", FormatText, testGrid(2, 2, false), Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat-ascii.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, " ░\n▒▓\n", string(data))

	_, err = Save(dir, "dog.png", FormatPNG, nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyGrid)
	_, err = os.Stat(filepath.Join(dir, "dog-ascii.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
