package export

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dialup-inc/asciify/convert"
)

// Every glyph occupies a fixed cell in rasterized exports.
const (
	CellWidth  = 6
	CellHeight = 8
)

var (
	faceOnce sync.Once
	face     font.Face
	faceErr  error

	// opentype faces keep scratch buffers and can't draw concurrently
	drawMu sync.Mutex
)

func glyphFace() (font.Face, error) {
	faceOnce.Do(func() {
		var f *opentype.Font
		f, faceErr = opentype.Parse(gomono.TTF)
		if faceErr != nil {
			return
		}
		face, faceErr = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    CellHeight,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return face, faceErr
}

// Rasterize draws the grid onto a new image, one CellWidth x CellHeight
// cell per character.
func Rasterize(g *convert.Grid) (*image.RGBA, error) {
	if g.Empty() {
		return nil, ErrEmptyGrid
	}
	face, err := glyphFace()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, g.Cols*CellWidth, g.Rows*CellHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{Background}, image.Point{}, draw.Src)

	drawMu.Lock()
	defer drawMu.Unlock()

	// glyphs hang from the top of the cell, like a canvas with textBaseline "top"
	ascent := face.Metrics().Ascent
	d := &font.Drawer{Dst: img, Face: face}

	for y := 0; y < g.Rows; y++ {
		for x, cell := range g.Row(y) {
			if cell.Char == ' ' {
				continue
			}
			d.Src = image.NewUniform(g.ColorAt(x, y, Accent))
			d.Dot = fixed.Point26_6{
				X: fixed.I(x * CellWidth),
				Y: fixed.I(y*CellHeight) + ascent,
			}
			d.DrawString(string(cell.Char))
		}
	}

	return img, nil
}

// WritePNG encodes the rasterized grid as a PNG.
func WritePNG(w io.Writer, g *convert.Grid) error {
	img, err := Rasterize(g)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
