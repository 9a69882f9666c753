package convert

import (
	"image/color"
	"strings"

	"github.com/dialup-inc/asciify/palette"
)

// A Cell is one character of the grid. Color is only meaningful when
// the grid is Colored.
type Cell struct {
	Char  rune
	Color color.RGBA
}

// Grid is the output of one mapping pass. Cells are stored row-major.
// A Grid is never modified after Convert returns it.
type Grid struct {
	Cols    int
	Rows    int
	Colored bool
	Palette palette.Palette
	Cells   []Cell
}

// Empty reports whether g has no cells to render.
func (g *Grid) Empty() bool {
	return g == nil || g.Cols == 0 || g.Rows == 0 || len(g.Cells) < g.Cols*g.Rows
}

// At returns the cell in column x of row y.
func (g *Grid) At(x, y int) Cell {
	return g.Cells[y*g.Cols+x]
}

// Row returns the cells of row y. The slice aliases the grid.
func (g *Grid) Row(y int) []Cell {
	return g.Cells[y*g.Cols : (y+1)*g.Cols]
}

// Lines returns each row as a string, without line terminators.
func (g *Grid) Lines() []string {
	if g.Empty() {
		return nil
	}
	lines := make([]string, g.Rows)
	var sb strings.Builder
	for y := 0; y < g.Rows; y++ {
		sb.Reset()
		for _, c := range g.Row(y) {
			sb.WriteRune(c.Char)
		}
		lines[y] = sb.String()
	}
	return lines
}

// ColorAt returns the display color of a cell, or fallback when the
// grid carries no color.
func (g *Grid) ColorAt(x, y int, fallback color.RGBA) color.RGBA {
	if !g.Colored {
		return fallback
	}
	return g.At(x, y).Color
}
