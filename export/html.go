package export

import (
	"fmt"
	"html/template"
	"image/color"
	"io"

	"github.com/dialup-inc/asciify/convert"
)

// DefaultFontSize matches the initial on-screen size.
const DefaultFontSize = 4

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: {{.Background}}; margin: 0; padding: 24px; }
.ascii { font-family: monospace; white-space: pre; line-height: 1; color: {{.Accent}}; font-size: {{.FontSize}}px; }
.ascii div { height: {{.LineHeight}}px; }
</style>
</head>
<body>
{{- if .Colored}}
<div class="ascii" style="letter-spacing: 0.05em">
{{- range .Lines}}
<div>{{range .}}<span style="color: {{.Color}}">{{.Char}}</span>{{end}}</div>
{{- end}}
</div>
{{- else}}
<pre class="ascii">{{.Text}}</pre>
{{- end}}
</body>
</html>
`))

type htmlCell struct {
	Char  string
	Color template.CSS
}

type htmlPage struct {
	Title      string
	Background template.CSS
	Accent     template.CSS
	FontSize   float64
	LineHeight float64
	Colored    bool
	Text       string
	Lines      [][]htmlCell
}

func cssRGB(c color.RGBA) template.CSS {
	return template.CSS(fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B))
}

// WriteHTML writes a standalone page showing the grid the way it looks
// on screen: a plain block in the accent color, or one span per cell
// in color mode.
func WriteHTML(w io.Writer, g *convert.Grid, opts Options) error {
	if g.Empty() {
		return ErrEmptyGrid
	}
	size := opts.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}

	p := htmlPage{
		Title:      opts.Title,
		Background: cssRGB(Background),
		Accent:     cssRGB(Accent),
		FontSize:   size,
		LineHeight: size * 1.2,
		Colored:    g.Colored,
	}
	if p.Title == "" {
		p.Title = "ascii"
	}

	if g.Colored {
		p.Lines = make([][]htmlCell, g.Rows)
		for y := range p.Lines {
			row := make([]htmlCell, g.Cols)
			for x, cell := range g.Row(y) {
				row[x] = htmlCell{Char: string(cell.Char), Color: cssRGB(g.ColorAt(x, y, Accent))}
			}
			p.Lines[y] = row
		}
	} else {
		p.Text = Text(g)
	}

	return page.Execute(w, p)
}
