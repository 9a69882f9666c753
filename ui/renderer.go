package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dialup-inc/asciify/export"
	"github.com/dialup-inc/asciify/term"
)

const statusHeight = 2

var (
	barBackground = color.RGBA{0x12, 0x12, 0x12, 0xFF}
	logBackground = color.RGBA{0x22, 0x22, 0x22, 0xFF}
	dimText       = color.RGBA{0x99, 0x99, 0x99, 0xFF}
	errorText     = color.RGBA{0xFF, 0x55, 0x55, 0xFF}
)

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:          out,
		requestFrame: make(chan struct{}),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		state:        NewState(),
	}
}

type Renderer struct {
	out io.Writer

	requestFrame chan struct{}
	stop         chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	started      bool

	stateMu sync.Mutex
	state   State

	start time.Time
}

func (r *Renderer) GetState() State {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()

	return r.state
}

func (r *Renderer) Dispatch(e Event) {
	r.stateMu.Lock()
	newState := StateReducer(r.state, e)
	var changed bool
	if !reflect.DeepEqual(r.state, newState) {
		changed = true
	}
	r.state = newState
	r.stateMu.Unlock()

	if changed {
		r.RequestFrame()
	}
}

func (r *Renderer) RequestFrame() {
	select {
	case r.requestFrame <- struct{}{}:
	default:
	}
}

// drawGrid writes the visible part of the grid, centered when it is
// narrower than the window.
func (r *Renderer) drawGrid(buf *bytes.Buffer, s State) {
	a := term.ANSI{W: buf}
	g := s.Grid

	viewRows := s.WinSize.Rows - statusHeight
	if g.Empty() || viewRows <= 0 || s.WinSize.Cols <= 0 {
		return
	}

	cols, rows := g.Cols, g.Rows
	if cols > s.WinSize.Cols {
		cols = s.WinSize.Cols
	}
	if rows > viewRows {
		rows = viewRows
	}
	left := (s.WinSize.Cols-cols)/2 + 1
	top := (viewRows-rows)/2 + 1

	a.Normal()
	a.Background(color.Black)

	for y := 0; y < rows; y++ {
		a.CursorPosition(top+y, left)

		var current color.RGBA
		for x := 0; x < cols; x++ {
			c := g.ColorAt(x, y, export.Accent)
			if x == 0 || c != current {
				a.Foreground(c)
				current = c
			}
			buf.WriteRune(g.At(x, y).Char)
		}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// padLine cuts or pads text to exactly width cells.
func padLine(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n > width {
		runes := []rune(text)
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return text + strings.Repeat(" ", width-n)
}

func (r *Renderer) drawStatus(buf *bytes.Buffer, s State) {
	a := term.ANSI{W: buf}
	width := s.WinSize.Cols
	if width <= 0 || s.WinSize.Rows < statusHeight {
		return
	}

	p := s.Params
	rows := 0
	if s.Grid != nil {
		rows = s.Grid.Rows
	}
	status := fmt.Sprintf(" %s  %dx%d  %s  invert:%s  color:%s  %s  size:%gpx",
		s.FileName, p.Width, rows, p.Palette, onOff(p.Invert), onOff(p.Color), p.Scaler, s.FontSize)

	a.CursorPosition(s.WinSize.Rows-1, 1)
	a.Bold()
	a.Background(barBackground)
	a.Foreground(color.RGBA{0x00, 0xff, 0xff, 0xff})
	buf.WriteString(padLine(status, width))

	a.Normal()
	a.Background(logBackground)
	a.CursorPosition(s.WinSize.Rows, 1)

	line := " [ ] width  - + size  p palette  i invert  c color  s scaler  y copy  t txt  g png  h html  o open"
	a.Foreground(dimText)
	if s.GridErr != "" {
		line = " " + s.GridErr
		a.Foreground(errorText)
	} else if n := len(s.Messages); n > 0 {
		m := s.Messages[n-1]
		line = " " + m.Text
		if m.Level == LogLevelError {
			a.Foreground(errorText)
		}
	}
	buf.WriteString(padLine(line, width))
}

func (r *Renderer) drawBlank(buf *bytes.Buffer, s State) {
	a := term.ANSI{W: buf}

	a.Background(color.RGBA{0x00, 0x00, 0x00, 0xFF})

	a.CursorPosition(1, 1)
	buf.WriteString(strings.Repeat(" ", s.WinSize.Cols*s.WinSize.Rows))
}

func (r *Renderer) drawUpload(buf *bytes.Buffer, s State) {
	a := term.ANSI{W: buf}

	r.drawBlank(buf, s)

	// Draw title
	if s.WinSize.Rows > 6 {
		line := "ASCII"
		if s.WinSize.Cols > 25 {
			line = "Drop an image. Get characters."
		}

		timeOffset := float64(time.Since(r.start)/time.Millisecond) / 2000.0

		a.Bold()
		a.CursorPosition(2, (s.WinSize.Cols-len(line))/2+1)
		for i, c := range line {
			t := float64(i)/float64(len(line)) + timeOffset
			a.Foreground(rainbow(t))
			buf.WriteRune(c)
		}
	}

	// Draw description
	descWidth := 40
	maxWidth := s.WinSize.Cols - 2
	if maxWidth < descWidth {
		descWidth = maxWidth
	}

	desc := "Type the path of an image and press Enter.\npng jpg webp gif bmp tiff, max 10MB"
	var descSections [][]string
	for _, line := range strings.Split(desc, "\n") {
		descSections = append(descSections, wordWrap(line, descWidth))
	}

	// Hide parts of the description if they're too long
	var totalLength int
	for i, lines := range descSections {
		if totalLength+len(lines) > s.WinSize.Rows-8 {
			descSections = descSections[:i]
			break
		}

		totalLength += len(lines)
		if i > 0 {
			totalLength++ // for newline
		}
	}

	a.Normal()
	a.Foreground(color.RGBA{0xAA, 0xAA, 0xAA, 0xFF})

	descOffset := 4
	for _, lines := range descSections {
		for i, line := range lines {
			a.CursorPosition((s.WinSize.Rows-totalLength-8)/2+i+descOffset, (s.WinSize.Cols-utf8.RuneCountInString(line))/2+1)
			buf.WriteString(line)
		}

		descOffset += len(lines) + 1
	}

	// Draw prompt
	if s.WinSize.Cols <= 0 || s.WinSize.Rows < 3 {
		return
	}
	a.Bold()
	a.Background(barBackground)
	a.Foreground(color.White)

	inputLine := " > " + s.Input
	a.CursorPosition(s.WinSize.Rows-2, 1)
	buf.WriteString(padLine(inputLine, s.WinSize.Cols))

	// Add blinking cursor where you're supposed to type
	if n := utf8.RuneCountInString(inputLine); n < s.WinSize.Cols {
		a.CursorPosition(s.WinSize.Rows-2, n+1)
		a.Blink()
		buf.WriteString("_")
		a.BlinkOff()
	}

	if n := len(s.Messages); n > 0 {
		m := s.Messages[n-1]
		a.Normal()
		a.Background(color.Black)
		a.Foreground(dimText)
		if m.Level == LogLevelError {
			a.Foreground(errorText)
		}
		a.CursorPosition(s.WinSize.Rows, 1)
		buf.WriteString(padLine(" "+m.Text, s.WinSize.Cols))
	}
}

func (r *Renderer) drawLoading(buf *bytes.Buffer, s State) {
	a := term.ANSI{W: buf}

	r.drawBlank(buf, s)

	line := "Loading..."
	a.Bold()
	a.Foreground(export.Accent)
	a.CursorPosition(s.WinSize.Rows/2, (s.WinSize.Cols-len(line))/2+1)
	buf.WriteString(line)

	hint := "o to cancel"
	a.Normal()
	a.Foreground(dimText)
	a.CursorPosition(s.WinSize.Rows/2+2, (s.WinSize.Cols-len(hint))/2+1)
	buf.WriteString(hint)
}

func wordWrap(s string, lineLen int) []string {
	var lines []string

	var line string
	for _, word := range strings.Split(s, " ") {
		if len(line)+len(word)+1 > lineLen {
			lines = append(lines, line)
			line = ""
		}
		line += " " + word
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}

	return lines
}

func rainbow(t float64) *color.RGBA {
	const freq = math.Pi
	r := math.Sin(freq*t)*127 + 128
	g := math.Sin(freq*t+2*math.Pi/3)*127 + 128
	b := math.Sin(freq*t+4*math.Pi/3)*127 + 128

	return &color.RGBA{uint8(r), uint8(g), uint8(b), 0xFF}
}

// Frame renders the current state into a byte slice.
func (r *Renderer) Frame() []byte {
	buf := bytes.NewBuffer(nil)
	s := r.GetState()

	switch s.Page {
	case ConvertPage:
		r.drawBlank(buf, s)
		r.drawGrid(buf, s)
		r.drawStatus(buf, s)

	case LoadingPage:
		r.drawLoading(buf, s)

	case UploadPage:
		r.drawUpload(buf, s)

	default:
		r.drawBlank(buf, s)
	}

	return buf.Bytes()
}

func (r *Renderer) draw() {
	r.out.Write(r.Frame())
}

func (r *Renderer) loop() {
	defer close(r.done)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		r.draw()

		select {
		case <-r.requestFrame:
		case <-ticker.C:
		case <-r.stop:
			return
		}
	}
}

func (r *Renderer) Start() {
	r.start = time.Now()
	r.started = true

	a := term.ANSI{W: r.out}
	a.AltScreen(true)
	a.HideCursor()

	go r.loop()
}

func (r *Renderer) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	if r.started {
		<-r.done
	}

	buf := bytes.NewBuffer(nil)
	a := term.ANSI{W: buf}

	a.ShowCursor()
	a.Reset()
	a.BackgroundReset()
	a.ForegroundReset()
	a.Normal()
	a.AltScreen(false)

	r.out.Write(buf.Bytes())
}
