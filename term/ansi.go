package term

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
)

// ANSI writes terminal control sequences to W.
type ANSI struct {
	W io.Writer
}

func (a ANSI) csi(format string, args ...interface{}) {
	fmt.Fprintf(a.W, "\x1b["+format, args...)
}

func (a ANSI) CursorPosition(row, col int) { a.csi("%d;%dH", row, col) }
func (a ANSI) Clear()                      { a.csi("2J") }
func (a ANSI) ClearLine()                  { a.csi("2K") }
func (a ANSI) HideCursor()                 { a.csi("?25l") }
func (a ANSI) ShowCursor()                 { a.csi("?25h") }
func (a ANSI) Reset()                      { a.csi("0m") }
func (a ANSI) Bold()                       { a.csi("1m") }
func (a ANSI) Normal()                     { a.csi("22m") }
func (a ANSI) Blink()                      { a.csi("5m") }
func (a ANSI) BlinkOff()                   { a.csi("25m") }
func (a ANSI) ForegroundReset()            { a.csi("39m") }
func (a ANSI) BackgroundReset()            { a.csi("49m") }

// Foreground sets a 24-bit foreground color.
func (a ANSI) Foreground(c color.Color) {
	r, g, b := rgb8(c)
	a.csi("38;2;%d;%d;%dm", r, g, b)
}

// Background sets a 24-bit background color.
func (a ANSI) Background(c color.Color) {
	r, g, b := rgb8(c)
	a.csi("48;2;%d;%d;%dm", r, g, b)
}

// AltScreen switches to or from the alternate screen buffer.
func (a ANSI) AltScreen(on bool) {
	if on {
		a.csi("?1049h")
	} else {
		a.csi("?1049l")
	}
}

// SetClipboard asks the terminal to place text on the system clipboard
// (OSC 52). Terminals that don't support it ignore the sequence.
func (a ANSI) SetClipboard(text string) {
	fmt.Fprintf(a.W, "\x1b]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
}

func rgb8(c color.Color) (r, g, b uint8) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return nc.R, nc.G, nc.B
}
