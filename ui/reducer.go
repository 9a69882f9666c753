package ui

import (
	"fmt"
	"image"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dialup-inc/asciify/convert"
	"github.com/dialup-inc/asciify/palette"
	"github.com/dialup-inc/asciify/term"
)

const maxMessages = 50

// StateReducer applies event to s. The grid is rebuilt whenever the
// committed image or any parameter changes.
func StateReducer(s State, event Event) State {
	prev := s

	s.Generation = generationReducer(prev, event)
	s.Page = pageReducer(prev, event)
	s.Input = inputReducer(s.Input, event, isCurrent(prev, event))
	s.Messages = messagesReducer(prev, event)
	s.FileName, s.Image, s.ImageGen = imageReducer(prev, event)
	s.Params = paramsReducer(s.Params, event)
	s.FontSize = fontSizeReducer(s.FontSize, event)
	s.WinSize = winSizeReducer(s.WinSize, event)

	if s.ImageGen != prev.ImageGen || s.Params != prev.Params {
		s.Grid, s.GridErr = buildGrid(s.Image, s.Params)
	}

	return s
}

// isCurrent reports whether a load event belongs to the latest request.
// Starts and resets must be newer than anything seen so far; completions
// must match the latest request exactly.
func isCurrent(s State, event Event) bool {
	switch e := event.(type) {
	case LoadStartedEvent:
		return e.Generation > s.Generation
	case ResetEvent:
		return e.Generation > s.Generation
	case ImageLoadedEvent:
		return e.Generation == s.Generation && e.Generation != s.ImageGen
	case LoadFailedEvent:
		return e.Generation == s.Generation
	default:
		return false
	}
}

func generationReducer(s State, event Event) uint64 {
	if !isCurrent(s, event) {
		return s.Generation
	}
	switch e := event.(type) {
	case LoadStartedEvent:
		return e.Generation
	case ResetEvent:
		return e.Generation
	default:
		return s.Generation
	}
}

func pageReducer(s State, event Event) Page {
	if !isCurrent(s, event) {
		return s.Page
	}
	switch event.(type) {
	case LoadStartedEvent:
		return LoadingPage
	case ImageLoadedEvent:
		return ConvertPage
	case LoadFailedEvent:
		if s.Image != nil {
			return ConvertPage
		}
		return UploadPage
	case ResetEvent:
		return UploadPage
	default:
		return s.Page
	}
}

func imageReducer(s State, event Event) (string, image.Image, uint64) {
	if !isCurrent(s, event) {
		return s.FileName, s.Image, s.ImageGen
	}
	switch e := event.(type) {
	case ImageLoadedEvent:
		return e.FileName, e.Image, e.Generation
	case ResetEvent:
		return "", nil, e.Generation
	default:
		return s.FileName, s.Image, s.ImageGen
	}
}

func winSizeReducer(s term.WinSize, event Event) term.WinSize {
	switch e := event.(type) {
	case ResizeEvent:
		return term.WinSize(e)
	default:
		return s
	}
}

var ansiRegex = regexp.MustCompile("[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

func inputReducer(s string, event Event, current bool) string {
	switch e := event.(type) {
	case KeypressEvent:
		s += string(e)

		// Strip ansi codes
		s = ansiRegex.ReplaceAllString(s, "")

		// Strip bell characters
		return strings.Replace(s, "\a", "", -1)

	case BackspaceEvent:
		if len(s) == 0 {
			return s
		}
		_, size := utf8.DecodeLastRuneInString(s)
		return s[:len(s)-size]

	case LoadStartedEvent:
		if current {
			return ""
		}
		return s

	default:
		return s
	}
}

func messagesReducer(s State, event Event) []Message {
	msgs := s.Messages
	add := func(level LogLevel, text string) []Message {
		msgs = append(msgs[:len(msgs):len(msgs)], Message{Level: level, Text: text})
		if len(msgs) > maxMessages {
			msgs = msgs[len(msgs)-maxMessages:]
		}
		return msgs
	}

	switch e := event.(type) {
	case LogEvent:
		return add(e.Level, e.Text)

	case LoadStartedEvent:
		if isCurrent(s, event) {
			return add(LogLevelInfo, fmt.Sprintf("Loading %s...", e.FileName))
		}

	case ImageLoadedEvent:
		if isCurrent(s, event) && e.Image != nil {
			size := e.Image.Bounds().Size()
			return add(LogLevelInfo, fmt.Sprintf("Loaded %s (%dx%d)", e.FileName, size.X, size.Y))
		}

	case LoadFailedEvent:
		if isCurrent(s, event) {
			return add(LogLevelError, e.Reason)
		}

	case SetPaletteEvent:
		if _, err := palette.Lookup(string(e)); err != nil {
			return add(LogLevelError, err.Error())
		}
	}

	return msgs
}

func clampWidth(w int) int {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}

func paramsReducer(s Params, event Event) Params {
	switch e := event.(type) {
	case ConfigureEvent:
		p := e.Params
		p.Width = clampWidth(p.Width)
		if _, err := palette.Lookup(p.Palette); err != nil {
			p.Palette = s.Palette
		}
		if _, err := convert.LookupScaler(p.Scaler); err != nil {
			p.Scaler = s.Scaler
		}
		return p
	case SetWidthEvent:
		s.Width = clampWidth(int(e))
	case AdjustWidthEvent:
		s.Width = clampWidth(s.Width + int(e))
	case SetPaletteEvent:
		if _, err := palette.Lookup(string(e)); err == nil {
			s.Palette = string(e)
		}
	case NextPaletteEvent:
		s.Palette = palette.Next(s.Palette)
	case NextScalerEvent:
		s.Scaler = convert.NextScaler(s.Scaler)
	case ToggleInvertEvent:
		s.Invert = !s.Invert
	case ToggleColorEvent:
		s.Color = !s.Color
	}
	return s
}

func clampFontSize(s float64) float64 {
	if s < MinFontSize {
		return MinFontSize
	}
	if s > MaxFontSize {
		return MaxFontSize
	}
	return s
}

func fontSizeReducer(s float64, event Event) float64 {
	switch e := event.(type) {
	case ConfigureEvent:
		return clampFontSize(e.FontSize)
	case AdjustFontSizeEvent:
		return clampFontSize(s + float64(e)*FontSizeStep)
	default:
		return s
	}
}

// Options resolves p into conversion options.
func (p Params) Options() (convert.Options, error) {
	pal, err := palette.Lookup(p.Palette)
	if err != nil {
		return convert.Options{}, err
	}
	scaler, err := convert.LookupScaler(p.Scaler)
	if err != nil {
		return convert.Options{}, err
	}
	return convert.Options{
		Columns: p.Width,
		Palette: pal,
		Invert:  p.Invert,
		Color:   p.Color,
		Scaler:  scaler,
	}, nil
}

func buildGrid(img image.Image, p Params) (*convert.Grid, string) {
	if img == nil {
		return nil, ""
	}
	opts, err := p.Options()
	if err != nil {
		return nil, err.Error()
	}
	g, err := convert.Convert(img, opts)
	if err != nil {
		return nil, err.Error()
	}
	return g, ""
}
