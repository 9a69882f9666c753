package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialup-inc/asciify/term"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func reduce(s State, events ...Event) State {
	for _, e := range events {
		s = StateReducer(s, e)
	}
	return s
}

func TestLoadCommitsGrid(t *testing.T) {
	img := solid(200, 100, color.RGBA{0xFF, 0, 0, 0xFF})

	s := reduce(NewState(),
		LoadStartedEvent{Generation: 1, FileName: "red.png"},
	)
	assert.Equal(t, LoadingPage, s.Page)
	assert.Nil(t, s.Grid)

	s = reduce(s, ImageLoadedEvent{Generation: 1, FileName: "red.png", Image: img})
	assert.Equal(t, ConvertPage, s.Page)
	assert.Equal(t, "red.png", s.FileName)
	require.NotNil(t, s.Grid)
	assert.Equal(t, DefaultWidth, s.Grid.Cols)
	assert.Equal(t, 27, s.Grid.Rows)
	assert.Empty(t, s.GridErr)
}

func TestStaleLoadDiscarded(t *testing.T) {
	first := solid(100, 100, color.White)
	second := solid(100, 50, color.Black)

	s := reduce(NewState(),
		LoadStartedEvent{Generation: 1, FileName: "first.png"},
		LoadStartedEvent{Generation: 2, FileName: "second.png"},
		ImageLoadedEvent{Generation: 2, FileName: "second.png", Image: second},
		// the first decode finishes last and must not win
		ImageLoadedEvent{Generation: 1, FileName: "first.png", Image: first},
		LoadFailedEvent{Generation: 1, Reason: "late failure"},
	)

	assert.Equal(t, uint64(2), s.Generation)
	assert.Equal(t, "second.png", s.FileName)
	assert.Equal(t, second, s.Image)
	assert.Equal(t, ConvertPage, s.Page)
	for _, m := range s.Messages {
		assert.NotEqual(t, "late failure", m.Text)
	}

	// an old start can't rewind the generation either
	s = reduce(s, LoadStartedEvent{Generation: 1, FileName: "again.png"})
	assert.Equal(t, uint64(2), s.Generation)
	assert.Equal(t, ConvertPage, s.Page)
}

func TestLoadFailure(t *testing.T) {
	s := reduce(NewState(),
		LoadStartedEvent{Generation: 1, FileName: "notes.txt"},
		LoadFailedEvent{Generation: 1, Reason: "notes.txt rejected: text/plain is not an image type"},
	)
	assert.Equal(t, UploadPage, s.Page)
	require.NotEmpty(t, s.Messages)
	last := s.Messages[len(s.Messages)-1]
	assert.Equal(t, LogLevelError, last.Level)
	assert.Contains(t, last.Text, "not an image")

	// a failure while an image is showing keeps it on screen
	img := solid(10, 10, color.White)
	s = reduce(s,
		LoadStartedEvent{Generation: 2, FileName: "ok.png"},
		ImageLoadedEvent{Generation: 2, FileName: "ok.png", Image: img},
		LoadStartedEvent{Generation: 3, FileName: "broken.png"},
		LoadFailedEvent{Generation: 3, Reason: "broken"},
	)
	assert.Equal(t, ConvertPage, s.Page)
	assert.Equal(t, "ok.png", s.FileName)
	assert.NotNil(t, s.Grid)
}

func TestResetDropsPending(t *testing.T) {
	img := solid(10, 10, color.White)
	s := reduce(NewState(),
		LoadStartedEvent{Generation: 1, FileName: "a.png"},
		ImageLoadedEvent{Generation: 1, FileName: "a.png", Image: img},
		LoadStartedEvent{Generation: 2, FileName: "b.png"},
		ResetEvent{Generation: 3},
		ImageLoadedEvent{Generation: 2, FileName: "b.png", Image: img},
	)
	assert.Equal(t, UploadPage, s.Page)
	assert.Nil(t, s.Image)
	assert.Nil(t, s.Grid)
	assert.Empty(t, s.FileName)
}

func TestParamsRecompute(t *testing.T) {
	img := solid(200, 100, color.RGBA{0xFF, 0, 0, 0xFF})
	s := reduce(NewState(),
		LoadStartedEvent{Generation: 1, FileName: "red.png"},
		ImageLoadedEvent{Generation: 1, FileName: "red.png", Image: img},
		SetWidthEvent(40),
	)
	require.NotNil(t, s.Grid)
	assert.Equal(t, 40, s.Grid.Cols)
	assert.Equal(t, 9, s.Grid.Rows)
	assert.Equal(t, ';', s.Grid.At(0, 0).Char)

	before := s.Grid
	s = reduce(s, ToggleInvertEvent{})
	assert.NotSame(t, before, s.Grid)
	assert.True(t, s.Params.Invert)
	assert.Equal(t, 'L', s.Grid.At(0, 0).Char)

	s = reduce(s, ToggleColorEvent{})
	assert.True(t, s.Grid.Colored)
	assert.Equal(t, color.RGBA{0xFF, 0, 0, 0xFF}, s.Grid.At(5, 5).Color)

	s = reduce(s, NextPaletteEvent{})
	assert.Equal(t, "blocks", s.Params.Palette)
	assert.Equal(t, "blocks", s.Grid.Palette.Name)

	s = reduce(s, SetPaletteEvent("nope"))
	assert.Equal(t, "blocks", s.Params.Palette)
	assert.Equal(t, LogLevelError, s.Messages[len(s.Messages)-1].Level)

	s = reduce(s, NextScalerEvent{})
	assert.Equal(t, "nearest", s.Params.Scaler)

	// resizing the window leaves the grid untouched
	before = s.Grid
	s = reduce(s, ResizeEvent(term.WinSize{Rows: 40, Cols: 100}))
	assert.Same(t, before, s.Grid)
}

func TestWidthClamp(t *testing.T) {
	s := NewState()
	for _, tcase := range []struct {
		event    Event
		expected int
	}{
		{SetWidthEvent(10), MinWidth},
		{SetWidthEvent(500), MaxWidth},
		{AdjustWidthEvent(-10), MaxWidth - 10},
		{SetWidthEvent(45), 45},
		{AdjustWidthEvent(-10), MinWidth},
		{AdjustWidthEvent(1), MinWidth + 1},
	} {
		s = StateReducer(s, tcase.event)
		assert.Equal(t, tcase.expected, s.Params.Width)
	}
}

func TestFontSizeClamp(t *testing.T) {
	s := NewState()
	assert.Equal(t, DefaultFontSize, s.FontSize)

	s = reduce(s, AdjustFontSizeEvent(1))
	assert.Equal(t, 4.5, s.FontSize)

	s = reduce(s, AdjustFontSizeEvent(100))
	assert.Equal(t, MaxFontSize, s.FontSize)

	s = reduce(s, AdjustFontSizeEvent(-100))
	assert.Equal(t, MinFontSize, s.FontSize)
}

func TestGridError(t *testing.T) {
	s := reduce(NewState(),
		LoadStartedEvent{Generation: 1, FileName: "strip.png"},
		ImageLoadedEvent{Generation: 1, FileName: "strip.png", Image: solid(2000, 1, color.White)},
	)
	assert.Nil(t, s.Grid)
	assert.Contains(t, s.GridErr, "too wide")

	s = reduce(s,
		LoadStartedEvent{Generation: 2, FileName: "tall.png"},
		ImageLoadedEvent{Generation: 2, FileName: "tall.png", Image: solid(1, 200000, color.White)},
	)
	assert.Equal(t, ConvertPage, s.Page)
	assert.Nil(t, s.Grid)
	assert.Contains(t, s.GridErr, "too tall")

	// narrowing can't help a 1px wide strip, but the error stays current
	s = reduce(s, SetWidthEvent(MinWidth))
	assert.Nil(t, s.Grid)
	assert.Contains(t, s.GridErr, "too tall")
}

func TestInput(t *testing.T) {
	s := reduce(NewState(),
		KeypressEvent('c'), KeypressEvent('a'), KeypressEvent('░'),
		BackspaceEvent{},
		KeypressEvent('t'),
		KeypressEvent('\a'),
	)
	assert.Equal(t, "cat", s.Input)

	s = reduce(s, LoadStartedEvent{Generation: 1, FileName: "cat"})
	assert.Empty(t, s.Input)
}

func TestMessagesBounded(t *testing.T) {
	s := NewState()
	for i := 0; i < maxMessages*2; i++ {
		s = StateReducer(s, LogEvent{Text: "hello"})
	}
	assert.Len(t, s.Messages, maxMessages)
}

func TestRendererFrame(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out)

	r.Dispatch(ResizeEvent(term.WinSize{Rows: 20, Cols: 60}))
	assert.Contains(t, string(r.Frame()), " > ")

	r.Dispatch(LoadStartedEvent{Generation: 1, FileName: "red.png"})
	assert.Contains(t, string(r.Frame()), "o to cancel")
	r.Dispatch(ImageLoadedEvent{Generation: 1, FileName: "red.png", Image: solid(200, 100, color.RGBA{0xFF, 0, 0, 0xFF})})
	r.Dispatch(SetWidthEvent(40))

	frame := string(r.Frame())
	assert.Contains(t, frame, strings.Repeat(";", 40))
	assert.Contains(t, frame, "red.png")
	assert.Contains(t, frame, "40x9")
	assert.Contains(t, frame, "\x1b[38;2;161;232;154m")
}

func TestConfigure(t *testing.T) {
	s := reduce(NewState(), ConfigureEvent{
		Params:   Params{Width: 999, Palette: "minimal", Invert: true, Color: true, Scaler: "bogus"},
		FontSize: 1,
	})
	assert.Equal(t, Params{Width: MaxWidth, Palette: "minimal", Invert: true, Color: true, Scaler: "bilinear"}, s.Params)
	assert.Equal(t, MinFontSize, s.FontSize)
}
