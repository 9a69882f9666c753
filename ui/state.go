package ui

import (
	"image"

	"github.com/dialup-inc/asciify/convert"
	"github.com/dialup-inc/asciify/palette"
	"github.com/dialup-inc/asciify/term"
)

type Page string

var (
	UploadPage  Page = "upload"
	LoadingPage Page = "loading"
	ConvertPage Page = "convert"
)

// Limits of the adjustable parameters.
const (
	MinWidth        = 40
	MaxWidth        = 200
	DefaultWidth    = 120
	MinFontSize     = 2.0
	MaxFontSize     = 10.0
	FontSizeStep    = 0.5
	DefaultFontSize = 4.0
)

// Params are the settings that shape the grid. Any change recomputes it.
type Params struct {
	Width   int
	Palette string
	Invert  bool
	Color   bool
	Scaler  string
}

func DefaultParams() Params {
	return Params{
		Width:   DefaultWidth,
		Palette: palette.Default,
		Scaler:  convert.DefaultScaler,
	}
}

type State struct {
	Page Page

	// Input is the path being typed on the upload page.
	Input    string
	Messages []Message

	// Generation is the most recent load request. Only a completion
	// carrying this generation may replace Image.
	Generation uint64
	// ImageGen is the generation Image was loaded by.
	ImageGen uint64
	FileName string
	Image    image.Image

	Params   Params
	FontSize float64

	Grid    *convert.Grid
	GridErr string

	WinSize term.WinSize
}

// NewState returns the state shown before any image is loaded.
func NewState() State {
	return State{
		Page:     UploadPage,
		Params:   DefaultParams(),
		FontSize: DefaultFontSize,
	}
}

type Message struct {
	Level LogLevel
	Text  string
}
