package ui

import (
	"image"

	"github.com/dialup-inc/asciify/term"
)

// An Event represents a user action or a completed load that changes
// the UI state.
//
// They're processed by Renderer's Dispatch method.
type Event interface{}

// KeypressEvent is fired when the user types on the upload page.
type KeypressEvent rune

// BackspaceEvent is fired when the backspace button is pressed.
type BackspaceEvent struct{}

// ResizeEvent indicates that the terminal window's size has changed to the specified dimensions
type ResizeEvent term.WinSize

// LoadStartedEvent fires when a new file has been chosen. Generation
// must be larger than any previous one.
type LoadStartedEvent struct {
	Generation uint64
	FileName   string
}

// ImageLoadedEvent carries a decoded image back from a load.
type ImageLoadedEvent struct {
	Generation uint64
	FileName   string
	Image      image.Image
}

// LoadFailedEvent reports a rejected or undecodable file.
type LoadFailedEvent struct {
	Generation uint64
	Reason     string
}

// ResetEvent returns to the upload page, dropping the current image.
// It takes a generation so that loads still in flight are discarded.
type ResetEvent struct {
	Generation uint64
}

// ConfigureEvent replaces all parameters at once, e.g. from flags.
type ConfigureEvent struct {
	Params   Params
	FontSize float64
}

// SetWidthEvent sets the grid width in columns.
type SetWidthEvent int

// AdjustWidthEvent changes the grid width by a number of columns.
type AdjustWidthEvent int

// AdjustFontSizeEvent changes the display font size by a number of steps.
type AdjustFontSizeEvent int

// SetPaletteEvent selects a palette by name.
type SetPaletteEvent string

// NextPaletteEvent cycles to the next built-in palette.
type NextPaletteEvent struct{}

// NextScalerEvent cycles to the next resampling method.
type NextScalerEvent struct{}

// ToggleInvertEvent flips the luminance mapping.
type ToggleInvertEvent struct{}

// ToggleColorEvent switches between mono and per-cell color.
type ToggleColorEvent struct{}

// LogLevel indicates the severity of a LogEvent message
type LogLevel int

const (
	// LogLevelInfo is for non-urgent, informational logs
	LogLevelInfo LogLevel = iota
	// LogLevelError is for logs that indicate problems
	LogLevelError
)

// A LogEvent shows a message in the status line
type LogEvent struct {
	Text  string
	Level LogLevel
}
