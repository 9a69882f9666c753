package asciify

import (
	"fmt"
	"math"
	"os"

	"github.com/dialup-inc/asciify/convert"
	"github.com/dialup-inc/asciify/palette"
	"github.com/dialup-inc/asciify/source"
	"github.com/dialup-inc/asciify/ui"
)

// Config holds the starting parameters. Everything except OutDir and
// MaxSize can be changed while the app runs.
type Config struct {
	Width    int
	Palette  string
	Invert   bool
	Color    bool
	Scaler   string
	FontSize float64

	// OutDir receives exported files.
	OutDir string
	// MaxSize is the largest accepted input in bytes; 0 disables the limit.
	MaxSize int64
}

func Defaults() Config {
	return Config{
		Width:    ui.DefaultWidth,
		Palette:  palette.Default,
		Scaler:   convert.DefaultScaler,
		FontSize: ui.DefaultFontSize,
		OutDir:   ".",
		MaxSize:  source.DefaultMaxSize,
	}
}

// Validate checks names and clamps the ranged values the same way the
// interactive controls do.
func (c *Config) Validate() error {
	if _, err := palette.Lookup(c.Palette); err != nil {
		return err
	}
	if _, err := convert.LookupScaler(c.Scaler); err != nil {
		return err
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("max size must not be negative")
	}

	if c.Width < ui.MinWidth {
		c.Width = ui.MinWidth
	} else if c.Width > ui.MaxWidth {
		c.Width = ui.MaxWidth
	}

	c.FontSize = math.Round(c.FontSize/ui.FontSizeStep) * ui.FontSizeStep
	if c.FontSize < ui.MinFontSize {
		c.FontSize = ui.MinFontSize
	} else if c.FontSize > ui.MaxFontSize {
		c.FontSize = ui.MaxFontSize
	}

	if c.OutDir == "" {
		c.OutDir = "."
	}
	fi, err := os.Stat(c.OutDir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", c.OutDir)
	}

	return nil
}

// Params returns the grid parameters described by c.
func (c Config) Params() ui.Params {
	return ui.Params{
		Width:   c.Width,
		Palette: c.Palette,
		Invert:  c.Invert,
		Color:   c.Color,
		Scaler:  c.Scaler,
	}
}
