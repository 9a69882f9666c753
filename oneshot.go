package asciify

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/dialup-inc/asciify/convert"
	"github.com/dialup-inc/asciify/export"
	"github.com/dialup-inc/asciify/source"
)

// ConvertFile loads, decodes and converts path using the parameters in
// cfg. cfg must already be validated.
func ConvertFile(path string, cfg Config) (*convert.Grid, *source.Source, error) {
	src, err := source.Open(cleanPath(path), cfg.MaxSize)
	if err != nil {
		return nil, nil, err
	}

	img, err := src.Decode()
	if err != nil {
		return nil, src, err
	}

	opts, err := cfg.Params().Options()
	if err != nil {
		return nil, src, err
	}

	g, err := convert.Convert(img, opts)
	if err != nil {
		return nil, src, err
	}
	return g, src, nil
}

// Oneshot converts path without taking over the terminal. The grid is
// written to w in format f (skipped when f is empty) and saved to
// cfg.OutDir once per entry in saves. It returns the saved paths.
func Oneshot(log zerolog.Logger, path string, cfg Config, w io.Writer, f export.Format, saves []export.Format) ([]string, error) {
	g, src, err := ConvertFile(path, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("file", src.Name).
		Str("type", src.Type).
		Int("cols", g.Cols).
		Int("rows", g.Rows).
		Msg("converted")

	opts := export.Options{FontSize: cfg.FontSize, Title: src.Name}

	if f != "" {
		if err := export.Render(w, f, g, opts); err != nil {
			return nil, err
		}
	}

	var paths []string
	for _, sf := range saves {
		p, err := export.Save(cfg.OutDir, src.Name, sf, g, opts)
		if err != nil {
			return paths, err
		}
		log.Info().Str("path", p).Msg("saved")
		paths = append(paths, p)
	}
	return paths, nil
}
