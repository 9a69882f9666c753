package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/dialup-inc/asciify"
	"github.com/dialup-inc/asciify/convert"
	"github.com/dialup-inc/asciify/export"
	"github.com/dialup-inc/asciify/palette"
)

func parseSaves(s string) ([]export.Format, error) {
	var formats []export.Format
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// errUsage reports bad arguments once the usage text has been printed.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == errUsage {
			os.Exit(2)
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("asciify")
	}
}

// run parses args and converts or starts the interactive app. Errors are
// returned so that deferred cleanup runs before the process exits.
func run(args []string, stdout, stderr io.Writer) error {
	defaults := asciify.Defaults()
	cfg := defaults

	flags := flag.NewFlagSet("asciify", flag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.IntVar(&cfg.Width, "width", defaults.Width, "grid width in characters")
	flags.StringVar(&cfg.Palette, "palette", defaults.Palette, "character set: "+strings.Join(palette.Names(), ", "))
	flags.BoolVar(&cfg.Invert, "invert", defaults.Invert, "map dark pixels to dense characters")
	flags.BoolVar(&cfg.Color, "color", defaults.Color, "keep the source colors")
	flags.StringVar(&cfg.Scaler, "scaler", defaults.Scaler, "resampling: "+strings.Join(convert.ScalerNames(), ", "))
	flags.Float64Var(&cfg.FontSize, "font-size", defaults.FontSize, "font size in px for html exports")
	flags.StringVar(&cfg.OutDir, "out", defaults.OutDir, "directory for saved files")
	flags.Int64Var(&cfg.MaxSize, "max-size", defaults.MaxSize, "largest accepted input in bytes, 0 for no limit")

	var (
		format  = flags.String("format", "", "write the result to stdout as txt, ans, html or png and exit")
		save    = flags.String("save", "", "comma separated formats to save to -out and exit")
		logFile = flags.String("log", "", "log file for the interactive mode")
		verbose = flags.Bool("v", false, "verbose logging")
	)
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "usage: asciify [flags] [image]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return errUsage
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	saves, err := parseSaves(*save)
	if err != nil {
		return fmt.Errorf("invalid -save: %w", err)
	}

	path := flags.Arg(0)
	interactive := *format == "" && len(saves) == 0 &&
		isTerminal(os.Stdin) && isTerminal(stdout)

	if !interactive {
		if path == "" {
			flags.Usage()
			return errUsage
		}

		var f export.Format
		switch {
		case *format != "":
			if f, err = export.ParseFormat(*format); err != nil {
				return fmt.Errorf("invalid -format: %w", err)
			}
		case len(saves) == 0 && isTerminal(stdout):
			f = export.FormatANSI
		case len(saves) == 0:
			f = export.FormatText
		}

		stderrLog := newLogger(zerolog.ConsoleWriter{Out: stderr}, *verbose)
		if _, err := asciify.Oneshot(stderrLog, path, cfg, stdout, f, saves); err != nil {
			return fmt.Errorf("converting %s: %w", path, err)
		}
		return nil
	}

	log := zerolog.Nop()
	if *logFile != "" {
		lf, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer lf.Close()
		log = newLogger(lf, *verbose)
	}

	app, err := asciify.New(cfg, log, stdout)
	if err != nil {
		return err
	}

	if err := app.Run(context.Background(), path); err != nil {
		log.Error().Err(err).Msg("exited")
		return err
	}
	return nil
}
