package asciify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dialup-inc/asciify/export"
	"github.com/dialup-inc/asciify/source"
	"github.com/dialup-inc/asciify/term"
	"github.com/dialup-inc/asciify/ui"
)

// App is the interactive converter. It owns the terminal while Run is
// active.
type App struct {
	cfg Config
	log zerolog.Logger
	out io.Writer

	renderer *ui.Renderer

	// generation numbers load and reset requests
	generation uint64
	loads      sync.WaitGroup

	cancelMu sync.Mutex
	quit     context.CancelFunc

	// escape tracks a partially read CSI sequence from stdin
	escape int
}

// syncWriter serializes writes from the frame loop and the key handler.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// New creates an App drawing to out. The configuration is validated and
// becomes the starting state of the controls.
func New(cfg Config, log zerolog.Logger, out io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out = &syncWriter{w: out}
	a := &App{
		cfg:      cfg,
		log:      log,
		out:      out,
		renderer: ui.NewRenderer(out),
	}
	a.renderer.Dispatch(ui.ConfigureEvent{
		Params:   cfg.Params(),
		FontSize: cfg.FontSize,
	})

	return a, nil
}

func (a *App) run(ctx context.Context, path string) error {
	a.cancelMu.Lock()
	if a.quit != nil {
		a.cancelMu.Unlock()
		return errors.New("app can only be run once")
	}
	ctx, cancel := context.WithCancel(ctx)
	a.quit = cancel
	a.cancelMu.Unlock()

	restore, err := term.CaptureStdin(a.onKeypress)
	if err != nil {
		return err
	}
	defer restore()

	go a.watchWinSize(ctx)

	a.renderer.Start()

	if path != "" {
		a.Load(path)
	}

	<-ctx.Done()
	return nil
}

func (a *App) catchError(msg interface{}, stack []byte) {
	buf := bytes.NewBuffer(nil)
	ansi := term.ANSI{W: buf}

	ansi.CursorPosition(1, 1)
	ansi.Reset()

	ansi.Bold()
	ansi.Foreground(color.RGBA{0xFF, 0x00, 0x00, 0xFF})
	buf.WriteString("Oops! asciify hit a snag.\n")
	ansi.Normal()
	ansi.ForegroundReset()

	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("[panic] %v\n", msg))
	buf.WriteString("\n")
	buf.Write(stack)
	buf.WriteString("\n")

	data := bytes.ReplaceAll(buf.Bytes(), []byte("\n"), []byte("\r\n"))
	os.Stderr.Write(data)
}

// Run takes over the terminal until ctrl-c or ctx is done. If path is
// not empty it is loaded straight away; otherwise the upload page asks
// for one.
func (a *App) Run(ctx context.Context, path string) error {
	// Show a nice error page if there's a panic somewhere in the code
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Msg("recovered")
			a.catchError(r, debug.Stack())
		}
	}()

	err := a.run(ctx, path)

	// Clean up:
	a.renderer.Stop()

	return err
}

func (a *App) watchWinSize(ctx context.Context) error {
	checkWinSize := func() {
		winSize, err := term.GetWinSize()
		if err != nil {
			return
		}
		a.renderer.Dispatch(ui.ResizeEvent(winSize))
	}

	checkWinSize()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			checkWinSize()
		}
	}
}

func (a *App) nextGeneration() uint64 {
	return atomic.AddUint64(&a.generation, 1)
}

// cleanPath undoes the quoting terminals add to dropped file paths.
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if len(p) >= 2 && (p[0] == '\'' || p[0] == '"') && p[len(p)-1] == p[0] {
		p = p[1 : len(p)-1]
	}
	return strings.ReplaceAll(p, `\ `, " ")
}

// Load reads and decodes path in the background. Only the most recent
// request can change what is on screen; an earlier one finishing late
// is dropped by the reducer. It returns the request's generation.
func (a *App) Load(path string) uint64 {
	path = cleanPath(path)
	name := filepath.Base(path)
	gen := a.nextGeneration()

	a.renderer.Dispatch(ui.LoadStartedEvent{Generation: gen, FileName: name})
	a.log.Info().Uint64("generation", gen).Str("path", path).Msg("load started")

	a.loads.Add(1)
	go func() {
		defer a.loads.Done()

		img, err := loadImage(path, a.cfg.MaxSize)
		if err != nil {
			a.log.Warn().Err(err).Uint64("generation", gen).Msg("load failed")
			a.renderer.Dispatch(ui.LoadFailedEvent{Generation: gen, Reason: err.Error()})
			return
		}

		size := img.Bounds().Size()
		a.log.Info().Uint64("generation", gen).Int("width", size.X).Int("height", size.Y).Msg("image decoded")
		a.renderer.Dispatch(ui.ImageLoadedEvent{Generation: gen, FileName: name, Image: img})
	}()

	return gen
}

func loadImage(path string, maxSize int64) (image.Image, error) {
	src, err := source.Open(path, maxSize)
	if err != nil {
		return nil, err
	}
	return src.Decode()
}

// Reset drops the current image and any load still in flight.
func (a *App) Reset() {
	a.renderer.Dispatch(ui.ResetEvent{Generation: a.nextGeneration()})
}

func (a *App) info(text string) {
	a.renderer.Dispatch(ui.LogEvent{Level: ui.LogLevelInfo, Text: text})
}

func (a *App) fail(text string) {
	a.renderer.Dispatch(ui.LogEvent{Level: ui.LogLevelError, Text: text})
}

// Copy puts the plain-text grid on the clipboard.
func (a *App) Copy() {
	s := a.renderer.GetState()
	if s.Grid.Empty() {
		a.fail(export.ErrEmptyGrid.Error())
		return
	}

	ansi := term.ANSI{W: a.out}
	ansi.SetClipboard(export.Text(s.Grid))

	a.log.Info().Int("cols", s.Grid.Cols).Int("rows", s.Grid.Rows).Msg("copied to clipboard")
	a.info("Copied to clipboard")
}

// Save writes the current grid in format f to the output directory.
func (a *App) Save(f export.Format) {
	s := a.renderer.GetState()

	path, err := export.Save(a.cfg.OutDir, s.FileName, f, s.Grid, export.Options{
		FontSize: s.FontSize,
		Title:    s.FileName,
	})
	if err != nil {
		a.log.Warn().Err(err).Str("format", string(f)).Msg("save failed")
		a.fail(fmt.Sprintf("save failed: %v", err))
		return
	}

	a.log.Info().Str("path", path).Msg("saved")
	a.info(fmt.Sprintf("Saved %s", path))
}

// skipEscape reports whether c belongs to an escape sequence, such as an
// arrow key, that should not be read as commands.
func (a *App) skipEscape(c rune) bool {
	switch a.escape {
	case 1:
		if c == '[' || c == 'O' {
			a.escape = 2
			return true
		}
		a.escape = 0
	case 2:
		if c >= 0x40 && c <= 0x7E {
			a.escape = 0
		}
		return true
	}

	if c == 27 {
		a.escape = 1
		return true
	}
	return false
}

func (a *App) onKeypress(c rune) {
	if a.skipEscape(c) {
		return
	}

	if c == 3 { // ctrl-c
		a.info("Quitting...")

		a.cancelMu.Lock()
		if a.quit != nil {
			a.quit()
		}
		a.cancelMu.Unlock()
		return
	}

	switch a.renderer.GetState().Page {
	case ui.UploadPage:
		a.onUploadKey(c)
	case ui.LoadingPage:
		if c == 'o' {
			a.Reset()
		}
	case ui.ConvertPage:
		a.onConvertKey(c)
	}
}

func (a *App) onUploadKey(c rune) {
	switch c {
	case 127, 8: // backspace
		a.renderer.Dispatch(ui.BackspaceEvent{})

	case '\n', '\r':
		path := strings.TrimSpace(a.renderer.GetState().Input)
		if path == "" {
			return
		}
		a.Load(path)

	default:
		a.renderer.Dispatch(ui.KeypressEvent(c))
	}
}

func (a *App) onConvertKey(c rune) {
	switch c {
	case '[':
		a.renderer.Dispatch(ui.AdjustWidthEvent(-1))
	case ']':
		a.renderer.Dispatch(ui.AdjustWidthEvent(1))
	case '{':
		a.renderer.Dispatch(ui.AdjustWidthEvent(-10))
	case '}':
		a.renderer.Dispatch(ui.AdjustWidthEvent(10))
	case '-', '_':
		a.renderer.Dispatch(ui.AdjustFontSizeEvent(-1))
	case '+', '=':
		a.renderer.Dispatch(ui.AdjustFontSizeEvent(1))
	case 'p':
		a.renderer.Dispatch(ui.NextPaletteEvent{})
	case 'i':
		a.renderer.Dispatch(ui.ToggleInvertEvent{})
	case 'c':
		a.renderer.Dispatch(ui.ToggleColorEvent{})
	case 's':
		a.renderer.Dispatch(ui.NextScalerEvent{})
	case 'y':
		a.Copy()
	case 't':
		a.Save(export.FormatText)
	case 'g':
		a.Save(export.FormatPNG)
	case 'h':
		a.Save(export.FormatHTML)
	case 'o':
		a.Reset()
	}
}
