// Package source accepts image files, checks that they really are
// images, and decodes them.
//
// Decoding goes through a data URL so an image that arrived from any
// origin takes the same path: bytes → data URL → decoded bitmap.
package source

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxSize is the largest file accepted unless configured otherwise.
const DefaultMaxSize = 10 << 20

// MaxPixels bounds the decoded size of an image. A small compressed file
// can describe a bitmap far larger than the byte limit suggests.
const MaxPixels = 64 << 20

var (
	ErrDecode   = errors.New("image could not be decoded")
	ErrEmpty    = errors.New("image has zero width or height")
	ErrDataURL  = errors.New("malformed data URL")
	ErrTooLarge = errors.New("image has too many pixels")
)

// A RejectError explains why a file was not accepted.
type RejectError struct {
	Name   string
	Reason string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Name, e.Reason)
}

// A Source is an accepted image file that has not been decoded yet.
type Source struct {
	Name string
	Type string
	Data []byte
}

var extTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// DeclaredType guesses a MIME type from a file name the way a browser
// fills in File.type. It returns "" when the extension is unknown.
func DeclaredType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		mt, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mt
		}
	}
	return ""
}

// Open reads and validates the file at path. A maxSize of 0 disables
// the size limit.
func Open(path string, maxSize int64) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(path)
	if maxSize > 0 {
		if fi, err := f.Stat(); err == nil && fi.Size() > maxSize {
			return nil, tooLarge(name, maxSize)
		}
	}

	return Read(name, f, DeclaredType(name), maxSize)
}

// Read validates the contents of r. When declaredType is empty the type
// is sniffed from the data.
func Read(name string, r io.Reader, declaredType string, maxSize int64) (*Source, error) {
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, tooLarge(name, maxSize)
	}
	if len(data) == 0 {
		return nil, &RejectError{Name: name, Reason: "file is empty"}
	}

	typ := declaredType
	if typ == "" {
		typ = http.DetectContentType(data)
		if mt, _, err := mime.ParseMediaType(typ); err == nil {
			typ = mt
		}
	}
	if !strings.HasPrefix(typ, "image/") {
		return nil, &RejectError{Name: name, Reason: fmt.Sprintf("%s is not an image type", typ)}
	}

	return &Source{Name: name, Type: typ, Data: data}, nil
}

func tooLarge(name string, maxSize int64) error {
	return &RejectError{Name: name, Reason: fmt.Sprintf("larger than %d MB", maxSize>>20)}
}

// DataURL encodes the source as a base64 data URL.
func (s *Source) DataURL() string {
	return "data:" + s.Type + ";base64," + base64.StdEncoding.EncodeToString(s.Data)
}

// ParseDataURL returns the media type and payload of a base64 data URL.
func ParseDataURL(u string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", nil, ErrDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrDataURL
	}
	typ, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return "", nil, fmt.Errorf("%w: unsupported encoding %q", ErrDataURL, enc)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrDataURL, err)
	}
	return typ, data, nil
}

// DecodeDataURL decodes the image carried by a data URL.
func DecodeDataURL(u string) (image.Image, error) {
	_, data, err := ParseDataURL(u)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d is over %d megapixels", ErrTooLarge, cfg.Width, cfg.Height, MaxPixels>>20)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%s: %w", format, ErrEmpty)
	}
	return img, nil
}

// Decode decodes the source's image.
func (s *Source) Decode() (image.Image, error) {
	img, err := DecodeDataURL(s.DataURL())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	return img, nil
}

// Stem is the file name up to its first dot.
func (s *Source) Stem() string {
	return Stem(s.Name)
}

// Stem returns the base of name up to its first dot, or "image" when
// that is empty.
func Stem(name string) string {
	base := filepath.Base(name)
	stem, _, _ := strings.Cut(base, ".")
	if stem == "" || stem == "/" {
		return "image"
	}
	return stem
}
