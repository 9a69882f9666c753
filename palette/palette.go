// Package palette holds the character sets used to turn luminance into
// glyphs. Every palette runs from darkest to lightest.
package palette

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

var (
	ErrTooShort = errors.New("palette needs at least 2 characters")
	ErrUnknown  = errors.New("unknown palette")
)

// Palette is an ordered set of characters, darkest first.
type Palette struct {
	Name  string
	Chars []rune
}

var (
	Standard = mustNew("standard", " .,:;i1tfLCG08@")
	Blocks   = mustNew("blocks", " ░▒▓█")
	Minimal  = mustNew("minimal", " .:░█")
	Detailed = mustNew("detailed", " .'`^\",:;Il!i><~+_-?][}{1)(|/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$")
)

var all = []Palette{Standard, Blocks, Minimal, Detailed}

// Default is used when no palette has been chosen.
const Default = "standard"

// New builds a palette from a string, one character per rune.
func New(name, chars string) (Palette, error) {
	if !utf8.ValidString(chars) {
		return Palette{}, fmt.Errorf("palette %q: invalid utf-8", name)
	}
	runes := []rune(chars)
	if len(runes) < 2 {
		return Palette{}, fmt.Errorf("palette %q: %w", name, ErrTooShort)
	}
	return Palette{Name: name, Chars: runes}, nil
}

func mustNew(name, chars string) Palette {
	p, err := New(name, chars)
	if err != nil {
		panic(err)
	}
	return p
}

// All returns the built-in palettes in display order.
func All() []Palette {
	out := make([]Palette, len(all))
	copy(out, all)
	return out
}

// Names returns the names of the built-in palettes in display order.
func Names() []string {
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// Lookup finds a built-in palette by name.
func Lookup(name string) (Palette, error) {
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return Palette{}, fmt.Errorf("%w %q", ErrUnknown, name)
}

// Next returns the name of the palette after name, wrapping around.
// Unknown names restart at the first palette.
func Next(name string) string {
	for i, p := range all {
		if p.Name == name {
			return all[(i+1)%len(all)].Name
		}
	}
	return all[0].Name
}

// Validate reports whether p can be used for mapping.
func (p Palette) Validate() error {
	if len(p.Chars) < 2 {
		return fmt.Errorf("palette %q: %w", p.Name, ErrTooShort)
	}
	return nil
}

// Len is the number of characters in the palette.
func (p Palette) Len() int {
	return len(p.Chars)
}

// Index maps a normalized brightness in [0,1] onto a character index.
// Out of range values are clamped.
func (p Palette) Index(normalized float64) int {
	if math.IsNaN(normalized) {
		return 0
	}
	last := len(p.Chars) - 1
	i := int(math.Floor(normalized * float64(last)))
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

// Char returns the character for a normalized brightness.
func (p Palette) Char(normalized float64) rune {
	return p.Chars[p.Index(normalized)]
}

// Contains reports whether r is one of the palette's characters.
func (p Palette) Contains(r rune) bool {
	for _, c := range p.Chars {
		if c == r {
			return true
		}
	}
	return false
}

func (p Palette) String() string {
	return string(p.Chars)
}
