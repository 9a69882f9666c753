package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"standard", "blocks", "minimal", "detailed"}, Names())

	p, err := Lookup("blocks")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, '░', p.Chars[1])
	assert.Equal(t, " ░▒▓█", p.String())

	_, err = Lookup("emoji")
	assert.ErrorIs(t, err, ErrUnknown)

	for _, p := range All() {
		assert.NoError(t, p.Validate(), p.Name)
		assert.Equal(t, ' ', p.Chars[0], "%s starts with the darkest character", p.Name)
	}
}

func TestNew(t *testing.T) {
	_, err := New("empty", "")
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = New("one", "█")
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = New("bad", "\xff\xfe")
	assert.Error(t, err)

	p, err := New("two", " █")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
}

func TestIndex(t *testing.T) {
	for i, tcase := range []struct {
		normalized float64
		expected   int
	}{
		{0, 0},
		{-0.5, 0},
		{0.07, 0},
		{0.0715, 1},
		{0.299, 4},
		{0.5, 7},
		{0.9999, 13},
		{1, 14},
		{3, 14},
	} {
		assert.Equal(t, tcase.expected, Standard.Index(tcase.normalized), "case %d", i)
	}
}

func TestCharAndContains(t *testing.T) {
	assert.Equal(t, ';', Standard.Char(0.299))
	assert.Equal(t, '@', Standard.Char(1))
	assert.True(t, Detailed.Contains('$'))
	assert.False(t, Minimal.Contains('@'))
}

func TestNext(t *testing.T) {
	assert.Equal(t, "blocks", Next("standard"))
	assert.Equal(t, "standard", Next("detailed"))
	assert.Equal(t, "standard", Next("nope"))
}
