package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteDeterminism(t *testing.T) {
	// Two palettes built from the same seed and class count must agree on
	// every color, across runs and hosts.
	a := NewPalette(80, DefaultSeed)
	b := NewPalette(80, DefaultSeed)

	require.Equal(t, 80, a.Size())
	for id := 0; id < a.Size(); id++ {
		assert.Equal(t, a.Color(id), b.Color(id), "class %d color must be stable", id)
	}
}

func TestPaletteRepeatedLookupIsPure(t *testing.T) {
	p := NewPalette(10, 7)
	first := p.Color(3)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, p.Color(3))
	}
}

func TestPaletteSeedChangesTable(t *testing.T) {
	a := NewPalette(80, 42)
	b := NewPalette(80, 43)

	differs := false
	for id := 0; id < 80; id++ {
		if a.Color(id) != b.Color(id) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "different seeds should produce different tables")
}

func TestPaletteOutOfRangePanics(t *testing.T) {
	p := NewPalette(5, DefaultSeed)

	assert.Panics(t, func() { p.Color(5) })
	assert.Panics(t, func() { p.Color(-1) })
	assert.NotPanics(t, func() { p.Color(0) })
	assert.NotPanics(t, func() { p.Color(4) })
}

func TestPaletteColorsOpaque(t *testing.T) {
	p := NewPalette(80, DefaultSeed)
	for id := 0; id < p.Size(); id++ {
		assert.Equal(t, uint8(255), p.Color(id).A)
	}
}

func TestNewPaletteFromColors(t *testing.T) {
	colors := []color.RGBA{
		{R: 200, A: 255},
		{G: 128, A: 255},
	}
	p := NewPaletteFromColors(colors)

	require.Equal(t, 2, p.Size())
	assert.Equal(t, colors[0], p.Color(0))
	assert.Equal(t, colors[1], p.Color(1))

	// The palette owns its table; mutating the source slice changes nothing.
	colors[0].R = 0
	assert.Equal(t, uint8(200), p.Color(0).R)
}
