package render

import (
	"fmt"
	"image/color"
	"math/rand"
)

// DefaultSeed is the palette seed used across runs so recordings of the
// same scene stay comparable.
const DefaultSeed = 42

// Palette maps class ids to stable display colors. The table is drawn once
// from a seeded generator at construction: the same seed and class count
// produce the same table in every process, independent of call order or
// hardware.
type Palette struct {
	seed   int64
	colors []color.RGBA
}

// NewPalette builds a color table of numClasses entries from the given
// seed. Each channel is drawn uniformly from [0,255].
//
// Arguments:
//   - numClasses: Size of the class table the palette must cover.
//   - seed: Seed for the color generator.
//
// Returns:
//   - *Palette: The constructed palette.
func NewPalette(numClasses int, seed int64) *Palette {
	rng := rand.New(rand.NewSource(seed))
	colors := make([]color.RGBA, numClasses)
	for i := range colors {
		colors[i] = color.RGBA{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
			A: 255,
		}
	}
	return &Palette{seed: seed, colors: colors}
}

// NewPaletteFromColors wraps an explicit color table, for renderers that
// ship their own color scheme instead of the seeded one.
func NewPaletteFromColors(colors []color.RGBA) *Palette {
	table := make([]color.RGBA, len(colors))
	copy(table, colors)
	return &Palette{colors: table}
}

// Color returns the color assigned to classID. A class id outside the
// table is a caller contract violation and panics rather than wrapping or
// recoloring silently.
func (p *Palette) Color(classID int) color.RGBA {
	if classID < 0 || classID >= len(p.colors) {
		panic(fmt.Sprintf("render: class id %d outside palette of %d classes", classID, len(p.colors)))
	}
	return p.colors[classID]
}

// Size returns the number of classes the palette covers.
func (p *Palette) Size() int {
	return len(p.colors)
}

// Seed returns the seed the palette was built from.
func (p *Palette) Seed() int64 {
	return p.seed
}
