package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-segvis/segment"
)

func TestPipelineLabelText(t *testing.T) {
	det := segment.Detection{ClassName: "person", Score: 0.903}

	tests := []struct {
		name     string
		labels   bool
		conf     bool
		expected string
	}{
		{name: "labels and confidence", labels: true, conf: true, expected: "person 0.90"},
		{name: "labels only", labels: true, conf: false, expected: "person"},
		{name: "confidence only", labels: false, conf: true, expected: "0.90"},
		{name: "neither", labels: false, conf: false, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(NewPalette(80, DefaultSeed), Options{
				ShowLabels:     tt.labels,
				ShowConfidence: tt.conf,
			})
			assert.Equal(t, tt.expected, p.labelText(det))
		})
	}
}

// TestPipelineScenario walks one detection through the full transform:
// a 4x4 black frame, box (0,0,2,2), full-coverage mask, class color
// (200,0,0), alpha 0.5.
func TestPipelineScenario(t *testing.T) {
	palette := NewPaletteFromColors([]color.RGBA{{R: 200, A: 255}})
	det := segment.Detection{
		Box:       image.Rect(0, 0, 2, 2),
		Mask:      fullMask(4, 4),
		Score:     0.9,
		ClassID:   0,
		ClassName: "person",
	}

	t.Run("compositing step in isolation", func(t *testing.T) {
		frame := blackFrame(4, 4)
		NewCompositor(palette).Composite(frame, []segment.Detection{det}, 0.5)

		// clamp(0 + 0.5*200) = 100 on red, everything else untouched.
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				px := frame.RGBAAt(x, y)
				require.Equal(t, uint8(100), px.R, "(%d,%d) red", x, y)
				require.Equal(t, uint8(0), px.G, "(%d,%d) green", x, y)
				require.Equal(t, uint8(0), px.B, "(%d,%d) blue", x, y)
			}
		}
	})

	t.Run("mask plus box outline", func(t *testing.T) {
		frame := blackFrame(4, 4)
		p := NewPipeline(palette, Options{MaskAlpha: 0.5, BoxThickness: 1})
		require.NoError(t, p.Render(frame, []segment.Detection{det}))

		// The 2x2 box with a 1px outline covers its own area entirely;
		// outline pixels carry the pure class color over the composite.
		assert.Equal(t, uint8(200), frame.RGBAAt(0, 0).R)
		assert.Equal(t, uint8(200), frame.RGBAAt(1, 1).R)

		// Outside the box only the mask contribution remains.
		assert.Equal(t, uint8(100), frame.RGBAAt(3, 3).R)
		assert.Equal(t, uint8(100), frame.RGBAAt(2, 2).R)
		assert.Equal(t, uint8(0), frame.RGBAAt(3, 3).G)
	})

	t.Run("label drawn above the box", func(t *testing.T) {
		// Same detection on a frame large enough for the label footprint.
		big := segment.Detection{
			Box:       image.Rect(10, 50, 60, 90),
			Mask:      fullMask(4, 4),
			Score:     0.9,
			ClassID:   0,
			ClassName: "person",
		}
		frame := blackFrame(200, 100)
		p := NewPipeline(palette, Options{
			MaskAlpha:      0.5,
			ShowLabels:     true,
			ShowConfidence: true,
			BoxThickness:   2,
		})
		require.NoError(t, p.Render(frame, []segment.Detection{big}))

		a := NewAnnotator()
		textW, textH := a.MeasureText("person 0.90")
		labelRect := image.Rect(10, 50-textH-8, 10+textW+8, 50)

		bg := color.RGBA{R: 200, A: 255}
		assert.Equal(t, bg, frame.RGBAAt(labelRect.Min.X, labelRect.Min.Y), "label background")
		assert.Greater(t, countColor(frame, labelRect, White), 0, "label text")
		assert.Equal(t, bg, frame.RGBAAt(10, 50), "box outline at anchor")
	})
}

func TestPipelineRenderOrderIsDetectionOrder(t *testing.T) {
	// The second detection's box must overdraw the first one's mask
	// contribution where they overlap.
	palette := NewPaletteFromColors([]color.RGBA{
		{R: 200, A: 255},
		{B: 200, A: 255},
	})
	frame := blackFrame(8, 8)
	dets := []segment.Detection{
		{Box: image.Rect(0, 0, 8, 8), Mask: fullMask(8, 8), Score: 0.9, ClassID: 0, ClassName: "a"},
		{Box: image.Rect(2, 2, 6, 6), Score: 0.8, ClassID: 1, ClassName: "b"},
	}

	p := NewPipeline(palette, Options{MaskAlpha: 0.5, BoxThickness: 1})
	require.NoError(t, p.Render(frame, dets))

	// Second box outline wrote pure blue over the red composite.
	assert.Equal(t, color.RGBA{B: 200, A: 255}, frame.RGBAAt(2, 2))
	// Pixels neither outline touched keep the composite red.
	assert.Equal(t, uint8(100), frame.RGBAAt(6, 6).R)
}

func TestPipelineOutOfRangeClassPanics(t *testing.T) {
	p := NewPipeline(NewPalette(2, DefaultSeed), DefaultOptions())
	frame := blackFrame(4, 4)
	dets := []segment.Detection{{Box: image.Rect(0, 0, 2, 2), ClassID: 7}}

	assert.Panics(t, func() { _ = p.Render(frame, dets) })
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.InDelta(t, 0.3, opts.MaskAlpha, 1e-6)
	assert.True(t, opts.ShowLabels)
	assert.True(t, opts.ShowConfidence)
	assert.Equal(t, 2, opts.BoxThickness)
}
