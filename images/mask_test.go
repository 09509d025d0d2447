package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAtClampsEdges(t *testing.T) {
	m := NewMask(2, 2)
	m.Set(0, 0, 0.1)
	m.Set(1, 0, 0.2)
	m.Set(0, 1, 0.3)
	m.Set(1, 1, 0.4)

	assert.Equal(t, float32(0.1), m.At(-5, -5), "negative coords clamp to top-left")
	assert.Equal(t, float32(0.4), m.At(10, 10), "overflow coords clamp to bottom-right")
	assert.Equal(t, float32(0.2), m.At(1, -1))
}

func TestMaskResizeConstantGrid(t *testing.T) {
	// A constant probability field must stay constant at any scale,
	// otherwise thresholding would grow or shrink object coverage.
	m := NewMask(4, 4)
	for i := range m.Data {
		m.Data[i] = 0.9
	}

	up := m.Resize(16, 16)
	require.Equal(t, 16, up.W)
	require.Equal(t, 16, up.H)
	for i, v := range up.Data {
		assert.InDelta(t, 0.9, v, 1e-6, "pixel %d drifted", i)
	}

	down := m.Resize(2, 2)
	for _, v := range down.Data {
		assert.InDelta(t, 0.9, v, 1e-6)
	}
}

func TestMaskResizeSameSizeIsNoop(t *testing.T) {
	m := NewMask(8, 8)
	out := m.Resize(8, 8)
	assert.Same(t, m, out)
}

func TestMaskResizeInterpolatesBetweenSamples(t *testing.T) {
	// Left column 0, right column 1: the horizontal midline of the upscaled
	// grid must pass through intermediate values, monotonically.
	m := NewMask(2, 1)
	m.Set(0, 0, 0.0)
	m.Set(1, 0, 1.0)

	out := m.Resize(8, 1)
	require.Len(t, out.Data, 8)

	assert.Less(t, out.Data[0], float32(0.5))
	assert.Greater(t, out.Data[7], float32(0.5))
	for x := 1; x < 8; x++ {
		assert.GreaterOrEqual(t, out.Data[x], out.Data[x-1], "interpolation must be monotonic")
	}
}

func TestMaskMaxValue(t *testing.T) {
	m := NewMask(3, 3)
	assert.Equal(t, float32(0), m.MaxValue())

	m.Set(2, 1, 0.7)
	m.Set(0, 2, 0.4)
	assert.Equal(t, float32(0.7), m.MaxValue())
}

func BenchmarkMaskResize(b *testing.B) {
	m := NewMask(160, 160)
	for i := range m.Data {
		m.Data[i] = float32(i%255) / 255.0
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Resize(1280, 720)
	}
}
