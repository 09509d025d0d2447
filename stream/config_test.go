package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, float32(0.25), cfg.ScoreThreshold)
	assert.InDelta(t, 0.3, cfg.MaskAlpha, 1e-6)
	assert.True(t, cfg.ShowLabels)
	assert.True(t, cfg.ShowConfidence)
	assert.False(t, cfg.ShowFPS)
	assert.Empty(t, cfg.Classes, "all classes by default")
	assert.Empty(t, cfg.OutputPath, "no recording by default")
	assert.Equal(t, "YOLOv8 Instance Segmentation", cfg.WindowTitle)
}
