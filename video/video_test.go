package video

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDevice(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		expected   interface{}
	}{
		{name: "webcam index", identifier: "0", expected: 0},
		{name: "secondary webcam", identifier: "2", expected: 2},
		{name: "negative index still parses", identifier: "-1", expected: -1},
		{name: "file path", identifier: "clip.mp4", expected: "clip.mp4"},
		{name: "absolute path", identifier: "/data/videos/cam.avi", expected: "/data/videos/cam.avi"},
		{name: "rtsp url", identifier: "rtsp://cam.local/stream", expected: "rtsp://cam.local/stream"},
		{name: "numeric-looking path", identifier: "0.mp4", expected: "0.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDevice(tt.identifier))
		})
	}
}

func TestOutputPath(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	tests := []struct {
		name      string
		modelPath string
		expected  string
	}{
		{
			name:      "bare model file",
			modelPath: "yolov8n-seg.onnx",
			expected:  "output_yolov8n-seg_20250314_150926.mp4",
		},
		{
			name:      "model in directory",
			modelPath: "models/checkpoints/yolov8x-seg.onnx",
			expected:  "output_yolov8x-seg_20250314_150926.mp4",
		},
		{
			name:      "stem without extension",
			modelPath: "custom-model",
			expected:  "output_custom-model_20250314_150926.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutputPath(tt.modelPath, at))
		})
	}
}
