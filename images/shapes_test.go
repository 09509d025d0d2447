package images

import (
	"image"
	"math"
	"testing"
)

// TestIoU_Correctness validates the IoU implementation against known test cases
func TestIoU_Correctness(t *testing.T) {
	tests := []struct {
		name     string
		r1       Rect
		r2       Rect
		expected float32
		epsilon  float32
	}{
		{
			name:     "Identical rectangles",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{0, 0, 100, 100},
			expected: 1.0,
			epsilon:  0.001,
		},
		{
			name:     "No overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{200, 200, 300, 300},
			expected: 0.0,
			epsilon:  0.001,
		},
		{
			name:     "Touching edges",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{100, 0, 200, 100},
			expected: 0.0,
			epsilon:  0.001,
		},
		{
			name:     "Half overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{50, 50, 150, 150},
			expected: 0.142857, // intersection=2500, union=10000+10000-2500=17500, iou=1/7
			epsilon:  0.001,
		},
		{
			name:     "One inside other",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{25, 25, 75, 75},
			expected: 0.25, // intersection=2500, union=10000, iou=0.25
			epsilon:  0.001,
		},
		{
			name:     "Degenerate box",
			r1:       Rect{10, 10, 10, 50},
			r2:       Rect{0, 0, 100, 100},
			expected: 0.0,
			epsilon:  0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateIoU(tt.r1, tt.r2)
			if math.Abs(float64(result-tt.expected)) > float64(tt.epsilon) {
				t.Errorf("IoU() = %v, expected %v (±%v)", result, tt.expected, tt.epsilon)
			}

			// IoU(A, B) must equal IoU(B, A).
			reverse := CalculateIoU(tt.r2, tt.r1)
			if math.Abs(float64(result-reverse)) > float64(tt.epsilon) {
				t.Errorf("IoU not symmetric: %v vs %v", result, reverse)
			}
		})
	}
}

func TestRectToImageRect(t *testing.T) {
	tests := []struct {
		name     string
		r        Rect
		w, h     int
		expected image.Rectangle
	}{
		{
			name:     "Inside frame",
			r:        Rect{10.4, 20.9, 100.1, 200.7},
			w:        640,
			h:        480,
			expected: image.Rect(10, 20, 100, 200),
		},
		{
			name:     "Clamped to frame",
			r:        Rect{-15, -3, 700, 500},
			w:        640,
			h:        480,
			expected: image.Rect(0, 0, 640, 480),
		},
		{
			name:     "Fully outside",
			r:        Rect{-50, -50, -10, -10},
			w:        640,
			h:        480,
			expected: image.Rect(0, 0, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.ToImageRect(tt.w, tt.h)
			if got != tt.expected {
				t.Errorf("ToImageRect() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func BenchmarkCalculateIoU(b *testing.B) {
	r1 := Rect{0, 0, 100, 100}
	r2 := Rect{50, 50, 150, 150}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CalculateIoU(r1, r2)
	}
}
