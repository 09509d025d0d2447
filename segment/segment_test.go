package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassName(t *testing.T) {
	tests := []struct {
		name     string
		classID  int
		expected string
	}{
		{name: "first class", classID: 0, expected: "person"},
		{name: "mid table", classID: 2, expected: "car"},
		{name: "last class", classID: 79, expected: "toothbrush"},
		{name: "negative id", classID: -1, expected: "unknown_-1"},
		{name: "beyond table", classID: 80, expected: "unknown_80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassName(tt.classID))
		})
	}
}

func TestClassTableSize(t *testing.T) {
	assert.Equal(t, 80, NumClasses)
}

func TestFilterByClass(t *testing.T) {
	detections := []Detection{
		{ClassID: 0, ClassName: "person"},
		{ClassID: 2, ClassName: "car"},
		{ClassID: 3, ClassName: "motorcycle"},
		{ClassID: 0, ClassName: "person"},
	}

	t.Run("empty allow-list keeps all", func(t *testing.T) {
		out := FilterByClass(detections, nil)
		assert.Len(t, out, 4)
	})

	t.Run("single class", func(t *testing.T) {
		out := FilterByClass(detections, []int{0})
		assert.Len(t, out, 2)
		for _, d := range out {
			assert.Equal(t, 0, d.ClassID)
		}
	})

	t.Run("multiple classes preserve order", func(t *testing.T) {
		out := FilterByClass(detections, []int{2, 3})
		assert.Len(t, out, 2)
		assert.Equal(t, "car", out[0].ClassName)
		assert.Equal(t, "motorcycle", out[1].ClassName)
	})

	t.Run("no matches", func(t *testing.T) {
		out := FilterByClass(detections, []int{42})
		assert.Empty(t, out)
	})
}
