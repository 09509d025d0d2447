// Package segment - data model and collaborator contract for instance
// segmentation: one Detection per object instance carrying its mask, box,
// class, and confidence for a single frame.
package segment

import (
	"context"
	"image"

	"github.com/nvr-ai/go-segvis/images"
)

// Detection is one object instance detected in a frame.
type Detection struct {
	// Box is the bounding box in frame pixel coordinates.
	Box image.Rectangle
	// Mask is the instance mask as a probability grid, usually at a lower
	// resolution than the frame. Nil when the model emitted no mask for
	// this instance.
	Mask *images.Mask
	// Score is the detection confidence in [0,1].
	Score float32
	// ClassID indexes the class-name table.
	ClassID int
	// ClassName is the resolved human-readable class.
	ClassName string
}

// DetectOptions carries the per-call parameters a Detector honors.
type DetectOptions struct {
	// ScoreThreshold discards detections below this confidence.
	ScoreThreshold float32
	// Classes is an allow-list of class ids. Empty means all classes.
	Classes []int
}

// Detector produces the detections for one frame. Implementations must be
// deterministic for identical inputs so the annotation stage can be tested
// against a stub. The returned order is the model's own and downstream
// compositing preserves it.
type Detector interface {
	Detect(ctx context.Context, frame *image.RGBA, opts DetectOptions) ([]Detection, error)
}

// FilterByClass drops detections whose class id is not in the allow-list.
// An empty allow-list keeps everything.
//
// Arguments:
//   - detections: The detections to filter.
//   - classes: Allowed class ids.
//
// Returns:
//   - []Detection: The detections that survive the filter, in input order.
func FilterByClass(detections []Detection, classes []int) []Detection {
	if len(classes) == 0 {
		return detections
	}

	allowed := make(map[int]bool, len(classes))
	for _, c := range classes {
		allowed[c] = true
	}

	filtered := make([]Detection, 0, len(detections))
	for _, d := range detections {
		if allowed[d.ClassID] {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
