package images

import "image"

// Rect is a lightweight bounding box in float32 coordinates. Model output
// boxes stay in float space through decoding and suppression; they are
// rounded to pixel coordinates only when a detection is finalized.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 float32
}

// ToImageRect rounds the box to integer pixel coordinates, clamped to the
// bounds of a w×h frame.
func (r Rect) ToImageRect(w, h int) image.Rectangle {
	x1 := int(Clamp(r.X1, 0, float32(w)))
	y1 := int(Clamp(r.Y1, 0, float32(h)))
	x2 := int(Clamp(r.X2, 0, float32(w)))
	y2 := int(Clamp(r.Y2, 0, float32(h)))
	return image.Rect(x1, y1, x2, y2)
}

// Area returns the box area, zero for degenerate boxes.
func (r Rect) Area() float32 {
	w := r.X2 - r.X1
	h := r.Y2 - r.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// CalculateIoU measures the overlap of two boxes as
// intersection area / union area, in [0,1]. 1.0 means identical boxes,
// 0.0 means disjoint. Detection suppression treats any pair above a
// configured threshold as duplicates of the same object.
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0 representing the IoU score.
func CalculateIoU(r, o Rect) float32 {
	// Intersection corners: maximum of the starts, minimum of the ends.
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	// Non-overlapping boxes have zero or negative extent.
	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	// Inclusion-exclusion: Union(A, B) = Area(A) + Area(B) - Intersection(A, B).
	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return interArea / unionArea
}
