package render

import (
	"image"
	"image/color"

	"github.com/nvr-ai/go-segvis/images"
	"github.com/nvr-ai/go-segvis/segment"
)

// MaskThreshold is the probability above which a resized mask pixel counts
// as occupied by the object.
const MaskThreshold = 0.5

// Compositor blends instance masks into a frame. The blend is an additive
// saturating composite, not a convex alpha blend:
//
//	frame[p] = clamp(frame[p] + alpha*color, 0, 255)
//
// applied per channel. Overlapping masks therefore compound brightness
// toward their class colors instead of averaging. That compounding is an
// intended, observable property of the rendering.
type Compositor struct {
	palette *Palette
}

// NewCompositor returns a Compositor drawing class colors from palette.
func NewCompositor(palette *Palette) *Compositor {
	return &Compositor{palette: palette}
}

// Composite folds the detection sequence into the frame in order, one
// additive step per detection. The frame is mutated in place. An empty
// sequence leaves it byte-for-byte unchanged.
//
// Arguments:
//   - frame: The frame to composite into.
//   - detections: Detections in model output order.
//   - alpha: Mask opacity; values outside [0,1] are accepted, the clamp
//     absorbs them.
func (c *Compositor) Composite(frame *image.RGBA, detections []segment.Detection, alpha float32) {
	for _, det := range detections {
		c.CompositeDetection(frame, det, alpha, c.palette.Color(det.ClassID))
	}
}

// CompositeDetection applies one detection's mask to the frame: the mask
// is resized to the frame with bilinear interpolation, thresholded into an
// occupancy grid, and occupied pixels receive the additive contribution
// alpha*clr. Detections without a mask are a no-op.
func (c *Compositor) CompositeDetection(frame *image.RGBA, det segment.Detection, alpha float32, clr color.RGBA) {
	if det.Mask == nil {
		return
	}

	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	mask := det.Mask.Resize(w, h)
	r := alpha * float32(clr.R)
	g := alpha * float32(clr.G)
	bl := alpha * float32(clr.B)

	images.Parallel(h, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			rowStart := frame.PixOffset(b.Min.X, b.Min.Y+y)
			row := frame.Pix[rowStart : rowStart+w*4]
			maskRow := mask.Data[y*w : y*w+w]
			for x := 0; x < w; x++ {
				if maskRow[x] <= MaskThreshold {
					continue
				}
				i := x * 4
				// Round to nearest when storing, matching saturate_cast
				// semantics; truncation would lose up to 1 LSB per step.
				row[i] = uint8(images.Clamp(float32(row[i])+r+0.5, 0, 255))
				row[i+1] = uint8(images.Clamp(float32(row[i+1])+g+0.5, 0, 255))
				row[i+2] = uint8(images.Clamp(float32(row[i+2])+bl+0.5, 0, 255))
			}
		}
	})
}
