package onnx

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-segvis/images"
	"github.com/nvr-ai/go-segvis/segment"
)

// outputLayout describes the geometry of the model's raw outputs. output0
// is attribute-major: out[a*anchors+i] is attribute a of anchor i, with
// attributes ordered box (4), class scores, mask coefficients. output1 is
// the prototype stack: coeffs planes of proto×proto floats.
type outputLayout struct {
	anchors int
	classes int
	coeffs  int
	proto   int
}

// candidate is one anchor that survived thresholding, before suppression
// and mask decoding. The box is already in frame coordinates.
type candidate struct {
	box     images.Rect
	score   float32
	classID int
	coeffs  []float32
}

// decodeCandidates scans the raw box output and keeps every anchor whose
// best class score clears the threshold and whose class is allowed. Box
// centers and extents arrive in model input pixels and are mapped to frame
// coordinates with the preprocessing scale factors.
//
// Arguments:
//   - out: Flattened output0 tensor data.
//   - layout: Output geometry.
//   - scaleX: Frame pixels per model pixel, horizontal.
//   - scaleY: Frame pixels per model pixel, vertical.
//   - threshold: Minimum class score.
//   - classes: Allow-list of class ids; empty keeps all.
//
// Returns:
//   - []candidate: Surviving anchors in anchor order.
func decodeCandidates(out []float32, layout outputLayout, scaleX, scaleY, threshold float32, classes []int) []candidate {
	var allowed map[int]bool
	if len(classes) > 0 {
		allowed = make(map[int]bool, len(classes))
		for _, c := range classes {
			allowed[c] = true
		}
	}

	coeffBase := 4 + layout.classes
	var candidates []candidate

	for i := 0; i < layout.anchors; i++ {
		classID := 0
		score := float32(0)
		for c := 0; c < layout.classes; c++ {
			if s := out[(4+c)*layout.anchors+i]; s > score {
				score = s
				classID = c
			}
		}
		if score < threshold {
			continue
		}
		if allowed != nil && !allowed[classID] {
			continue
		}

		cx := out[0*layout.anchors+i]
		cy := out[1*layout.anchors+i]
		w := out[2*layout.anchors+i]
		h := out[3*layout.anchors+i]

		coeffs := make([]float32, layout.coeffs)
		for k := 0; k < layout.coeffs; k++ {
			coeffs[k] = out[(coeffBase+k)*layout.anchors+i]
		}

		candidates = append(candidates, candidate{
			box: images.Rect{
				X1: (cx - w/2) * scaleX,
				Y1: (cy - h/2) * scaleY,
				X2: (cx + w/2) * scaleX,
				Y2: (cy + h/2) * scaleY,
			},
			score:   score,
			classID: classID,
			coeffs:  coeffs,
		})
	}

	return candidates
}

// suppress applies greedy non-maximum suppression: candidates are visited
// in descending score order and any later candidate overlapping a kept one
// above the IoU threshold is dropped.
func suppress(candidates []candidate, iouThreshold float32) []candidate {
	if len(candidates) == 0 {
		return candidates
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var result []candidate
	used := make([]bool, len(candidates))

	for i := 0; i < len(candidates); i++ {
		if used[i] {
			continue
		}
		result = append(result, candidates[i])
		used[i] = true

		for j := i + 1; j < len(candidates); j++ {
			if used[j] {
				continue
			}
			if images.CalculateIoU(candidates[i].box, candidates[j].box) > iouThreshold {
				used[j] = true
			}
		}
	}

	return result
}

// buildDetections decodes instance masks for the kept candidates and
// assembles the final detections. Each mask is the candidate's coefficient
// vector multiplied against the prototype stack, passed through a sigmoid,
// and cropped to the candidate's box; the resulting proto-resolution grid
// covers the full frame and upsamples at composite time.
//
// Arguments:
//   - candidates: Suppressed candidates.
//   - protoData: Flattened output1 tensor data.
//   - layout: Output geometry.
//   - frameW: Frame width in pixels.
//   - frameH: Frame height in pixels.
//
// Returns:
//   - []segment.Detection: The final detections, one per candidate.
//   - error: Mask matrix multiplication failure.
func buildDetections(candidates []candidate, protoData []float32, layout outputLayout, frameW, frameH int) ([]segment.Detection, error) {
	detections := make([]segment.Detection, 0, len(candidates))
	if len(candidates) == 0 {
		return detections, nil
	}

	area := layout.proto * layout.proto

	flat := make([]float32, len(candidates)*layout.coeffs)
	for i, c := range candidates {
		copy(flat[i*layout.coeffs:], c.coeffs)
	}

	coeffT := tensor.New(tensor.WithShape(len(candidates), layout.coeffs), tensor.Of(tensor.Float32), tensor.WithBacking(flat))
	protoT := tensor.New(tensor.WithShape(layout.coeffs, area), tensor.Of(tensor.Float32), tensor.WithBacking(protoData[:layout.coeffs*area]))

	prod, err := tensor.MatMul(coeffT, protoT)
	if err != nil {
		return nil, errors.Wrap(err, "multiply mask coefficients against prototypes")
	}
	raw := prod.Data().([]float32)

	for i, c := range candidates {
		mask := images.NewMask(layout.proto, layout.proto)

		// Crop to the box in prototype space; outside stays zero.
		px1 := clampIndex(int(c.box.X1*float32(layout.proto)/float32(frameW)), 0, layout.proto)
		py1 := clampIndex(int(c.box.Y1*float32(layout.proto)/float32(frameH)), 0, layout.proto)
		px2 := clampIndex(int(c.box.X2*float32(layout.proto)/float32(frameW))+1, 0, layout.proto)
		py2 := clampIndex(int(c.box.Y2*float32(layout.proto)/float32(frameH))+1, 0, layout.proto)

		row := raw[i*area : (i+1)*area]
		for y := py1; y < py2; y++ {
			for x := px1; x < px2; x++ {
				mask.Data[y*layout.proto+x] = sigmoid(row[y*layout.proto+x])
			}
		}

		detections = append(detections, segment.Detection{
			Box:       c.box.ToImageRect(frameW, frameH),
			Mask:      mask,
			Score:     c.score,
			ClassID:   c.classID,
			ClassName: segment.ClassName(c.classID),
		})
	}

	return detections, nil
}

func sigmoid(x float32) float32 {
	return 1.0 / (1.0 + math32.Exp(-x))
}

func clampIndex(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
