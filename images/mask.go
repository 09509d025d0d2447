package images

// Mask is a single object's segmentation mask: a row-major grid of
// per-pixel probabilities in [0,1]. Model output masks are typically at a
// lower resolution than the frame they describe and are resized up before
// compositing.
type Mask struct {
	W, H int
	Data []float32
}

// NewMask allocates a zeroed W×H probability grid.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Data: make([]float32, w*h)}
}

// At returns the probability at (x, y). Coordinates outside the grid are
// clamped to the nearest edge sample.
func (m *Mask) At(x, y int) float32 {
	if x < 0 {
		x = 0
	} else if x >= m.W {
		x = m.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= m.H {
		y = m.H - 1
	}
	return m.Data[y*m.W+x]
}

// Set writes the probability at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, v float32) {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return
	}
	m.Data[y*m.W+x] = v
}

// Resize returns the mask resampled to w×h with bilinear interpolation.
// Source coordinates use the pixel-center convention, so a constant grid
// resizes to the same constant and edges are not shifted. Returns the
// receiver unchanged when the size already matches.
//
// Arguments:
// - w: Target width in pixels.
// - h: Target height in pixels.
//
// Returns:
// - A new Mask of the requested size (or the receiver if no-op).
func (m *Mask) Resize(w, h int) *Mask {
	if w == m.W && h == m.H {
		return m
	}

	out := NewMask(w, h)
	scaleX := float32(m.W) / float32(w)
	scaleY := float32(m.H) / float32(h)

	Parallel(h, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			// Map target pixel center back into source space.
			sy := (float32(y)+0.5)*scaleY - 0.5
			y0 := int(floor32(sy))
			fy := sy - float32(y0)

			for x := 0; x < w; x++ {
				sx := (float32(x)+0.5)*scaleX - 0.5
				x0 := int(floor32(sx))
				fx := sx - float32(x0)

				// Triangle-weighted blend of the four neighbors.
				top := m.At(x0, y0)*(1-fx) + m.At(x0+1, y0)*fx
				bottom := m.At(x0, y0+1)*(1-fx) + m.At(x0+1, y0+1)*fx
				out.Data[y*w+x] = top*(1-fy) + bottom*fy
			}
		}
	})

	return out
}

// MaxValue returns the largest probability in the grid. A mask whose
// maximum sits below the occupancy threshold contributes nothing when
// composited.
func (m *Mask) MaxValue() float32 {
	var max float32
	for _, v := range m.Data {
		if v > max {
			max = v
		}
	}
	return max
}

func floor32(v float32) float32 {
	f := float32(int(v))
	if f > v {
		return f - 1
	}
	return f
}
