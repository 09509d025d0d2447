package onnx

import (
	"image"

	"github.com/nvr-ai/go-segvis/images"
	"github.com/nvr-ai/go-segvis/render"
	"github.com/nvr-ai/go-segvis/segment"
)

// plotAlpha is the fixed mask opacity of the built-in plot.
const plotAlpha = 0.5

// PlotRenderer is the model library's own visualization: a convex alpha
// blend of the class color over masked pixels, plus box and label. It is
// the alternative to the custom additive pipeline and deliberately looks
// different — overlaps average toward the top color instead of compounding.
type PlotRenderer struct {
	palette   *render.Palette
	annotator *render.Annotator
}

// NewPlotRenderer returns the built-in renderer with the standard seeded
// palette.
func NewPlotRenderer() *PlotRenderer {
	return &PlotRenderer{
		palette:   render.NewPalette(segment.NumClasses, render.DefaultSeed),
		annotator: render.NewAnnotator(),
	}
}

// Render draws every detection with the built-in style, mutating the frame
// in place.
func (p *PlotRenderer) Render(frame *image.RGBA, detections []segment.Detection) error {
	for _, det := range detections {
		clr := p.palette.Color(det.ClassID)

		p.blendMask(frame, det)
		p.annotator.DrawBox(frame, det.Box, clr, 2)
		p.annotator.DrawLabel(frame, det.Box.Min, render.LabelText(det, true, true), clr, render.White)
	}
	return nil
}

// blendMask applies frame[p] = (1-alpha)*frame[p] + alpha*color over the
// occupied mask pixels.
func (p *PlotRenderer) blendMask(frame *image.RGBA, det segment.Detection) {
	if det.Mask == nil {
		return
	}

	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	clr := p.palette.Color(det.ClassID)
	mask := det.Mask.Resize(w, h)

	images.Parallel(h, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			rowStart := frame.PixOffset(b.Min.X, b.Min.Y+y)
			row := frame.Pix[rowStart : rowStart+w*4]
			maskRow := mask.Data[y*w : y*w+w]
			for x := 0; x < w; x++ {
				if maskRow[x] <= render.MaskThreshold {
					continue
				}
				i := x * 4
				// Round to nearest when storing, like the additive blend.
				row[i] = uint8((1-plotAlpha)*float32(row[i]) + plotAlpha*float32(clr.R) + 0.5)
				row[i+1] = uint8((1-plotAlpha)*float32(row[i+1]) + plotAlpha*float32(clr.G) + 0.5)
				row[i+2] = uint8((1-plotAlpha)*float32(row[i+2]) + plotAlpha*float32(clr.B) + 0.5)
			}
		}
	})
}
