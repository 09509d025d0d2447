// Package render - the frame annotation core: deterministic class colors,
// additive mask compositing, and box/label drawing, composed into a
// per-frame transform.
//
// The pipeline mutates frames in place. Frame ownership is transient: each
// stage receives the frame, may mutate it, and passes it on; nothing here
// retains a frame past one call.
package render

import (
	"fmt"
	"image"

	"github.com/nvr-ai/go-segvis/segment"
)

// Renderer turns a frame plus its detections into an annotated frame,
// mutating the frame in place. Implementations are selected at
// configuration time: the custom Pipeline below, or a model library's own
// built-in plotting.
type Renderer interface {
	Render(frame *image.RGBA, detections []segment.Detection) error
}

// Options configure the custom annotation pipeline.
type Options struct {
	// MaskAlpha is the additive mask opacity.
	MaskAlpha float32
	// ShowLabels includes the class name in the label text.
	ShowLabels bool
	// ShowConfidence includes the confidence score in the label text.
	ShowConfidence bool
	// BoxThickness is the outline width in pixels.
	BoxThickness int
}

// DefaultOptions mirror the CLI defaults.
func DefaultOptions() Options {
	return Options{
		MaskAlpha:      0.3,
		ShowLabels:     true,
		ShowConfidence: true,
		BoxThickness:   2,
	}
}

// Pipeline is the custom Renderer: for each detection, in model output
// order, it composites the mask, draws the box outline, and draws the
// label, using one palette lookup per detection. Later detections draw
// over earlier ones, so overlapping masks compound additively and a later
// box can cross an earlier mask.
type Pipeline struct {
	palette    *Palette
	compositor *Compositor
	annotator  *Annotator
	opts       Options
}

// NewPipeline builds the custom annotation pipeline around a shared
// palette.
func NewPipeline(palette *Palette, opts Options) *Pipeline {
	return &Pipeline{
		palette:    palette,
		compositor: NewCompositor(palette),
		annotator:  NewAnnotator(),
		opts:       opts,
	}
}

// Render annotates the frame with every detection. Never fails; the error
// belongs to the Renderer contract shared with external implementations.
func (p *Pipeline) Render(frame *image.RGBA, detections []segment.Detection) error {
	for _, det := range detections {
		clr := p.palette.Color(det.ClassID)

		p.compositor.CompositeDetection(frame, det, p.opts.MaskAlpha, clr)
		p.annotator.DrawBox(frame, det.Box, clr, p.opts.BoxThickness)

		if text := p.labelText(det); text != "" {
			p.annotator.DrawLabel(frame, det.Box.Min, text, clr, White)
		}
	}
	return nil
}

// labelText resolves the label under the pipeline's display flags.
func (p *Pipeline) labelText(det segment.Detection) string {
	return LabelText(det, p.opts.ShowLabels, p.opts.ShowConfidence)
}

// LabelText assembles a detection's label according to the display flags:
// class name, confidence to two decimals, both, or nothing. No trailing
// separator when the confidence half is off.
func LabelText(det segment.Detection, showLabels, showConfidence bool) string {
	switch {
	case showLabels && showConfidence:
		return fmt.Sprintf("%s %.2f", det.ClassName, det.Score)
	case showLabels:
		return det.ClassName
	case showConfidence:
		return fmt.Sprintf("%.2f", det.Score)
	default:
		return ""
	}
}
