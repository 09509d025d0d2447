package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// labelMargin pads the label background around the text footprint.
	labelMargin = 8
	// labelInset offsets the text baseline inside the label background.
	labelInset = 4
)

// White is the fixed high-contrast label text color.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Green is the FPS overlay color.
var Green = color.RGBA{G: 255, A: 255}

// Annotator draws box outlines, labels, and overlay text onto a frame.
// Text uses a fixed-metric bitmap face so measurement stays exact and
// deterministic across platforms.
type Annotator struct {
	face font.Face
}

// NewAnnotator returns an Annotator with the default label face.
func NewAnnotator() *Annotator {
	return &Annotator{face: basicfont.Face7x13}
}

// DrawBox draws a rectangle outline of the given thickness, no fill.
// Strips are clipped to the frame, so boxes touching the edge degrade to
// partial outlines instead of failing.
func (a *Annotator) DrawBox(frame *image.RGBA, box image.Rectangle, clr color.RGBA, thickness int) {
	if thickness <= 0 || box.Empty() {
		return
	}

	top := image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+thickness)
	bottom := image.Rect(box.Min.X, box.Max.Y-thickness, box.Max.X, box.Max.Y)
	left := image.Rect(box.Min.X, box.Min.Y, box.Min.X+thickness, box.Max.Y)
	right := image.Rect(box.Max.X-thickness, box.Min.Y, box.Max.X, box.Max.Y)

	for _, strip := range [4]image.Rectangle{top, bottom, left, right} {
		fillRect(frame, strip, clr)
	}
}

// MeasureText returns the pixel footprint (width, height) of text at the
// label face.
func (a *Annotator) MeasureText(text string) (int, int) {
	w := font.MeasureString(a.face, text).Ceil()
	m := a.face.Metrics()
	return w, m.Ascent.Ceil() + m.Descent.Ceil()
}

// DrawLabel draws a filled background sized to the text footprint plus the
// label margin, its bottom-left corner at anchor, then the text inside in
// fg. The anchor is a box's top-left corner, so the label sits just above
// the box. A label that would extend past the frame top is shifted down to
// start at the top edge instead of being cut off.
//
// Arguments:
//   - frame: The frame to draw into.
//   - anchor: Bottom-left corner of the label background.
//   - text: Label content; empty text draws nothing.
//   - bg: Background fill, the detection's class color.
//   - fg: Text color.
func (a *Annotator) DrawLabel(frame *image.RGBA, anchor image.Point, text string, bg, fg color.RGBA) {
	if text == "" {
		return
	}

	textW, textH := a.MeasureText(text)
	rect := image.Rect(
		anchor.X,
		anchor.Y-textH-labelMargin,
		anchor.X+textW+labelMargin,
		anchor.Y,
	)

	// Keep the label on screen when the anchor hugs the frame top.
	if top := frame.Bounds().Min.Y; rect.Min.Y < top {
		shift := top - rect.Min.Y
		rect = rect.Add(image.Pt(0, shift))
		anchor = anchor.Add(image.Pt(0, shift))
	}

	fillRect(frame, rect, bg)
	a.DrawText(frame, text, image.Pt(anchor.X+labelInset, anchor.Y-labelInset), fg)
}

// DrawText draws text with its baseline starting at origin.
func (a *Annotator) DrawText(frame *image.RGBA, text string, origin image.Point, clr color.RGBA) {
	d := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(clr),
		Face: a.face,
		Dot:  fixed.P(origin.X, origin.Y),
	}
	d.DrawString(text)
}

func fillRect(frame *image.RGBA, r image.Rectangle, clr color.RGBA) {
	draw.Draw(frame, r.Intersect(frame.Bounds()), image.NewUniform(clr), image.Point{}, draw.Src)
}
