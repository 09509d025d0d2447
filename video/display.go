package video

import (
	"image"
	"log"

	"gocv.io/x/gocv"
)

// Display is an on-screen preview window.
type Display struct {
	window *gocv.Window
}

// NewDisplay opens a named window.
func NewDisplay(title string) *Display {
	return &Display{window: gocv.NewWindow(title)}
}

// Show renders the frame into the window.
func (d *Display) Show(frame *image.RGBA) {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		log.Printf("display: convert frame: %v", err)
		return
	}
	defer mat.Close()
	d.window.IMShow(mat)
}

// PollKey waits up to timeoutMs for a key press, returning -1 when none
// arrived. The wait also pumps the window's event loop, so it must run
// every iteration even when the caller ignores the key.
func (d *Display) PollKey(timeoutMs int) int {
	return d.window.WaitKey(timeoutMs)
}

// Close destroys the window.
func (d *Display) Close() {
	if err := d.window.Close(); err != nil {
		log.Printf("display: close window: %v", err)
	}
}
