// Package video - OpenCV-backed adapters at the pipeline's edges: the
// capture source, the recording writer, and the display window. Frames
// cross into the pure-Go annotation core as *image.RGBA; gocv.Mat stays
// inside this package.
package video

import (
	"image"
	"image/draw"
	"strconv"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ParseDevice interprets a source identifier: an integer is a webcam
// index, anything else is a file path. Failing to parse is the path
// fallback, never an error.
func ParseDevice(identifier string) interface{} {
	if idx, err := strconv.Atoi(identifier); err == nil {
		return idx
	}
	return identifier
}

// Source wraps a gocv capture device or video file.
type Source struct {
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// OpenSource opens the capture device or file named by identifier.
//
// Arguments:
//   - identifier: Webcam index ("0") or video file path.
//
// Returns:
//   - *Source: The opened source.
//   - error: Open failure, fatal for the run.
func OpenSource(identifier string) (*Source, error) {
	device := ParseDevice(identifier)
	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "open video source %v", device)
	}
	return &Source{cap: cap, mat: gocv.NewMat()}, nil
}

// Read pulls the next frame. ok is false at end of stream or when the
// device stops delivering, which callers treat as a normal stop.
func (s *Source) Read() (*image.RGBA, bool) {
	if !s.cap.Read(&s.mat) || s.mat.Empty() {
		return nil, false
	}

	img, err := s.mat.ToImage()
	if err != nil {
		return nil, false
	}
	return toRGBA(img), true
}

// FPS reports the source frame rate as the device advertises it. Webcams
// may report zero.
func (s *Source) FPS() float64 {
	return s.cap.Get(gocv.VideoCaptureFPS)
}

// Size reports the source frame dimensions.
func (s *Source) Size() (width, height int) {
	return int(s.cap.Get(gocv.VideoCaptureFrameWidth)),
		int(s.cap.Get(gocv.VideoCaptureFrameHeight))
}

// Release closes the device. Must be called on every exit path.
func (s *Source) Release() {
	s.mat.Close()
	s.cap.Close()
}

// toRGBA reuses the decoded image when it already is RGBA and converts
// otherwise.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}
