package onnx

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// prepareInput fills dst with the CHW float32 tensor the model expects:
// the frame square-resized to size×size, channels split, values scaled to
// [0,1]. There is no letterboxing; width and height are stretched
// independently and the returned scale factors map model coordinates back
// to frame coordinates.
//
// Arguments:
//   - frame: The frame to encode.
//   - dst: Destination tensor backing, at least 3*size*size floats.
//   - size: Square model input edge.
//
// Returns:
//   - float32: Horizontal scale, frame pixels per model pixel.
//   - float32: Vertical scale, frame pixels per model pixel.
//   - error: Destination too small for the requested size.
func prepareInput(frame *image.RGBA, dst []float32, size int) (float32, float32, error) {
	channelSize := size * size
	if len(dst) < channelSize*3 {
		return 0, 0, errors.Errorf(
			"destination tensor only holds %d floats, needs %d (make sure it's the right shape)",
			len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	b := frame.Bounds()
	resized := resize.Resize(uint(size), uint(size), frame, resize.Bilinear)

	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, bl, _ := resized.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(bl>>8) / 255.0
			i++
		}
	}

	return float32(b.Dx()) / float32(size), float32(b.Dy()) / float32(size), nil
}
