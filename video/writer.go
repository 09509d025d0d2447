package video

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FourCC is the codec tag for recordings.
const FourCC = "mp4v"

// fallbackFPS is used when the source cannot report its own rate.
const fallbackFPS = 30.0

// OutputPath builds the recording file name from the model file and a
// timestamp: output_<modelStem>_<YYYYMMDD_HHMMSS>.mp4.
//
// Arguments:
//   - modelPath: The model file the run used; only its stem appears.
//   - now: Timestamp baked into the name.
//
// Returns:
//   - string: The output file name.
func OutputPath(modelPath string, now time.Time) string {
	base := filepath.Base(modelPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("output_%s_%s.mp4", stem, now.Format("20060102_150405"))
}

// Writer records annotated frames to an mp4 file.
type Writer struct {
	writer *gocv.VideoWriter
	path   string
}

// NewWriter opens an mp4 recording sink at path.
//
// Arguments:
//   - path: Destination file.
//   - fps: Recording frame rate; zero or negative falls back to 30.
//   - width: Frame width in pixels.
//   - height: Frame height in pixels.
//
// Returns:
//   - *Writer: The opened sink.
//   - error: Open failure.
func NewWriter(path string, fps float64, width, height int) (*Writer, error) {
	if fps <= 0 {
		fps = fallbackFPS
	}

	w, err := gocv.VideoWriterFile(path, FourCC, fps, width, height, true)
	if err != nil {
		return nil, errors.Wrapf(err, "open video writer %s", path)
	}
	return &Writer{writer: w, path: path}, nil
}

// Path returns the destination file.
func (w *Writer) Path() string {
	return w.path
}

// Write appends one frame to the recording.
func (w *Writer) Write(frame *image.RGBA) error {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return errors.Wrap(err, "convert frame for recording")
	}
	defer mat.Close()

	if err := w.writer.Write(mat); err != nil {
		return errors.Wrapf(err, "write frame to %s", w.path)
	}
	return nil
}

// Close finalizes the recording file.
func (w *Writer) Close() error {
	return w.writer.Close()
}
