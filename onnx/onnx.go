// Package onnx - YOLOv8-seg inference over ONNX Runtime: session
// lifecycle, square-resize preprocessing, box decoding, greedy NMS, and
// mask prototype decoding into per-detection probability grids.
package onnx

import (
	"context"
	"image"
	"log"
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-segvis/segment"
)

// modelLayout is the YOLOv8-seg output geometry: output0 is
// [1, 4+classes+coeffs, anchors] and output1 is [1, coeffs, proto, proto].
var modelLayout = outputLayout{
	anchors: 8400,
	classes: 80,
	coeffs:  32,
	proto:   160,
}

// Detector runs a YOLOv8-seg model through ONNX Runtime. It implements
// segment.Detector. The session holds preallocated input and output
// tensors, so calls are serialized with a mutex.
type Detector struct {
	config      Config
	session     *ort.AdvancedSession
	input       *ort.Tensor[float32]
	boxes       *ort.Tensor[float32]
	protos      *ort.Tensor[float32]
	layout      outputLayout
	initialized bool
	mu          sync.Mutex
}

// NewDetector loads the model and prepares an inference session.
//
// Arguments:
//   - config: Detector configuration; zero thresholds fall back to defaults.
//
// Returns:
//   - *Detector: The ready detector.
//   - error: Missing model file or ONNX Runtime initialization failure.
func NewDetector(config Config) (*Detector, error) {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return nil, errors.Errorf("model file not found: %s", config.ModelPath)
	}
	if config.InputSize <= 0 {
		config.InputSize = 640
	}
	if config.IoUThreshold <= 0 {
		config.IoUThreshold = 0.45
	}

	libPath := config.LibraryPath
	if libPath == "" {
		libPath = sharedLibPath()
	}

	if !ort.IsInitialized() {
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "initialize ONNX Runtime environment")
		}
	}

	d := &Detector{config: config, layout: modelLayout}
	if err := d.createSession(); err != nil {
		d.destroyTensors()
		return nil, err
	}

	d.initialized = true
	log.Printf("✅ ONNX detector initialized with model: %s", config.ModelPath)
	return d, nil
}

func (d *Detector) createSession() error {
	size := int64(d.config.InputSize)
	attrs := int64(4 + d.layout.classes + d.layout.coeffs)

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return errors.Wrap(err, "create input tensor")
	}
	d.input = input

	boxes, err := ort.NewEmptyTensor[float32](ort.NewShape(1, attrs, int64(d.layout.anchors)))
	if err != nil {
		return errors.Wrap(err, "create box output tensor")
	}
	d.boxes = boxes

	protos, err := ort.NewEmptyTensor[float32](ort.NewShape(
		1, int64(d.layout.coeffs), int64(d.layout.proto), int64(d.layout.proto)))
	if err != nil {
		return errors.Wrap(err, "create prototype output tensor")
	}
	d.protos = protos

	options, err := ort.NewSessionOptions()
	if err != nil {
		return errors.Wrap(err, "create session options")
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(d.config.IntraOpThreads)
	options.SetInterOpNumThreads(d.config.InterOpThreads)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		d.config.ModelPath,
		[]string{"images"},
		[]string{"output0", "output1"},
		[]ort.ArbitraryTensor{d.input},
		[]ort.ArbitraryTensor{d.boxes, d.protos},
		options,
	)
	if err != nil {
		return errors.Wrap(err, "create inference session")
	}
	d.session = session

	return nil
}

// Detect runs inference on one frame and returns its detections in model
// output order, already thresholded, class-filtered, suppressed, and with
// decoded instance masks.
//
// Arguments:
//   - ctx: Checked before inference starts; a running model call is not
//     interrupted.
//   - frame: The frame to detect objects in.
//   - opts: Score threshold and class allow-list for this call.
//
// Returns:
//   - []segment.Detection: The detected objects.
//   - error: An error if inference fails.
func (d *Detector) Detect(ctx context.Context, frame *image.RGBA, opts segment.DetectOptions) ([]segment.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return nil, errors.New("detector not initialized")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	scaleX, scaleY, err := prepareInput(frame, d.input.GetData(), d.config.InputSize)
	if err != nil {
		return nil, errors.Wrap(err, "prepare model input")
	}

	if err := d.session.Run(); err != nil {
		return nil, errors.Wrap(err, "run inference")
	}

	threshold := opts.ScoreThreshold
	if threshold <= 0 {
		threshold = d.config.ScoreThreshold
	}

	candidates := decodeCandidates(d.boxes.GetData(), d.layout, scaleX, scaleY, threshold, opts.Classes)
	candidates = suppress(candidates, d.config.IoUThreshold)

	b := frame.Bounds()
	return buildDetections(candidates, d.protos.GetData(), d.layout, b.Dx(), b.Dy())
}

// Close releases the session and its tensors.
func (d *Detector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		d.session.Destroy()
		d.session = nil
	}
	d.destroyTensors()
	d.initialized = false
	log.Printf("🔒 ONNX detector closed")
}

func (d *Detector) destroyTensors() {
	if d.input != nil {
		d.input.Destroy()
		d.input = nil
	}
	if d.boxes != nil {
		d.boxes.Destroy()
		d.boxes = nil
	}
	if d.protos != nil {
		d.protos.Destroy()
		d.protos = nil
	}
}
