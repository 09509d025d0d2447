package onnx

// Config for the YOLOv8-seg ONNX detector.
type Config struct {
	// ModelPath is the .onnx model file.
	ModelPath string `json:"model_path"`
	// InputSize is the square model input edge in pixels.
	InputSize int `json:"input_size"`
	// ScoreThreshold discards candidates below this confidence when the
	// caller does not supply its own threshold.
	ScoreThreshold float32 `json:"score_threshold"`
	// IoUThreshold is the NMS overlap cutoff.
	IoUThreshold float32 `json:"iou_threshold"`
	// IntraOpThreads parallelizes execution within graph nodes. 0 uses the
	// runtime default.
	IntraOpThreads int `json:"intra_op_threads"`
	// InterOpThreads parallelizes execution across graph nodes. 0 uses the
	// runtime default.
	InterOpThreads int `json:"inter_op_threads"`
	// LibraryPath overrides the platform-default ONNX Runtime shared
	// library location.
	LibraryPath string `json:"library_path,omitempty"`
}

// DefaultConfig returns the standard YOLOv8-seg settings for a model file.
func DefaultConfig(modelPath string) Config {
	return Config{
		ModelPath:      modelPath,
		InputSize:      640,
		ScoreThreshold: 0.25,
		IoUThreshold:   0.45,
		IntraOpThreads: 4,
		InterOpThreads: 2,
	}
}
