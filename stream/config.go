// Package stream - the capture/record loop driving the annotation
// pipeline: pull a frame, detect, render, display, record, poll for quit.
// One frame is in flight at a time; throughput is bounded by the slowest
// stage.
package stream

// Config carries the immutable per-run parameters of the loop.
type Config struct {
	// ScoreThreshold is the minimum confidence forwarded to the detector.
	ScoreThreshold float32 `json:"score_threshold"`
	// Classes is the class-id allow-list. Empty means all classes.
	Classes []int `json:"classes,omitempty"`
	// MaskAlpha is the additive mask opacity.
	MaskAlpha float32 `json:"mask_alpha"`
	// ShowFPS overlays the running frame rate on the output.
	ShowFPS bool `json:"show_fps"`
	// ShowLabels includes class names in labels.
	ShowLabels bool `json:"show_labels"`
	// ShowConfidence includes scores in labels.
	ShowConfidence bool `json:"show_confidence"`
	// OutputPath is the recording destination. Empty disables recording.
	OutputPath string `json:"output_path,omitempty"`
	// WindowTitle names the display window.
	WindowTitle string `json:"window_title"`
}

// DefaultConfig returns the standard run parameters.
func DefaultConfig() Config {
	return Config{
		ScoreThreshold: 0.25,
		MaskAlpha:      0.3,
		ShowLabels:     true,
		ShowConfidence: true,
		WindowTitle:    "YOLOv8 Instance Segmentation",
	}
}
