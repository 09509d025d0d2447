// Package metrics - Prometheus counters for the annotation pipeline. All
// methods are safe on a nil receiver so callers can run without metrics
// wired.
package metrics

import (
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline counters exposed to Prometheus.
type Metrics struct {
	// Frame flow counters
	FramesRead      atomic.Uint64
	FramesAnnotated atomic.Uint64
	DetectionsTotal atomic.Uint64

	// Error counters
	DetectErrors atomic.Uint64

	// Latency and throughput
	InferenceLatencyMs atomic.Uint64
	fpsBits            atomic.Uint64 // float64 bits of the displayed FPS

	// Recording state
	RecordingActive atomic.Uint64 // 0 = inactive, 1 = active
	RecordingFrames atomic.Uint64

	registry *prometheus.Registry
}

// New creates a Metrics instance with its collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}
	m.registerPrometheusMetrics()
	return m
}

func (m *Metrics) registerPrometheusMetrics() {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "segvis_frames_read_total",
			Help: "Total frames read from the video source",
		},
		func() float64 { return float64(m.FramesRead.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "segvis_frames_annotated_total",
			Help: "Total frames run through the annotation pipeline",
		},
		func() float64 { return float64(m.FramesAnnotated.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "segvis_detections_total",
			Help: "Total detections returned by the model",
		},
		func() float64 { return float64(m.DetectionsTotal.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "segvis_detect_errors_total",
			Help: "Total detector invocation failures",
		},
		func() float64 { return float64(m.DetectErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "segvis_inference_latency_ms",
			Help: "Latest model inference latency in milliseconds",
		},
		func() float64 { return float64(m.InferenceLatencyMs.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "segvis_fps",
			Help: "Displayed frames-per-second over the current window",
		},
		func() float64 { return math.Float64frombits(m.fpsBits.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "segvis_recording_active",
			Help: "Recording active (0=inactive, 1=active)",
		},
		func() float64 { return float64(m.RecordingActive.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "segvis_recording_frames",
			Help: "Total frames written to the recording sink",
		},
		func() float64 { return float64(m.RecordingFrames.Load()) },
	))
}

// FrameRead counts one frame pulled from the source.
func (m *Metrics) FrameRead() {
	if m == nil {
		return
	}
	m.FramesRead.Add(1)
}

// FrameAnnotated counts one rendered frame and its detections.
func (m *Metrics) FrameAnnotated(detections int) {
	if m == nil {
		return
	}
	m.FramesAnnotated.Add(1)
	m.DetectionsTotal.Add(uint64(detections))
}

// DetectError counts one detector failure.
func (m *Metrics) DetectError() {
	if m == nil {
		return
	}
	m.DetectErrors.Add(1)
}

// ObserveInference records the latency of one detector call.
func (m *Metrics) ObserveInference(d time.Duration) {
	if m == nil {
		return
	}
	m.InferenceLatencyMs.Store(uint64(d.Milliseconds()))
}

// SetFPS publishes the displayed frame rate.
func (m *Metrics) SetFPS(fps float64) {
	if m == nil {
		return
	}
	m.fpsBits.Store(math.Float64bits(fps))
}

// SetRecording flags whether a recording sink is attached.
func (m *Metrics) SetRecording(active bool) {
	if m == nil {
		return
	}
	if active {
		m.RecordingActive.Store(1)
	} else {
		m.RecordingActive.Store(0)
	}
}

// FrameRecorded counts one frame written to the recording sink.
func (m *Metrics) FrameRecorded() {
	if m == nil {
		return
	}
	m.RecordingFrames.Add(1)
}

// Handler returns the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr. Blocks until the server exits.
func (m *Metrics) StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
