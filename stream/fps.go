package stream

import "time"

// FPSEstimator measures loop throughput over one-second windows. The
// displayed value refreshes only at window boundaries, trading
// responsiveness for a stable, readable number.
type FPSEstimator struct {
	count       int
	windowStart time.Time
	displayed   float64
}

// NewFPSEstimator starts a measurement window at now.
func NewFPSEstimator(now time.Time) *FPSEstimator {
	return &FPSEstimator{windowStart: now}
}

// Tick records one processed frame. When the window has spanned at least
// one second the displayed rate becomes count/elapsed and the window
// resets. Between boundaries the previous value holds; before the first
// boundary it is zero.
//
// Arguments:
//   - now: The current time.
//
// Returns:
//   - float64: The displayed frames-per-second value.
func (e *FPSEstimator) Tick(now time.Time) float64 {
	e.count++

	if elapsed := now.Sub(e.windowStart).Seconds(); elapsed >= 1.0 {
		e.displayed = float64(e.count) / elapsed
		e.count = 0
		e.windowStart = now
	}

	return e.displayed
}

// FPS returns the displayed rate without recording a frame.
func (e *FPSEstimator) FPS() float64 {
	return e.displayed
}
