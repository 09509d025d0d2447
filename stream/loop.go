package stream

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-segvis/metrics"
	"github.com/nvr-ai/go-segvis/render"
	"github.com/nvr-ai/go-segvis/segment"
)

// State tracks where the loop is in its lifecycle.
type State int

const (
	// StateIdle means Run has not been called yet.
	StateIdle State = iota
	// StateRunning means the per-frame cycle is active.
	StateRunning
	// StateStopped means the loop has exited and released its resources.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// QuitKey stops the loop when the display reports it pressed.
const QuitKey = 'q'

// Source yields frames. Read returns ok=false at end of stream, which the
// loop treats as a normal exit, not an error.
type Source interface {
	Read() (*image.RGBA, bool)
	Release()
}

// Sink receives annotated frames for recording.
type Sink interface {
	Write(frame *image.RGBA) error
	Close() error
}

// Display shows annotated frames and surfaces key presses. PollKey blocks
// at most timeoutMs milliseconds and returns -1 when no key was pressed.
type Display interface {
	Show(frame *image.RGBA)
	PollKey(timeoutMs int) int
}

// LoopOptions wires the loop's collaborators. Detector, Renderer, and
// Source are required; Sink, Display, and Metrics are optional.
type LoopOptions struct {
	Detector segment.Detector
	Renderer render.Renderer
	Source   Source
	Sink     Sink
	Display  Display
	Metrics  *metrics.Metrics
	Config   Config
}

// Loop drives the synchronous per-frame cycle: read, detect, render,
// overlay FPS, display, record, poll for quit. One frame is in flight at a
// time and no frame is retained across iterations. The source and sink are
// scoped to the loop's lifetime and released on every exit path.
type Loop struct {
	detector  segment.Detector
	renderer  render.Renderer
	source    Source
	sink      Sink
	display   Display
	metrics   *metrics.Metrics
	annotator *render.Annotator
	config    Config
	state     State
}

// NewLoop validates the collaborators and returns an idle loop.
func NewLoop(opts LoopOptions) (*Loop, error) {
	if opts.Detector == nil {
		return nil, errors.New("stream: detector is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("stream: renderer is required")
	}
	if opts.Source == nil {
		return nil, errors.New("stream: source is required")
	}

	return &Loop{
		detector:  opts.Detector,
		renderer:  opts.Renderer,
		source:    opts.Source,
		sink:      opts.Sink,
		display:   opts.Display,
		metrics:   opts.Metrics,
		annotator: render.NewAnnotator(),
		config:    opts.Config,
		state:     StateIdle,
	}, nil
}

// State reports the loop lifecycle state.
func (l *Loop) State() State {
	return l.state
}

// Run executes the capture cycle until end of stream, a quit key press,
// context cancellation, or a collaborator error. Cancellation is
// cooperative: it is polled once per iteration, so a blocking read or
// detector call finishes before the loop notices.
//
// The source is released and the sink closed, in that order, before Run
// returns, regardless of the exit path.
func (l *Loop) Run(ctx context.Context) error {
	if l.state != StateIdle {
		return errors.Errorf("stream: loop already %s", l.state)
	}

	l.state = StateRunning
	l.metrics.SetRecording(l.sink != nil)
	defer l.release()

	fps := NewFPSEstimator(time.Now())
	opts := segment.DetectOptions{
		ScoreThreshold: l.config.ScoreThreshold,
		Classes:        l.config.Classes,
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, ok := l.source.Read()
		if !ok {
			// End of stream.
			return nil
		}
		l.metrics.FrameRead()

		start := time.Now()
		detections, err := l.detector.Detect(ctx, frame, opts)
		if err != nil {
			l.metrics.DetectError()
			return errors.Wrap(err, "detect frame")
		}
		l.metrics.ObserveInference(time.Since(start))

		if err := l.renderer.Render(frame, detections); err != nil {
			return errors.Wrap(err, "render frame")
		}
		l.metrics.FrameAnnotated(len(detections))

		rate := fps.Tick(time.Now())
		l.metrics.SetFPS(rate)
		if l.config.ShowFPS {
			l.annotator.DrawText(frame, fmt.Sprintf("FPS: %.1f", rate), image.Pt(20, 40), render.Green)
		}

		if l.display != nil {
			l.display.Show(frame)
		}

		if l.sink != nil {
			if err := l.sink.Write(frame); err != nil {
				return errors.Wrap(err, "write frame to sink")
			}
			l.metrics.FrameRecorded()
		}

		if l.display != nil && l.display.PollKey(1) == QuitKey {
			return nil
		}
	}
}

// release tears down the source first, then the sink, unconditionally.
func (l *Loop) release() {
	l.state = StateStopped
	l.source.Release()
	if l.sink != nil {
		if err := l.sink.Close(); err != nil {
			log.Printf("closing recording sink: %v", err)
		}
	}
	l.metrics.SetRecording(false)
}
