package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nvr-ai/go-segvis/metrics"
	"github.com/nvr-ai/go-segvis/onnx"
	"github.com/nvr-ai/go-segvis/render"
	"github.com/nvr-ai/go-segvis/segment"
	"github.com/nvr-ai/go-segvis/stream"
	"github.com/nvr-ai/go-segvis/video"
)

const (
	// DefaultModelPath is the YOLOv8-seg model loaded when no flag is given.
	DefaultModelPath = "yolov8n-seg.onnx"
	// DefaultDevice is the capture source: webcam index or video file path.
	DefaultDevice = "0"
	// WindowTitle names the preview window.
	WindowTitle = "YOLOv8 Instance Segmentation"
)

func main() {
	var (
		modelPath   string
		device      string
		confidence  float64
		maskAlpha   float64
		classList   string
		saveOutput  bool
		showFPS     bool
		showLabels  bool
		showConf    bool
		customVis   bool
		metricsAddr string
	)
	flag.StringVar(&modelPath, "model", DefaultModelPath, "Path to YOLOv8-seg ONNX model file")
	flag.StringVar(&device, "device", DefaultDevice, "Video source: webcam index or video file path")
	flag.Float64Var(&confidence, "conf", 0.25, "Detection confidence threshold")
	flag.Float64Var(&maskAlpha, "mask-alpha", 0.3, "Mask overlay opacity")
	flag.StringVar(&classList, "classes", "", "Comma-separated class ids to keep (empty = all)")
	flag.BoolVar(&saveOutput, "save", false, "Record the annotated output to an mp4 file")
	flag.BoolVar(&showFPS, "show-fps", false, "Overlay the running frame rate")
	flag.BoolVar(&showLabels, "show-labels", true, "Draw class names on detections")
	flag.BoolVar(&showConf, "show-conf", true, "Draw confidence scores on detections")
	flag.BoolVar(&customVis, "custom-visualization", true, "Use the custom annotation pipeline instead of the model's built-in plot")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Prometheus listen address, e.g. :9090 (empty = disabled)")
	flag.Parse()

	if err := validateFlags(modelPath, confidence, maskAlpha); err != nil {
		log.Fatal(err)
	}

	classes, err := parseClassList(classList)
	if err != nil {
		log.Fatal(err)
	}

	cfg := stream.Config{
		ScoreThreshold: float32(confidence),
		Classes:        classes,
		MaskAlpha:      float32(maskAlpha),
		ShowFPS:        showFPS,
		ShowLabels:     showLabels,
		ShowConfidence: showConf,
		WindowTitle:    WindowTitle,
	}
	if saveOutput {
		cfg.OutputPath = video.OutputPath(modelPath, time.Now())
	}

	detectorCfg := onnx.DefaultConfig(modelPath)
	detectorCfg.ScoreThreshold = cfg.ScoreThreshold
	detector, err := onnx.NewDetector(detectorCfg)
	if err != nil {
		log.Fatalf("Error loading model %s: %v", modelPath, err)
	}
	defer detector.Close()

	source, err := video.OpenSource(device)
	if err != nil {
		log.Fatalf("Error opening video source %s: %v", device, err)
	}

	display := video.NewDisplay(cfg.WindowTitle)
	defer display.Close()

	var m *metrics.Metrics
	if metricsAddr != "" {
		m = metrics.New()
		go func() {
			if err := m.StartServer(metricsAddr); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	opts := stream.LoopOptions{
		Detector: detector,
		Renderer: newRenderer(cfg, customVis),
		Source:   source,
		Display:  display,
		Metrics:  m,
		Config:   cfg,
	}

	if cfg.OutputPath != "" {
		width, height := source.Size()
		sink, err := video.NewWriter(cfg.OutputPath, source.FPS(), width, height)
		if err != nil {
			source.Release()
			log.Fatalf("Error opening recording sink %s: %v", cfg.OutputPath, err)
		}
		opts.Sink = sink
	}

	printBanner(modelPath, device, cfg, customVis, metricsAddr)

	loop, err := stream.NewLoop(opts)
	if err != nil {
		source.Release()
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Pipeline error: %v", err)
	}

	if cfg.OutputPath != "" {
		fmt.Printf("💾 Annotated video saved to: %s\n", cfg.OutputPath)
	}
	fmt.Printf("👋 Done\n")
}

// newRenderer selects the annotation backend: the custom additive pipeline
// or the model's built-in plot.
func newRenderer(cfg stream.Config, custom bool) render.Renderer {
	if !custom {
		return onnx.NewPlotRenderer()
	}

	palette := render.NewPalette(segment.NumClasses, render.DefaultSeed)
	return render.NewPipeline(palette, render.Options{
		MaskAlpha:      cfg.MaskAlpha,
		ShowLabels:     cfg.ShowLabels,
		ShowConfidence: cfg.ShowConfidence,
		BoxThickness:   2,
	})
}

// validateFlags rejects unusable parameters before any device is opened.
func validateFlags(modelPath string, confidence, maskAlpha float64) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	if ext := strings.ToLower(filepath.Ext(modelPath)); ext != ".onnx" {
		return fmt.Errorf("unsupported model file extension: %s (expected .onnx)", ext)
	}
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("confidence threshold %.2f outside [0,1]", confidence)
	}
	if maskAlpha < 0 {
		return fmt.Errorf("mask alpha must not be negative, got %.2f", maskAlpha)
	}
	return nil
}

// parseClassList turns "0,2,7" into class ids. Empty input means no
// filtering.
func parseClassList(list string) ([]int, error) {
	if list == "" {
		return nil, nil
	}

	parts := strings.Split(list, ",")
	classes := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid class id %q in --classes", part)
		}
		if id < 0 || id >= segment.NumClasses {
			return nil, fmt.Errorf("class id %d outside the %d-class table", id, segment.NumClasses)
		}
		classes = append(classes, id)
	}
	return classes, nil
}

func printBanner(modelPath, device string, cfg stream.Config, customVis bool, metricsAddr string) {
	fmt.Printf("\n🚀 Instance Segmentation Pipeline Started\n")
	fmt.Printf("=====================================\n")
	fmt.Printf("⚙️  Configuration:\n")
	fmt.Printf("   🎯 Model: %s\n", modelPath)
	fmt.Printf("   📹 Source: %s\n", device)
	fmt.Printf("   📊 Confidence threshold: %.2f\n", cfg.ScoreThreshold)
	fmt.Printf("   🎨 Mask alpha: %.2f\n", cfg.MaskAlpha)
	if len(cfg.Classes) > 0 {
		fmt.Printf("   🔍 Class filter: %v\n", cfg.Classes)
	} else {
		fmt.Printf("   🔍 Class filter: all classes\n")
	}
	fmt.Printf("   🖌️  Renderer: %s\n", map[bool]string{true: "custom pipeline", false: "built-in plot"}[customVis])
	fmt.Printf("   🏷️  Labels: %t | Confidence: %t | FPS overlay: %t\n", cfg.ShowLabels, cfg.ShowConfidence, cfg.ShowFPS)
	if cfg.OutputPath != "" {
		fmt.Printf("   🎬 Recording to: %s\n", cfg.OutputPath)
	} else {
		fmt.Printf("   🎬 Recording: disabled\n")
	}
	if metricsAddr != "" {
		fmt.Printf("   📈 Metrics: http://%s/metrics\n", metricsAddr)
	}
	fmt.Printf("   ⌨️  Press 'q' in the window to quit\n")
	fmt.Printf("=====================================\n\n")
}
