// Command plotdemo exercises pkg/engine end-to-end: it builds one
// dataset, derives a scaled column, inserts synthetic rows in one loop,
// and drives the progressive draw loop against a no-op rasterizer.
// Grounded on cmd/display/main.go's flag + log/slog + signal-cancellation
// shape, the application-level half of the logging split SPEC_FULL.md's
// ambient stack section describes (zerolog inside the library, slog at
// the process boundary).
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itohio/plotcore/config"
	"github.com/itohio/plotcore/pkg/engine"
	"github.com/itohio/plotcore/x/axis"
	"github.com/itohio/plotcore/x/collab"
)

func main() {
	rows := flag.Int("rows", 200, "number of synthetic rows to insert")
	frames := flag.Int("frames", 5, "number of draw frames to run")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, *rows, *frames); err != nil {
		slog.Error("plotdemo failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, rows, frames int) error {
	opts := config.Default()
	slog.Info("constructing engine", "dataset_max", opts.DatasetMax, "chunk_max", opts.ChunkMax)

	e, err := engine.New(opts)
	if err != nil {
		return fmt.Errorf("engine.New: %w", err)
	}

	d, err := e.NewDataset(2, rows)
	if err != nil {
		return fmt.Errorf("NewDataset: %w", err)
	}

	axisX, err := e.AddAxis(axis.Free)
	if err != nil {
		return err
	}
	axisY, err := e.AddAxis(axis.Free)
	if err != nil {
		return err
	}
	fig, err := e.AddFigure(d, 0, 1, axisX, axisY, int(collab.DrawLine), 1, "signal")
	if err != nil {
		return fmt.Errorf("AddFigure: %w", err)
	}

	if _, err := e.SubtractScale(fig, 0.5, 0, "half"); err != nil {
		return fmt.Errorf("SubtractScale: %w", err)
	}

	for i := 0; i < rows; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		t := float32(i)
		v := t * t
		if err := e.Insert(d, []float32{t, v}); err != nil {
			return fmt.Errorf("Insert: %w", err)
		}
	}
	e.Tick()

	if err := e.ScaleAuto(axisX); err != nil {
		return err
	}
	if err := e.ScaleAuto(axisY); err != nil {
		return err
	}

	rast := &noopRasterizer{}
	clock := &wallClock{}
	viewport := collab.Viewport{X: 0, Y: 0, W: 800, H: 600}

	for f := 0; f < frames; f++ {
		for {
			deadline := clock.NowMillis() + opts.FrameBudgetMillis
			if e.Advance(viewport, rast, clock, deadline) {
				break
			}
		}
		e.Draw(image.NewRGBA(image.Rect(0, 0, 800, 600)), viewport, rast)
		slog.Info("frame drawn", "frame", f, "trial_lines", rast.trialLines, "canvas_segments", rast.canvasSegments)
	}

	for _, s := range e.Stats() {
		slog.Info("dataset stats", "dataset", s.Dataset, "count", s.Count, "head_id", s.HeadID, "tail_id", s.TailID, "derived_used", s.DerivedUsed)
	}
	return nil
}

// noopRasterizer treats every trial as visible and counts canvas calls,
// standing in for the rasterizer collaborator spec.md §6 declares but
// never implements in this repo.
type noopRasterizer struct {
	trialLines     int
	canvasSegments int
}

func (r *noopRasterizer) ClearTrial() {}
func (r *noopRasterizer) TrialLine(last, cur collab.Point2D, color int, width float32) bool {
	r.trialLines++
	return true
}
func (r *noopRasterizer) TrialDot(p collab.Point2D, width float32, color int) bool { return true }
func (r *noopRasterizer) CanvasLine(surface image.Image, vp collab.Viewport, pts []collab.Point2D, color int, width float32) {
	r.canvasSegments++
}
func (r *noopRasterizer) CanvasDash(surface image.Image, vp collab.Viewport, pts []collab.Point2D, color int, width float32) {
	r.canvasSegments++
}
func (r *noopRasterizer) CanvasDot(surface image.Image, vp collab.Viewport, pts []collab.Point2D, color int, width float32) {
	r.canvasSegments++
}
func (r *noopRasterizer) DashReset() {}

type wallClock struct{}

func (wallClock) NowMillis() int64 { return time.Now().UnixMilli() }
