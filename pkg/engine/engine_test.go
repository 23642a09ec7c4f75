package engine

import (
	"testing"

	"github.com/itohio/plotcore/config"
	"github.com/itohio/plotcore/x/axis"
)

func TestEngineEndToEnd(t *testing.T) {
	opts := config.Default()
	opts.DatasetMax = 2
	opts.AxisMax = 8
	opts.FigureMax = 8
	opts.SubtractMax = 4
	opts.ChunkMax = 16
	opts.ChunkCacheSize = 8
	opts.SketchChunk = 8

	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d, err := e.NewDataset(2, 16)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	for i := 0; i < 8; i++ {
		if err := e.Insert(d, []float32{float32(i), float32(i * i)}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	ax, err := e.AddAxis(axis.Free)
	if err != nil {
		t.Fatalf("AddAxis: %v", err)
	}
	ay, err := e.AddAxis(axis.Free)
	if err != nil {
		t.Fatalf("AddAxis: %v", err)
	}
	f, err := e.AddFigure(d, 0, 1, ax, ay, 0, 1, "sq")
	if err != nil {
		t.Fatalf("AddFigure: %v", err)
	}

	if err := e.ScaleAuto(ax); err != nil {
		t.Fatalf("ScaleAuto: %v", err)
	}
	if err := e.ScaleAuto(ay); err != nil {
		t.Fatalf("ScaleAuto: %v", err)
	}

	res, err := e.Slice(d, 1, 9)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if !res.Found || res.Value != 9 {
		t.Fatalf("Slice(9) = %+v, want value 9 (3^2)", res)
	}

	stats := e.Stats()
	if len(stats) != 1 || stats[0].Count != 8 {
		t.Fatalf("Stats = %+v, want one dataset with count 8", stats)
	}

	e.RemoveFigure(f)
	if e.Model().Axis(ax) != nil || e.Model().Axis(ay) != nil {
		t.Fatalf("expected both axes retired once their only figure is removed")
	}
}

func TestSubtractScaleWiring(t *testing.T) {
	opts := config.Default()
	opts.DatasetMax = 1
	opts.SubtractMax = 4
	opts.ChunkMax = 16
	opts.ChunkCacheSize = 8

	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d, _ := e.NewDataset(1, 8)
	ax, _ := e.AddAxis(axis.Free)
	ay, _ := e.AddAxis(axis.Free)
	f, err := e.AddFigure(d, -1, 0, ax, ay, 0, 1, "raw")
	if err != nil {
		t.Fatalf("AddFigure: %v", err)
	}

	derived, err := e.SubtractScale(f, 2, 1, "scaled")
	if err != nil {
		t.Fatalf("SubtractScale: %v", err)
	}

	for _, v := range []float32{1, 2, 3} {
		e.Insert(d, []float32{v})
	}
	e.Tick()

	fig := e.Model().Figure(derived)
	if fig == nil {
		t.Fatalf("expected derived figure to exist")
	}
	res, err := e.Slice(d, fig.ColumnY, 7) // 2*3+1 = 7
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if !res.Found || res.Value != 7 {
		t.Fatalf("Slice(7) on derived column = %+v", res)
	}
}
