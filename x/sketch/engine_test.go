package sketch

import (
	"image"
	"testing"

	"github.com/itohio/plotcore/x/axis"
	"github.com/itohio/plotcore/x/collab"
	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
)

type fakeRasterizer struct {
	trialLines int
	canvasPts  int
}

func (f *fakeRasterizer) ClearTrial() {}
func (f *fakeRasterizer) TrialLine(last, cur collab.Point2D, color int, width float32) bool {
	f.trialLines++
	return true
}
func (f *fakeRasterizer) TrialDot(p collab.Point2D, width float32, color int) bool { return true }
func (f *fakeRasterizer) CanvasLine(surface image.Image, vp collab.Viewport, pts []collab.Point2D, color int, width float32) {
	f.canvasPts += len(pts)
}
func (f *fakeRasterizer) CanvasDash(surface image.Image, vp collab.Viewport, pts []collab.Point2D, color int, width float32) {
	f.canvasPts += len(pts)
}
func (f *fakeRasterizer) CanvasDot(surface image.Image, vp collab.Viewport, pts []collab.Point2D, color int, width float32) {
	f.canvasPts += len(pts)
}
func (f *fakeRasterizer) DashReset() {}

type fakeClock struct{ ms int64 }

func (c *fakeClock) NowMillis() int64 { c.ms += 5; return c.ms }

func TestEngineAdvanceAndDraw(t *testing.T) {
	d, err := ring.New(2, 0, 16, 4*4*2, 16, 8, false)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	rc := rangecache.New(8)
	d.RegisterInvalidator(rc)
	for i := 0; i < 8; i++ {
		d.Insert([]float32{float32(i), float32(i * 2)})
	}

	m := axis.NewModel(4, 4)
	ax, _ := m.AddAxis(axis.Free)
	ay, _ := m.AddAxis(axis.Free)
	if err := m.ScaleAuto(ax, rc, func(int) *ring.Dataset { return d }); err != nil {
		t.Fatalf("ScaleAuto x: %v", err)
	}
	if err := m.ScaleAuto(ay, rc, func(int) *ring.Dataset { return d }); err != nil {
		t.Fatalf("ScaleAuto y: %v", err)
	}
	if _, err := m.AddFigure(0, 0, 1, ax, ay, int(collab.DrawLine), 1, "f"); err != nil {
		t.Fatalf("AddFigure: %v", err)
	}

	pool := NewPool(8, 4)
	eng := NewEngine(pool, 4, 16)
	lookup := func(int) *ring.Dataset { return d }
	viewport := collab.Viewport{X: 0, Y: 0, W: 100, H: 100}
	rast := &fakeRasterizer{}
	clock := &fakeClock{}

	finished := false
	for i := 0; i < 100 && !finished; i++ {
		finished = eng.Advance(m, lookup, rc, viewport, rast, clock, clock.ms+1000)
	}
	if !finished {
		t.Fatalf("expected the pass to finish")
	}
	if rast.trialLines == 0 {
		t.Fatalf("expected at least one trial line test")
	}

	eng.Draw(m, nil, viewport, rast)
	if rast.canvasPts == 0 {
		t.Fatalf("expected Draw to replay at least one point")
	}
}
