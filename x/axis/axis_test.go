package axis

import (
	"testing"

	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
)

func newTestModel(t *testing.T) (*Model, *ring.Dataset, *rangecache.Cache, DatasetLookup) {
	t.Helper()
	d, err := ring.New(2, 0, 16, 4*4*2, 16, 8, false)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	rc := rangecache.New(8)
	d.RegisterInvalidator(rc)
	m := NewModel(8, 8)
	lookup := func(dataset int) *ring.Dataset {
		if dataset == 0 {
			return d
		}
		return nil
	}
	return m, d, rc, lookup
}

func TestAddFigureRejectsCoincidentAxes(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	ax, _ := m.AddAxis(Free)
	if _, err := m.AddFigure(0, 0, 1, ax, ax, 0, 1, "f"); err != ErrCoincidentAxes {
		t.Fatalf("got %v, want ErrCoincidentAxes", err)
	}
}

func TestRemoveRetiresUnreferencedAxis(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	ax, _ := m.AddAxis(Free)
	ay, _ := m.AddAxis(Free)
	f, err := m.AddFigure(0, 0, 1, ax, ay, 0, 1, "f")
	if err != nil {
		t.Fatalf("AddFigure: %v", err)
	}
	m.Remove(f)
	if m.Axis(ax) != nil || m.Axis(ay) != nil {
		t.Fatalf("expected both axes retired after removing their only figure")
	}
}

// TestSlaveBakeOut is spec.md §8 scenario F: Hold turns an independent
// axis into a slave without a visual jump, and Disable bakes the
// composed transform back out into an independent axis, again without a
// jump.
func TestSlaveBakeOut(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	base, _ := m.AddAxis(Free)
	slave, _ := m.AddAxis(Free)

	m.Axis(base).Scale = 2
	m.Axis(base).Offset = 1
	m.Axis(slave).Scale = 5
	m.Axis(slave).Offset = -2

	before := m.Convert(slave, 10)

	if err := m.Slave(slave, base, 0, 0, SlaveHold); err != nil {
		t.Fatalf("Slave hold: %v", err)
	}
	if !m.Axis(slave).IsSlave() {
		t.Fatalf("expected slave axis enslaved after Hold")
	}
	mid := m.Convert(slave, 10)
	if before != mid {
		t.Fatalf("Hold should preserve the composed conversion: before=%v mid=%v", before, mid)
	}

	if err := m.Slave(slave, base, 0, 0, SlaveDisable); err != nil {
		t.Fatalf("Slave disable: %v", err)
	}
	if m.Axis(slave).IsSlave() {
		t.Fatalf("expected slave axis detached after Disable")
	}
	after := m.Convert(slave, 10)
	if before != after {
		t.Fatalf("Disable should preserve the composed conversion: before=%v after=%v", before, after)
	}
}

func TestSlaveOfSlaveRejected(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	a, _ := m.AddAxis(Free)
	b, _ := m.AddAxis(Free)
	c, _ := m.AddAxis(Free)
	if err := m.Slave(b, a, 1, 0, SlaveEnable); err != nil {
		t.Fatalf("Slave: %v", err)
	}
	if err := m.Slave(c, b, 1, 0, SlaveEnable); err != ErrSlaveOfSlave {
		t.Fatalf("got %v, want ErrSlaveOfSlave", err)
	}
}

func TestSlaveCycleRejected(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	a, _ := m.AddAxis(Free)
	if err := m.Slave(a, a, 1, 0, SlaveEnable); err != ErrSlaveCycle {
		t.Fatalf("got %v, want ErrSlaveCycle", err)
	}
}

func TestBaseCannotBeReEnslaved(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	a, _ := m.AddAxis(Free)
	b, _ := m.AddAxis(Free)
	c, _ := m.AddAxis(Free)
	if err := m.Slave(b, a, 1, 0, SlaveEnable); err != nil {
		t.Fatalf("Slave: %v", err)
	}
	if err := m.Slave(a, c, 1, 0, SlaveEnable); err != ErrAlreadyBase {
		t.Fatalf("got %v, want ErrAlreadyBase", err)
	}
}

// TestScaleAutoFromData is spec.md §8 invariant 6/7's essence: auto-scale
// fits axis range to the true min/max observed via the range cache.
func TestScaleAutoFromData(t *testing.T) {
	m, d, rc, lookup := newTestModel(t)
	ax, _ := m.AddAxis(Free)
	ay, _ := m.AddAxis(Free)
	if _, err := m.AddFigure(0, 0, 1, ax, ay, 0, 1, "f"); err != nil {
		t.Fatalf("AddFigure: %v", err)
	}

	for _, row := range [][2]float32{{0, 10}, {1, 20}, {2, 5}} {
		d.Insert(row[:])
	}

	if err := m.ScaleAuto(ay, rc, lookup); err != nil {
		t.Fatalf("ScaleAuto: %v", err)
	}
	lo := m.Convert(ay, 5)
	hi := m.Convert(ay, 20)
	if lo < -1e-5 || lo > 1e-5 {
		t.Fatalf("min value should map near 0, got %v", lo)
	}
	if hi < 1-1e-5 || hi > 1+1e-5 {
		t.Fatalf("max value should map near 1, got %v", hi)
	}
}
