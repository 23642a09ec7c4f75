package overlay

import (
	"testing"

	"github.com/itohio/plotcore/x/axis"
)

func TestLayoutAccumulatesMargins(t *testing.T) {
	m := axis.NewModel(4, 4)
	ax, _ := m.AddAxis(axis.BusyX)
	ay, _ := m.AddAxis(axis.BusyY)
	m.Axis(ax).Label = "time"

	margins, positions := Layout(m, 10, 20)
	if margins.Bottom != 30 {
		t.Fatalf("expected bottom margin 30 (axis+label), got %v", margins.Bottom)
	}
	if margins.Left != 10 {
		t.Fatalf("expected left margin 10, got %v", margins.Left)
	}
	if positions[ax] != 0 || positions[ay] != 0 {
		t.Fatalf("expected first axis on each side to start at position 0")
	}
}

func TestLegendHitTest(t *testing.T) {
	m := axis.NewModel(4, 4)
	ax, _ := m.AddAxis(axis.Free)
	ay, _ := m.AddAxis(axis.Free)
	f0, _ := m.AddFigure(0, 0, 1, ax, ay, 0, 1, "alpha")

	rows := LegendRows(m)
	if len(rows) != 1 || rows[0].Figure != f0 {
		t.Fatalf("expected one legend row for figure %d, got %+v", f0, rows)
	}

	if got := HitTest(rows, 10, 0, 5); got != f0 {
		t.Fatalf("HitTest = %d, want %d", got, f0)
	}
	if got := HitTest(rows, 10, 0, 50); got != -1 {
		t.Fatalf("HitTest out of range = %d, want -1", got)
	}
}

func TestMarkCountAndPositions(t *testing.T) {
	n := MarkCount(800, 8, 4)
	if n < 1 {
		t.Fatalf("expected at least one mark, got %d", n)
	}
	pos := MarkPositions(n)
	if len(pos) != n {
		t.Fatalf("expected %d positions, got %d", n, len(pos))
	}
	if pos[0] <= 0 || pos[len(pos)-1] >= 1 {
		t.Fatalf("expected positions strictly inside (0,1), got %v", pos)
	}
}

func TestDataBoxLines(t *testing.T) {
	b := DataBox{Mode: DataBoxSlice, Slice: SliceInfo{X: 1, Y: 2}}
	lines := b.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
}
