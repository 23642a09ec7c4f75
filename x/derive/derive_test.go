package derive

import (
	"testing"

	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/ring"
)

func newDataset(t *testing.T, columnN, k, length int) *ring.Dataset {
	t.Helper()
	d, err := ring.New(columnN, k, length, 4*4*(columnN+k), 64, 8, false)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	return d
}

func readColumn(d *ring.Dataset, col int) []float32 {
	c := d.NewCursorAtHead()
	var out []float32
	for {
		row, ok := d.Get(&c)
		if !ok {
			break
		}
		out = append(out, row[col])
	}
	return out
}

// TestTimeUnwrap is spec.md §8 scenario B.
func TestTimeUnwrap(t *testing.T) {
	d := newDataset(t, 1, 1, 8)
	p := New(d, 1)
	slot, err := p.AddTimeUnwrap(0)
	if err != nil {
		t.Fatalf("AddTimeUnwrap: %v", err)
	}

	for _, v := range []float32{0.0, 0.5, 1.0, 0.2, 0.7, 1.2} {
		d.Insert([]float32{v})
		p.SubtractUnbounded()
	}

	got := readColumn(d, p.Column(slot))
	want := []float32{0.0, 0.5, 1.0, 1.2, 1.7, 2.2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if diff := got[i] - want[i]; diff > 1e-5 || diff < -1e-5 {
			t.Fatalf("index %d: got %v, want %v", i, got, want)
		}
	}
}

// TestFilterCum is spec.md §8 invariant 4.
func TestFilterCum(t *testing.T) {
	d := newDataset(t, 1, 1, 8)
	p := New(d, 1)
	slot, err := p.AddFilterCum(0)
	if err != nil {
		t.Fatalf("AddFilterCum: %v", err)
	}

	values := []float32{1, numeric.NaN(), 2, 3}
	var want []float32
	var sum float32
	for _, v := range values {
		if numeric.Finite(v) {
			sum += v
		}
		want = append(want, sum)
		d.Insert([]float32{v})
		p.SubtractUnbounded()
	}

	got := readColumn(d, p.Column(slot))
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

// TestScale is spec.md §8 invariant 5.
func TestScale(t *testing.T) {
	d := newDataset(t, 1, 1, 8)
	p := New(d, 1)
	slot, err := p.AddScale(0, 2, 3)
	if err != nil {
		t.Fatalf("AddScale: %v", err)
	}
	for _, v := range []float32{1, 2, 3} {
		d.Insert([]float32{v})
	}
	p.SubtractUnbounded()

	got := readColumn(d, p.Column(slot))
	want := []float32{5, 7, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestScaleDeduplication(t *testing.T) {
	d := newDataset(t, 1, 4, 8)
	p := New(d, 4)
	s1, _ := p.AddScale(0, 2, 3)
	s2, _ := p.AddScale(0, 2, 3)
	if s1 != s2 {
		t.Fatalf("expected SCALE deduplication, got slots %d and %d", s1, s2)
	}
	s3, _ := p.AddScale(0, 5, 0)
	if s3 == s1 {
		t.Fatalf("expected a distinct slot for different parameters")
	}
}

func TestGarbageSweep(t *testing.T) {
	d := newDataset(t, 1, 3, 8)
	p := New(d, 3)
	base, _ := p.AddScale(0, 2, 0)
	chained, _ := p.AddScale(p.Column(base), 1, 1)
	orphan, _ := p.AddScale(0, 9, 9)

	live := map[int]bool{p.Column(chained): true}
	freed := p.GarbageSweep(live)

	if p.Slot(base).Kind == Free {
		t.Fatalf("base slot feeding a live slot should survive the sweep")
	}
	if p.Slot(chained).Kind == Free {
		t.Fatalf("directly live slot should survive the sweep")
	}
	if p.Slot(orphan).Kind != Free {
		t.Fatalf("orphan slot should be freed")
	}
	found := false
	for _, f := range freed {
		if f == orphan {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected orphan slot %d in freed list %v", orphan, freed)
	}
}

func TestFilterBitmaskValidation(t *testing.T) {
	d := newDataset(t, 1, 1, 8)
	p := New(d, 1)
	if _, err := p.AddFilterBitmask(0, 5, 2); err == nil {
		t.Fatalf("expected error for lo > hi")
	}
	if _, err := p.AddFilterBitmask(0, 0, 32); err == nil {
		t.Fatalf("expected error for hi >= 32")
	}
	if _, err := p.AddFilterBitmask(0, 4, 7); err != nil {
		t.Fatalf("valid bitmask rejected: %v", err)
	}
}

func TestSelfReferenceRejected(t *testing.T) {
	d := newDataset(t, 1, 1, 8)
	p := New(d, 1)
	col := p.Column(0)
	if _, err := p.AddScale(col, 1, 0); err == nil {
		t.Fatalf("expected ErrSelfReference")
	}
}
