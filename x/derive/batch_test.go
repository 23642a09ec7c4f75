package derive

import (
	"testing"

	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
)

// TestResampleThenBinarySubtract is spec.md §8 scenario C: dataset X has
// rows (t=0,y=0),(t=1,y=10); dataset Y has rows (t=0.5,y=5). A RESAMPLE of
// Y.y against X.t, binary-subtracted from X.y, yields [-5, 5] (the first
// row holds Y's only sample as its "last valid" boundary value).
func TestResampleThenBinarySubtract(t *testing.T) {
	dx := newDataset(t, 2, 2, 8)
	dy := newDataset(t, 2, 0, 8)

	dy.Insert([]float32{0.5, 5})

	px := New(dx, 2)
	resample, err := px.AddResample(dy, 1, 0, 0)
	if err != nil {
		t.Fatalf("AddResample: %v", err)
	}
	binary, err := px.AddBinary(BinarySub, 1, px.Column(resample))
	if err != nil {
		t.Fatalf("AddBinary: %v", err)
	}

	dx.Insert([]float32{0, 0})
	dx.Insert([]float32{1, 10})

	if err := px.RecomputeResample(resample); err != nil {
		t.Fatalf("RecomputeResample: %v", err)
	}
	px.SubtractUnbounded()

	got := readColumn(dx, px.Column(binary))
	want := []float32{-5, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

// fakeLeastSquares fits y against whatever nx-wide monomial basis row
// Insert receives (the last element of each row is always y) by solving
// the normal equations for an intercept plus one coefficient per input
// column, standing in for the real external solver (spec.md §6) purely
// to exercise RecomputePolyfit at any degree.
type fakeLeastSquares struct {
	nx   int
	rows [][]float32
}

func (f *fakeLeastSquares) Initiate(cascades, nx, nz int) error {
	f.nx = nx
	f.rows = nil
	return nil
}

func (f *fakeLeastSquares) Insert(row []float32) error {
	cp := append([]float32(nil), row...)
	f.rows = append(f.rows, cp)
	return nil
}

// Finalise solves for c in A*c = y (A's first column is the implicit
// intercept term) via Gaussian elimination on the normal equations
// A^T*A*c = A^T*y.
func (f *fakeLeastSquares) Finalise() ([]float32, []float32, error) {
	n := f.nx + 1
	ata := make([][]float64, n)
	aty := make([]float64, n)
	for i := range ata {
		ata[i] = make([]float64, n)
	}
	for _, row := range f.rows {
		y := float64(row[f.nx])
		basis := make([]float64, n)
		basis[0] = 1
		for i := 0; i < f.nx; i++ {
			basis[i+1] = float64(row[i])
		}
		for i := 0; i < n; i++ {
			aty[i] += basis[i] * y
			for j := 0; j < n; j++ {
				ata[i][j] += basis[i] * basis[j]
			}
		}
	}

	for col := 0; col < n; col++ {
		piv := col
		for r := col + 1; r < n; r++ {
			if ata[r][col]*ata[r][col] > ata[piv][col]*ata[piv][col] {
				piv = r
			}
		}
		ata[col], ata[piv] = ata[piv], ata[col]
		aty[col], aty[piv] = aty[piv], aty[col]
		if ata[col][col] == 0 {
			continue
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := ata[r][col] / ata[col][col]
			for c := col; c < n; c++ {
				ata[r][c] -= factor * ata[col][c]
			}
			aty[r] -= factor * aty[col]
		}
	}

	coeffs := make([]float32, n)
	for i := 0; i < n; i++ {
		if ata[i][i] != 0 {
			coeffs[i] = float32(aty[i] / ata[i][i])
		}
	}
	return coeffs, []float32{0}, nil
}

// TestPolyfitEvaluatesAtXColumn guards against evaluating the fitted
// polynomial at the Y source column instead of the X column it was fit
// against: y = 2x exactly, so every row's POLYFIT output must equal its own
// x value's fit, not a function of its own y value.
func TestPolyfitEvaluatesAtXColumn(t *testing.T) {
	d := newDataset(t, 2, 1, 8) // col0 = x, col1 = y
	p := New(d, 1)
	slot, err := p.AddPolyfit(1, 0, 1)
	if err != nil {
		t.Fatalf("AddPolyfit: %v", err)
	}

	for _, x := range []float32{0, 1, 2, 3} {
		d.Insert([]float32{x, 2 * x})
	}

	rc := newRangeCacheForTest(d)
	solver := &fakeLeastSquares{}
	if err := p.RecomputePolyfit(slot, solver, rc, 1, 0); err != nil {
		t.Fatalf("RecomputePolyfit: %v", err)
	}

	got := readColumn(d, p.Column(slot))
	xs := readColumn(d, 0)
	for i := range xs {
		want := 2 * xs[i]
		if diff := got[i] - want; diff > 1e-3 || diff < -1e-3 {
			t.Fatalf("row %d: got %v want %v (evaluated at wrong column if this fails)", i, got[i], want)
		}
	}
}

// TestPolyfitDegreeWiring guards against slot.Degree being a silent
// no-op: y = 3 + 2x - x^2 is only recoverable from a degree-2 fit, so a
// wrong (e.g. hardcoded degree-1) basis or solver setup could not
// reproduce it.
func TestPolyfitDegreeWiring(t *testing.T) {
	d := newDataset(t, 2, 1, 8) // col0 = x, col1 = y
	p := New(d, 1)
	slot, err := p.AddPolyfit(1, 0, 2)
	if err != nil {
		t.Fatalf("AddPolyfit: %v", err)
	}

	for _, x := range []float32{-2, -1, 0, 1, 2, 3} {
		y := 3 + 2*x - x*x
		d.Insert([]float32{x, y})
	}

	rc := newRangeCacheForTest(d)
	solver := &fakeLeastSquares{}
	// scaleX/offsetX map every inserted x (-2..3) into [0,1] so all six
	// rows are visible to the fit; a narrower window would leave fewer
	// points than the degree needs.
	if err := p.RecomputePolyfit(slot, solver, rc, 0.2, 0.4); err != nil {
		t.Fatalf("RecomputePolyfit: %v", err)
	}
	if solver.nx != 2 {
		t.Fatalf("expected solver to be initiated with nx=2 (degree), got %d", solver.nx)
	}
	for _, row := range solver.rows {
		if len(row) != 3 {
			t.Fatalf("expected degree-2 basis rows of length 3 (x, x^2, y), got %v", row)
		}
	}

	got := readColumn(d, p.Column(slot))
	xs := readColumn(d, 0)
	for i := range xs {
		want := 3 + 2*xs[i] - xs[i]*xs[i]
		if diff := got[i] - want; diff > 1e-2 || diff < -1e-2 {
			t.Fatalf("row %d: got %v want %v", i, got[i], want)
		}
	}
}

func newRangeCacheForTest(d *ring.Dataset) *rangecache.Cache {
	rc := rangecache.New(8)
	d.RegisterInvalidator(rc)
	return rc
}
