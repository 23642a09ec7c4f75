package derive

import (
	"fmt"

	"github.com/itohio/plotcore/internal/logx"
	"github.com/itohio/plotcore/x/collab"
	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/rangecache"
)

// RecomputeResample fully recomputes slot s (must be RESAMPLE) over
// [head, tail), resetting state first (spec.md §4.3: batch operators
// reset on each full recompute). Per spec.md §9 Open Question (b), this
// is never attempted incrementally — only triggered when the caller
// decides the batch boundary has moved, typically when the source
// dataset's own watermark reaches its head.
func (p *Pipeline) RecomputeResample(s int) error {
	slot := p.Slot(s)
	if slot == nil || slot.Kind != Resample {
		return fmt.Errorf("derive: slot %d is not RESAMPLE", s)
	}
	slot.Reset()

	src := slot.SrcDataset
	if src == nil || src.Count() == 0 {
		return nil
	}

	srcCursor := src.NewCursorAtHead()
	srcRow, ok := src.Get(&srcCursor)
	if !ok {
		return nil
	}
	prevT, prevY := srcRow[slot.SrcTimeCol], srcRow[slot.SrcYColumn]
	nextT, nextY := prevT, prevY
	haveNext := true

	advance := func() bool {
		row, ok := src.Get(&srcCursor)
		if !ok {
			haveNext = false
			return false
		}
		prevT, prevY = nextT, nextY
		nextT, nextY = row[slot.SrcTimeCol], row[slot.SrcYColumn]
		return true
	}

	c := p.ds.NewCursorAtHead()
	for {
		row, ok := p.ds.Write(&c)
		if !ok {
			break
		}
		t := row[slot.OwnTimeCol]
		for haveNext && nextT < t {
			if !advance() {
				break
			}
		}
		row[p.Column(s)] = lerpHoldLast(t, prevT, prevY, nextT, nextY, haveNext)
	}
	return nil
}

// lerpHoldLast piecewise-linearly interpolates Y at time t between
// (prevT, prevY) and (nextT, nextY), holding the last valid sample at
// either boundary (spec.md §4.3).
func lerpHoldLast(t, prevT, prevY, nextT, nextY float32, haveNext bool) float32 {
	if !haveNext || nextT <= prevT {
		return prevY
	}
	if t <= prevT {
		return prevY
	}
	if t >= nextT {
		return nextY
	}
	frac := (t - prevT) / (nextT - prevT)
	return prevY + frac*(nextY-prevY)
}

// RecomputePolyfit fully recomputes slot s (must be POLYFIT) by feeding
// the external least-squares solver with one (x^1..x^degree, y) row per
// sample drawn only from rows visible in [0,1] normalized viewport space
// on the X axis (scaleX, offsetX), using the range cache to skip whole
// chunks known to lie entirely outside that window (spec.md §4.3). The
// fitted polynomial is then evaluated back across every valid row.
func (p *Pipeline) RecomputePolyfit(s int, solver collab.LeastSquares, rc *rangecache.Cache, scaleX, offsetX float32) error {
	slot := p.Slot(s)
	if slot == nil || slot.Kind != Polyfit {
		return fmt.Errorf("derive: slot %d is not POLYFIT", s)
	}
	slot.Reset()

	xCol := slot.SrcB
	degree := slot.Degree
	if degree < 1 {
		degree = 1
	}
	if err := solver.Initiate(degree, degree, 1); err != nil {
		return fmt.Errorf("derive: polyfit initiate: %w", err)
	}

	entry := rc.Fetch(p.ds, xCol)
	rows := p.ds.ChunkRows()
	nFed := 0
	p.ds.EachValidChunk(func(chunk int) {
		if cr, ok := entry.ChunkRange(chunk); ok {
			lo := scaleX*cr.Min + offsetX
			hi := scaleX*cr.Max + offsetX
			if lo > hi {
				lo, hi = hi, lo
			}
			if hi < 0 || lo > 1 {
				return // whole chunk outside [0,1]; skip
			}
		}
		start := chunk * rows
		for r := start; r < start+rows; r++ {
			if !p.ds.RowValid(r) {
				continue
			}
			x, ok := p.ds.ValueAt(r, xCol)
			if !ok || !numeric.Finite(x) {
				continue
			}
			v := scaleX*x + offsetX
			if v < 0 || v > 1 {
				continue
			}
			y, ok := p.ds.ValueAt(r, slot.SrcA)
			if !ok || !numeric.Finite(y) {
				continue
			}
			if err := solver.Insert(polyfitBasisRow(x, y, degree)); err != nil {
				logx.Log.Error().Err(err).Msg("derive: polyfit insert failed")
				return
			}
			nFed++
		}
	})
	if nFed == 0 {
		logx.Log.Warn().Int("slot", s).Msg("derive: polyfit had no visible rows to fit")
		return nil
	}

	coeffs, stddev, err := solver.Finalise()
	if err != nil {
		return fmt.Errorf("derive: polyfit finalise: %w", err)
	}
	slot.Coeffs = coeffs
	if len(stddev) > 0 {
		slot.StdDev = stddev[0]
	}

	c := p.ds.NewCursorAtHead()
	for {
		id := c.ID
		row, ok := p.ds.Write(&c)
		if !ok {
			break
		}
		var x float32
		if xCol == -1 {
			x = float32(id)
		} else {
			x = row[xCol]
		}
		row[p.Column(s)] = evalPolynomial(slot.Coeffs, x)
	}
	return nil
}

// polyfitBasisRow expands one (x, y) sample into the solver's nx+nz row:
// x's monomial basis x^1..x^degree (the solver fits the constant term
// itself) followed by the fit target y.
func polyfitBasisRow(x, y float32, degree int) []float32 {
	row := make([]float32, degree+1)
	xp := x
	for i := 0; i < degree; i++ {
		row[i] = xp
		xp *= x
	}
	row[degree] = y
	return row
}

func evalPolynomial(coeffs []float32, x float32) float32 {
	if len(coeffs) == 0 {
		return numeric.NaN()
	}
	var out float32
	var xp float32 = 1
	for _, c := range coeffs {
		out += c * xp
		xp *= x
	}
	return out
}

