package engine

import (
	"github.com/itohio/plotcore/x/collab"
	"github.com/itohio/plotcore/x/derive"
)

// The SubtractX wrappers delegate to E's figure.go, supplying this
// engine's per-dataset pipeline lookup (spec.md §4.5's
// subtractTimeUnwrap/Scale/Filter/Binary/Polifit/Switch).

func (e *Engine) SubtractTimeUnwrap(src int, label string) (int, error) {
	return e.model.SubtractTimeUnwrap(src, e.lookupPipeline, label)
}

func (e *Engine) SubtractScale(src int, a, b float32, label string) (int, error) {
	return e.model.SubtractScale(src, a, b, e.lookupPipeline, label)
}

func (e *Engine) SubtractFilterDiff(src int, label string) (int, error) {
	return e.model.SubtractFilterDiff(src, e.lookupPipeline, label)
}

func (e *Engine) SubtractFilterCum(src int, label string) (int, error) {
	return e.model.SubtractFilterCum(src, e.lookupPipeline, label)
}

func (e *Engine) SubtractFilterBitmask(src int, lo, hi uint, label string) (int, error) {
	return e.model.SubtractFilterBitmask(src, lo, hi, e.lookupPipeline, label)
}

func (e *Engine) SubtractFilterLowpass(src int, gain float32, label string) (int, error) {
	return e.model.SubtractFilterLowpass(src, gain, e.lookupPipeline, label)
}

func (e *Engine) SubtractBinary(srcA, srcB int, kind derive.Kind, label string) (int, error) {
	return e.model.SubtractBinary(srcA, srcB, kind, e.lookupPipeline, label)
}

func (e *Engine) SubtractPolyfit(src, xColumn, degree int, label string) (int, error) {
	return e.model.SubtractPolyfit(src, xColumn, degree, e.lookupPipeline, label)
}

func (e *Engine) Switch(sources []int, derivedFigure int) error {
	return e.model.Switch(sources, derivedFigure)
}

// Tick advances every dataset's unbounded derived-column pipeline by one
// pass (spec.md §4.3: evaluated in index order per row, up to tail_N).
// Batch operators (RESAMPLE, POLYFIT) are not touched here; they run on
// explicit demand via RecomputeResample/RecomputePolyfit, per spec.md §9
// Open Question (b).
func (e *Engine) Tick() {
	for i := range e.datasets {
		if e.datasets[i].used {
			e.datasets[i].pipeline.SubtractUnbounded()
		}
	}
}

// GarbageSweepDataset frees any derived slot on dataset d whose column is
// neither in liveColumns nor read by another live slot (spec.md §4.3,
// invariant 9 generalized to derived slots).
func (e *Engine) GarbageSweepDataset(d int, liveColumns map[int]bool) []int {
	p := e.Pipeline(d)
	if p == nil {
		return nil
	}
	freed := p.GarbageSweep(liveColumns)
	ds := e.Dataset(d)
	for _, s := range freed {
		e.rc.ReleaseColumnsAbove(ds.ID, ds.ColumnN()+s)
	}
	return freed
}

// RecomputeResample runs RESAMPLE slot s on dataset d's pipeline to
// completion (spec.md §4.3, batch operator).
func (e *Engine) RecomputeResample(d, s int) error {
	p := e.Pipeline(d)
	if p == nil {
		return ErrBadDataset
	}
	return p.RecomputeResample(s)
}

// RecomputePolyfit runs POLYFIT slot s on dataset d's pipeline using
// solver, restricted to rows currently visible in [0,1] on (scaleX,
// offsetX) (spec.md §4.3, batch operator).
func (e *Engine) RecomputePolyfit(d, s int, solver collab.LeastSquares, scaleX, offsetX float32) error {
	p := e.Pipeline(d)
	if p == nil {
		return ErrBadDataset
	}
	return p.RecomputePolyfit(s, solver, e.rc, scaleX, offsetX)
}
