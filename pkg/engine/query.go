package engine

import (
	"fmt"

	"github.com/itohio/plotcore/x/axis/condrange"
	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/query"
)

// Slice implements component D's nearest-value query over dataset d's
// column (spec.md §4.4).
func (e *Engine) Slice(d, column int, v float32) (query.Result, error) {
	ds := e.Dataset(d)
	if ds == nil {
		return query.Result{}, fmt.Errorf("%w: %d", ErrBadDataset, d)
	}
	return query.Slice(ds, e.rc, column, v, e.opts.SliceSpan), nil
}

// RangeOverAxis implements component F: the true [min,max] of axis a's
// bound column(s), restricted to rows currently visible on secondary
// axis b (spec.md §4.6), used by ScaleAutoCond below.
func (e *Engine) RangeOverAxis(a, b int) numeric.Range {
	return condrange.Query(e.model, a, b, e.rc, e.lookupDataset)
}

// ScaleAutoCond is scaleAutoCond(a, b): auto-scale axis a using only the
// data visible on axis b (spec.md §4.5).
func (e *Engine) ScaleAutoCond(a, b int) error {
	rng := e.RangeOverAxis(a, b)
	return e.model.ScaleAutoCond(a, rng)
}
