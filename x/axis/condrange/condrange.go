// Package condrange implements component F: the range-over-axis query
// that restricts an aggregate min/max to rows whose value on a secondary
// ("condition") axis falls within the visible viewport. Grounded on
// x/rangecache's per-chunk scan/skip pattern, generalized here to gate
// each chunk by a second column's composed axis conversion rather than
// by the queried column itself.
package condrange

import (
	"github.com/itohio/plotcore/x/axis"
	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
)

// Query implements spec.md §4.6: for every live, non-hidden figure bound
// to axis a (either side) plotting column c on that side, scan rows
// whose condition column falls in the normalized [0,1] window of axis b,
// tracking c's min/max over those rows. Whole chunks are skipped when the
// condition range lies entirely outside [0,1], and absorbed wholesale via
// the range cache when the condition range lies entirely inside [0,1].
// When axis a has no figures with a usable condition column, the
// unconditional aggregate range from the range cache is returned.
func Query(m *axis.Model, a, b int, rc *rangecache.Cache, lookup axis.DatasetLookup) numeric.Range {
	out := numeric.EmptyRange()
	unconditional := numeric.EmptyRange()
	any := false

	for i := 0; i < m.FigureCount(); i++ {
		fig := m.Figure(i)
		if fig == nil || fig.Hidden {
			continue
		}

		var column, condColumn int
		var condAxis int
		switch {
		case fig.AxisX == a:
			column, condColumn, condAxis = fig.ColumnX, fig.ColumnY, fig.AxisY
		case fig.AxisY == a:
			column, condColumn, condAxis = fig.ColumnY, fig.ColumnX, fig.AxisX
		default:
			continue
		}

		ds := lookup(fig.Dataset)
		if ds == nil {
			continue
		}
		if condAxis != b {
			unconditional = unconditional.Union(rc.Fetch(ds, column).Aggregate())
			continue
		}
		any = true
		out = out.Union(scanFigure(m, ds, column, condColumn, condAxis, rc))
	}

	if !any {
		// No figure conditions on axis b: fall back to the unconditional
		// range from the range cache (spec.md §4.6).
		return unconditional
	}
	return out
}

func scanFigure(m *axis.Model, ds *ring.Dataset, column, condColumn, condAxis int, rc *rangecache.Cache) numeric.Range {
	valueEntry := rc.Fetch(ds, column)
	condEntry := rc.Fetch(ds, condColumn)

	out := numeric.EmptyRange()
	ds.EachValidChunk(func(chunk int) {
		condRng, ok := condEntry.ChunkRange(chunk)
		if !ok {
			out = out.Union(scanChunkConditional(ds, column, condColumn, condAxis, m, chunk))
			return
		}
		lo := m.Convert(condAxis, condRng.Min)
		hi := m.Convert(condAxis, condRng.Max)
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi < 0 || lo > 1 {
			return // entirely outside the window: skip the chunk
		}
		if lo >= 0 && hi <= 1 {
			// Entirely inside: absorb the chunk's known value range
			// wholesale without a per-row scan.
			if rng, ok := valueEntry.ChunkRange(chunk); ok {
				out = out.Union(rng)
				return
			}
		}
		out = out.Union(scanChunkConditional(ds, column, condColumn, condAxis, m, chunk))
	})
	return out
}

func scanChunkConditional(ds *ring.Dataset, column, condColumn, condAxis int, m *axis.Model, chunk int) numeric.Range {
	rows := ds.ChunkRows()
	start := chunk * rows
	out := numeric.EmptyRange()
	for r := start; r < start+rows; r++ {
		if !ds.RowValid(r) {
			continue
		}
		cv, ok := ds.ValueAt(r, condColumn)
		if !ok || !numeric.Finite(cv) {
			continue
		}
		w := m.Convert(condAxis, cv)
		if w < 0 || w > 1 {
			continue
		}
		v, ok := ds.ValueAt(r, column)
		if !ok {
			continue
		}
		out = out.Extend(v)
	}
	return out
}
