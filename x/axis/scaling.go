package axis

import (
	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
)

// DatasetLookup resolves a figure's small integer dataset index to its
// live ring.Dataset. Kept as a caller-supplied function rather than a
// direct x/ring dependency on Model's part, so the axis/figure model
// never needs to know how datasets are stored — the same indirection
// x/derive's GarbageSweep uses for its liveColumns map.
type DatasetLookup func(dataset int) *ring.Dataset

// ScaleManual sets axis a's scale/offset directly, disabling auto-scale
// tracking for it (spec.md §4.5 scaleManual).
func (m *Model) ScaleManual(a int, scale, offset float32) error {
	ax := m.Axis(a)
	if ax == nil {
		return ErrOutOfRange
	}
	ax.Scale, ax.Offset = scale, offset
	ax.LockScale = true
	return nil
}

// axisRange computes the union, over every figure bound to axis a, of
// that figure's column's true data range (via the range cache),
// restricted to whichever of X/Y column the axis serves.
func (m *Model) axisRange(a int, rc *rangecache.Cache, lookup DatasetLookup) numeric.Range {
	ax := m.Axis(a)
	rng := numeric.EmptyRange()
	if ax == nil {
		return rng
	}
	for i := range m.figures {
		f := &m.figures[i]
		if !f.used {
			continue
		}
		var column int
		switch {
		case f.AxisX == a:
			column = f.ColumnX
		case f.AxisY == a:
			column = f.ColumnY
		default:
			continue
		}
		ds := lookup(f.Dataset)
		if ds == nil {
			continue
		}
		entry := rc.Fetch(ds, column)
		rng = rng.Union(entry.Aggregate())
	}
	return rng
}

// ScaleAuto fits axis a's scale/offset so every bound figure's true data
// range maps onto the normalized viewport [0,1] (spec.md §4.5 scaleAuto).
func (m *Model) ScaleAuto(a int, rc *rangecache.Cache, lookup DatasetLookup) error {
	ax := m.Axis(a)
	if ax == nil {
		return ErrOutOfRange
	}
	rng := m.axisRange(a, rc, lookup)
	fitRange(ax, rng)
	ax.LockScale = false
	return nil
}

// ScaleAutoCond is scaleAuto restricted to rows whose value on a separate
// condition column/dataset falls in [lo,hi] (spec.md §4.5 scaleAutoCond);
// the caller supplies the pre-filtered range since the condition scan
// itself is component F's job (x/axis/condrange).
func (m *Model) ScaleAutoCond(a int, condRange numeric.Range) error {
	ax := m.Axis(a)
	if ax == nil {
		return ErrOutOfRange
	}
	fitRange(ax, condRange)
	ax.LockScale = false
	return nil
}

func fitRange(ax *Axis, rng numeric.Range) {
	if !rng.Valid {
		return
	}
	span := rng.Max - rng.Min
	if span <= 0 {
		ax.Scale = 1
		ax.Offset = -rng.Min
		return
	}
	ax.Scale = 1 / span
	ax.Offset = -rng.Min / span
}

// ScaleZoom rescales axis a about normalized viewport point center by
// factor (factor>1 zooms in), preserving the value currently at center
// (spec.md §4.5 scaleZoom).
func (m *Model) ScaleZoom(a int, center, factor float32) error {
	ax := m.Axis(a)
	if ax == nil {
		return ErrOutOfRange
	}
	if factor <= 0 {
		return nil
	}
	ax.Scale *= factor
	ax.Offset = center - (center-ax.Offset)*factor
	ax.LockScale = true
	return nil
}

// ScaleMove pans axis a's viewport by delta (normalized units), without
// changing scale (spec.md §4.5 scaleMove).
func (m *Model) ScaleMove(a int, delta float32) error {
	ax := m.Axis(a)
	if ax == nil {
		return ErrOutOfRange
	}
	ax.Offset += delta
	ax.LockScale = true
	return nil
}

// ScaleEqual makes axis b share axis a's scale (but keeps b's own
// offset), used to give two Y axes the same value-per-pixel (spec.md
// §4.5 scaleEqual).
func (m *Model) ScaleEqual(a, b int) error {
	ax, bx := m.Axis(a), m.Axis(b)
	if ax == nil || bx == nil {
		return ErrOutOfRange
	}
	bx.Scale = ax.Scale
	bx.LockScale = true
	return nil
}

// ScaleGridAlign nudges axis a's offset so that value 0 falls exactly on
// a gridline boundary of spacing gridStep (in normalized viewport units),
// preserving scale (spec.md §4.5 scaleGridAlign).
func (m *Model) ScaleGridAlign(a int, gridStep float32) error {
	ax := m.Axis(a)
	if ax == nil {
		return ErrOutOfRange
	}
	if gridStep <= 0 {
		return nil
	}
	zero := ax.Offset
	aligned := numeric.Round(zero/gridStep) * gridStep
	ax.Offset = aligned
	return nil
}

// ScaleStacked distributes n Y axes (axes[i]) into equal horizontal bands
// of the viewport, each independently auto-scaled within its own band —
// used to stack multiple figures' Y axes vertically without overlap
// (spec.md §4.5 scaleStaked). band i occupies normalized Y range
// [i/n, (i+1)/n].
func (m *Model) ScaleStacked(axes []int, rc *rangecache.Cache, lookup DatasetLookup) error {
	n := len(axes)
	if n == 0 {
		return nil
	}
	for i, a := range axes {
		ax := m.Axis(a)
		if ax == nil {
			return ErrOutOfRange
		}
		rng := m.axisRange(a, rc, lookup)
		if !rng.Valid {
			continue
		}
		span := rng.Max - rng.Min
		bandLo := float32(i) / float32(n)
		bandHi := float32(i+1) / float32(n)
		if span <= 0 {
			ax.Scale = 1
			ax.Offset = bandLo - rng.Min
			continue
		}
		ax.Scale = (bandHi - bandLo) / span
		ax.Offset = bandLo - rng.Min*ax.Scale
		ax.LockScale = false
	}
	return nil
}
