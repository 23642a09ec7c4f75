package derive

import (
	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/ring"
)

// SubtractUnbounded walks the span [sub_N, tail_N) once, evaluating every
// unbounded slot in index order per row (spec.md §5: "derived-column
// slots [0..K) are evaluated in index order per row; consumers must
// arrange slot indices so that dependencies precede dependents"). It
// bumps the dataset's sub_N watermark to tail_N on completion, preserving
// running state across calls (spec.md §4.3).
func (p *Pipeline) SubtractUnbounded() {
	start := p.ds.SubWatermark()
	tail := p.ds.TailID()
	if start >= tail {
		return
	}

	startRow := p.ds.RingIndexAt(int(start - p.ds.HeadID()))
	c := ring.Cursor{Row: startRow, ID: start}
	for {
		row, ok := p.ds.Write(&c)
		if !ok {
			break
		}
		for s := range p.slots {
			slot := &p.slots[s]
			if slot.Kind == Free || slot.Kind.IsBatch() {
				continue
			}
			row[p.Column(s)] = evalUnbounded(slot, row)
		}
	}
	p.ds.SetSubWatermark(tail)
}

// evalUnbounded computes one row's output for an unbounded slot kind,
// given the row view it may read other (already-computed, lower-index)
// columns from.
func evalUnbounded(slot *Slot, row ring.RowView) float32 {
	switch slot.Kind {
	case TimeUnwrap:
		return stepTimeUnwrap(slot, row[slot.SrcA])
	case Scale:
		return slot.ScaleA*row[slot.SrcA] + slot.ScaleB
	case BinarySub:
		return row[slot.SrcA] - row[slot.SrcB]
	case BinaryAdd:
		return row[slot.SrcA] + row[slot.SrcB]
	case BinaryMul:
		return row[slot.SrcA] * row[slot.SrcB]
	case BinaryHyp:
		return numeric.Hypot(row[slot.SrcA], row[slot.SrcB])
	case FilterDiff:
		return stepFilterDiff(slot, row[slot.SrcA])
	case FilterCum:
		return stepFilterCum(slot, row[slot.SrcA])
	case FilterBitmask:
		return stepFilterBitmask(slot, row[slot.SrcA])
	case FilterLowpass:
		return stepFilterLowpass(slot, row[slot.SrcA])
	default:
		return numeric.NaN() // unreachable for unbounded kinds
	}
}

// stepTimeUnwrap implements spec.md §4.3's two-tick heuristic: a backward
// step (the counter appears to have reset) assumes it wrapped back past
// zero and re-establishes monotonicity by adding the full previous value
// to unwrap; if the step before that was also backward (a double wrap,
// the common single-sample-glitch shape), prev2's value stacks on top in
// the same call rather than waiting for the next sample.
func stepTimeUnwrap(s *Slot, x float32) float32 {
	if !numeric.Finite(x) {
		return x
	}
	if s.prevValid && x < s.prev {
		s.unwrap += s.prev
		if s.prev2Valid && s.prev < s.prev2 {
			s.unwrap += s.prev2
		}
	}
	s.prev2, s.prev2Valid = s.prev, s.prevValid
	s.prev, s.prevValid = x, true
	return x + s.unwrap
}

// stepFilterDiff: x_n - x_{n-1}. The very first sample has no predecessor
// and reports NaN (spec.md doesn't define the boundary; a non-finite
// first sample is consistent with "drawing breaks the current line
// segment on a non-finite point" rather than fabricating a zero delta).
func stepFilterDiff(s *Slot, x float32) float32 {
	if !s.diffInit {
		s.diffPrev = x
		s.diffInit = true
		return numeric.NaN()
	}
	out := x - s.diffPrev
	s.diffPrev = x
	return out
}

// stepFilterCum is the running sum, ignoring non-finite inputs (spec.md
// §8 invariant 4).
func stepFilterCum(s *Slot, x float32) float32 {
	if numeric.Finite(x) {
		s.cumSum += x
	}
	return s.cumSum
}

func stepFilterBitmask(s *Slot, x float32) float32 {
	if !numeric.Finite(x) {
		return x
	}
	mask := uint32(1)<<(s.MaskHi-s.MaskLo+1) - 1
	return float32((uint32(x) & (mask << s.MaskLo)) >> s.MaskLo)
}

// stepFilterLowpass is the one-pole IIR y += g*(x - y), initialized on
// first finite sample (spec.md §4.3).
func stepFilterLowpass(s *Slot, x float32) float32 {
	if !s.lowpassInit {
		if !numeric.Finite(x) {
			return x
		}
		s.lowpassY = x
		s.lowpassInit = true
		return s.lowpassY
	}
	if numeric.Finite(x) {
		s.lowpassY += s.Gain * (x - s.lowpassY)
	}
	return s.lowpassY
}
