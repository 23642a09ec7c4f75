package derive

import "github.com/itohio/plotcore/x/ring"

// Slot is one derived-column definition plus its running state. It owns
// column index columnN+slotIndex in its dataset and may read from any
// other column, but never from itself (spec.md §3).
type Slot struct {
	Kind Kind

	// Source columns. -1 means "unused for this kind". SrcB is used by
	// the BINARY_* kinds and, for POLYFIT, holds the X column.
	SrcA, SrcB int

	// SCALE: out = ScaleA*x + ScaleB.
	ScaleA, ScaleB float32

	// FILTER_BITMASK: out = (uint32(x) & mask[Lo..Hi]) >> Lo.
	MaskLo, MaskHi uint

	// FILTER_LOWPASS: one-pole gain in (0, 1].
	Gain float32

	// RESAMPLE: source dataset/column and its time column, and this
	// dataset's own time column to evaluate against.
	SrcDataset   *ring.Dataset
	SrcYColumn   int
	SrcTimeCol   int
	OwnTimeCol   int

	// POLYFIT: requested degree, plus the last fit's coefficients
	// (constant term first) and standard deviation.
	Degree    int
	Coeffs    []float32
	StdDev    float32

	// Running state, in spec.md §3's terms (previous value, accumulator,
	// unwrap offset).
	unwrap          float32
	prev, prev2     float32
	prevValid       bool
	prev2Valid      bool
	cumSum          float32
	lowpassY        float32
	lowpassInit     bool
	diffPrev        float32
	diffInit        bool
}

// Reset clears a slot's running state without changing its definition.
// Batch kinds reset on every recompute (spec.md §4.3); unbounded kinds
// reset only when explicitly asked (e.g. after a dataset Clean).
func (s *Slot) Reset() {
	s.unwrap = 0
	s.prev, s.prev2 = 0, 0
	s.prevValid, s.prev2Valid = false, false
	s.cumSum = 0
	s.lowpassY = 0
	s.lowpassInit = false
	s.diffPrev = 0
	s.diffInit = false
}

// Sources returns the column indices this slot reads from within its own
// dataset. RESAMPLE reports only its own time column: its Y and time
// source columns live in another dataset, and the garbage sweep only walks
// same-dataset dependency chains.
func (s *Slot) Sources() []int {
	switch s.Kind {
	case TimeUnwrap, Scale, FilterDiff, FilterCum, FilterBitmask, FilterLowpass:
		if s.SrcA < 0 {
			return nil
		}
		return []int{s.SrcA}
	case Polyfit:
		out := make([]int, 0, 2)
		if s.SrcA >= 0 {
			out = append(out, s.SrcA)
		}
		if s.SrcB >= 0 {
			out = append(out, s.SrcB)
		}
		return out
	case BinarySub, BinaryAdd, BinaryMul, BinaryHyp:
		out := make([]int, 0, 2)
		if s.SrcA >= 0 {
			out = append(out, s.SrcA)
		}
		if s.SrcB >= 0 {
			out = append(out, s.SrcB)
		}
		return out
	case Resample:
		if s.OwnTimeCol < 0 {
			return nil
		}
		return []int{s.OwnTimeCol}
	default:
		return nil
	}
}

// MatchesScale reports whether this slot is a SCALE deduplication match
// for (src, a, b) — spec.md §4.3's "SCALE ... lookups match by (source
// column, parameters) and reuse an existing slot".
func (s *Slot) MatchesScale(src int, a, b float32) bool {
	return s.Kind == Scale && s.SrcA == src && s.ScaleA == a && s.ScaleB == b
}

// MatchesTimeUnwrap reports the TIME_UNWRAP deduplication match.
func (s *Slot) MatchesTimeUnwrap(src int) bool {
	return s.Kind == TimeUnwrap && s.SrcA == src
}
