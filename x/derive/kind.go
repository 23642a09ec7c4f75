// Package derive implements component C: the derived-column pipeline.
// Each dataset slot computes a virtual column from other columns — some
// stateful and updated incrementally as new rows arrive, some batch and
// recomputed wholesale on demand. Grounded on x/math/filter's tagged
// Filter/Processor interfaces and x/math/dsp's stateful processors.
package derive

import "fmt"

// Kind tags a derived slot's operation, matching spec.md §3's
// {FREE, TIME_UNWRAP, SCALE, BINARY_{SUB,ADD,MUL,HYP},
// FILTER_{DIFF,CUM,BITMASK,LOWPASS}, RESAMPLE, POLYFIT} variant set.
type Kind int

const (
	Free Kind = iota
	TimeUnwrap
	Scale
	BinarySub
	BinaryAdd
	BinaryMul
	BinaryHyp
	FilterDiff
	FilterCum
	FilterBitmask
	FilterLowpass
	Resample
	Polyfit
)

func (k Kind) String() string {
	switch k {
	case Free:
		return "FREE"
	case TimeUnwrap:
		return "TIME_UNWRAP"
	case Scale:
		return "SCALE"
	case BinarySub:
		return "BINARY_SUB"
	case BinaryAdd:
		return "BINARY_ADD"
	case BinaryMul:
		return "BINARY_MUL"
	case BinaryHyp:
		return "BINARY_HYP"
	case FilterDiff:
		return "FILTER_DIFF"
	case FilterCum:
		return "FILTER_CUM"
	case FilterBitmask:
		return "FILTER_BITMASK"
	case FilterLowpass:
		return "FILTER_LOWPASS"
	case Resample:
		return "RESAMPLE"
	case Polyfit:
		return "POLYFIT"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsBatch reports whether a kind is recomputed wholesale over [head, tail)
// rather than incrementally over [sub_N, tail_N) (spec.md §4.3).
func (k Kind) IsBatch() bool {
	return k == Resample || k == Polyfit
}
