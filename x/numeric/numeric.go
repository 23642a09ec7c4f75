// Package numeric collects the small fp32 helpers every plotcore component
// needs: finiteness tests, nearest-value distance, and the interval
// arithmetic used by the range cache and axis conversions. Grounded on the
// teacher's own fp32 convention across x/math/vec, x/math/mat, x/math/dsp,
// which compute in float32 via github.com/chewxy/math32 rather than
// round-tripping through float64.
package numeric

import "github.com/chewxy/math32"

// Finite reports whether x is neither NaN nor an infinity. Non-finite
// samples are sentinel values per spec.md §7, never errors.
func Finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// NaN returns the canonical fp32 not-a-number sentinel.
func NaN() float32 {
	return math32.NaN()
}

// Abs is float32 absolute value, used by the slice/sample nearest query.
func Abs(x float32) float32 {
	return math32.Abs(x)
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampInt restricts n to [lo, hi].
func ClampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Hypot computes sqrt(x*x + y*y) in fp32, used by BINARY_HYP.
func Hypot(x, y float32) float32 {
	return math32.Sqrt(x*x + y*y)
}

// Round returns x rounded to the nearest integer, used by scaleGridAlign.
func Round(x float32) float32 {
	return math32.Round(x)
}

// Range is a closed finite interval [Min, Max]. Valid is false when no
// finite sample has ever been observed, matching the range cache's
// "finite = 0" chunk state (spec.md §4.2).
type Range struct {
	Min, Max float32
	Valid    bool
}

// EmptyRange returns an invalid range ready to be widened by Extend.
func EmptyRange() Range {
	return Range{Min: math32.Inf(1), Max: math32.Inf(-1), Valid: false}
}

// Extend widens r to include x, if x is finite.
func (r Range) Extend(x float32) Range {
	if !Finite(x) {
		return r
	}
	if !r.Valid {
		return Range{Min: x, Max: x, Valid: true}
	}
	if x < r.Min {
		r.Min = x
	}
	if x > r.Max {
		r.Max = x
	}
	return r
}

// Union merges two ranges, either of which may be invalid.
func (r Range) Union(o Range) Range {
	switch {
	case !r.Valid:
		return o
	case !o.Valid:
		return r
	}
	out := r
	if o.Min < out.Min {
		out.Min = o.Min
	}
	if o.Max > out.Max {
		out.Max = o.Max
	}
	return out
}

// Contains reports whether v lies within the closed interval.
func (r Range) Contains(v float32) bool {
	return r.Valid && v >= r.Min && v <= r.Max
}

// DistanceTo returns how far v lies outside the interval, 0 if inside, and
// +Inf if the range is invalid. Used by the slice query's "closest chunk" fallback.
func (r Range) DistanceTo(v float32) float32 {
	if !r.Valid {
		return math32.Inf(1)
	}
	if v < r.Min {
		return r.Min - v
	}
	if v > r.Max {
		return v - r.Max
	}
	return 0
}
