package overlay

import "github.com/chewxy/math32"

// MarkCount chooses mark_N so the total number of markers across figN
// plotted figures approximates viewportWidthPx / (markWidthPx *
// sqrt(figN)) (spec.md §4.8), never less than one when figN > 0.
func MarkCount(viewportWidthPx, markWidthPx float32, figN int) int {
	if figN <= 0 || markWidthPx <= 0 {
		return 0
	}
	n := int(viewportWidthPx / (markWidthPx * math32.Sqrt(float32(figN))))
	if n < 1 {
		n = 1
	}
	return n
}

// MarkPositions returns n sample positions evenly spaced in normalized X
// across the viewport, each at the center of its slot (spec.md §4.8:
// "evenly spaced in normalized X across the viewport").
func MarkPositions(n int) []float32 {
	if n <= 0 {
		return nil
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = (float32(i) + 0.5) / float32(n)
	}
	return out
}
