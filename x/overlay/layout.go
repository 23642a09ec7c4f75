// Package overlay implements component H: the layout margins, legend,
// data box, and sample-mark placement drawn on top of the sketch engine's
// output. Grounded on pkg/pipeline/steps/fan.in.go / fan.out_test.go's
// composition-of-small-independent-stages style: each overlay concern
// (layout, legend, data box, marks) is its own small, stateless function
// over the axis/figure model, composed by the caller rather than wired
// into one god-object.
package overlay

import "github.com/itohio/plotcore/x/axis"

// Margins is the viewport inset reserved for axis boxes on each side.
type Margins struct {
	Left, Right, Top, Bottom float32
}

// Layout computes the viewport margins from the sum of per-axis box
// widths (spec.md §4.8): axisBoxPx per axis, plus labelBoxPx for any axis
// with a non-empty label. It also returns each axis's `_pos`, its
// cumulative offset within its margin, so a caller can stack tick labels
// without overlap. BusyY axes stack into the left margin, BusyX axes
// into the bottom margin — this engine does not distinguish left/right
// or top/bottom placement beyond orientation.
func Layout(m *axis.Model, axisBoxPx, labelBoxPx float32) (Margins, map[int]float32) {
	positions := make(map[int]float32)
	var margins Margins

	for i := 0; i < m.AxisCount(); i++ {
		ax := m.Axis(i)
		if ax == nil {
			continue
		}
		width := axisBoxPx
		if ax.Label != "" {
			width += labelBoxPx
		}
		switch ax.Orientation {
		case axis.BusyY:
			positions[i] = margins.Left
			margins.Left += width
		case axis.BusyX:
			positions[i] = margins.Bottom
			margins.Bottom += width
		}
	}
	return margins, positions
}
