package overlay

import (
	"fmt"

	"github.com/itohio/plotcore/x/derive"
)

// DataBoxMode selects what the data box currently displays (spec.md
// §4.8: "switches among {FREE, SLICE, POLYFIT}").
type DataBoxMode int

const (
	DataBoxFree DataBoxMode = iota
	DataBoxSlice
	DataBoxPolyfit
)

// SliceInfo is the selected row's value pair, optionally paired with a
// second selection to display as a delta ("range mode").
type SliceInfo struct {
	X, Y         float32
	HasRange     bool
	DeltaX       float32
	DeltaY       float32
}

// PolyfitInfo is the last fit's coefficients and per-output standard
// deviation (spec.md §4.8, fed by C's POLYFIT slot via x/collab's
// LeastSquares collaborator).
type PolyfitInfo struct {
	Coeffs []float32
	StdDev float32
}

// DataBox holds the overlay's current content; Lines renders it as
// display-ready text rows for a Font collaborator to draw.
type DataBox struct {
	Mode    DataBoxMode
	Slice   SliceInfo
	Polyfit PolyfitInfo
}

// Lines returns the data box's content as independent text rows.
func (b DataBox) Lines() []string {
	switch b.Mode {
	case DataBoxSlice:
		if b.Slice.HasRange {
			return []string{fmt.Sprintf("Δx = %g", b.Slice.DeltaX), fmt.Sprintf("Δy = %g", b.Slice.DeltaY)}
		}
		return []string{fmt.Sprintf("x = %g", b.Slice.X), fmt.Sprintf("y = %g", b.Slice.Y)}
	case DataBoxPolyfit:
		lines := make([]string, 0, len(b.Polyfit.Coeffs)+1)
		for i, c := range b.Polyfit.Coeffs {
			lines = append(lines, fmt.Sprintf("c%d = %g", i, c))
		}
		lines = append(lines, fmt.Sprintf("σ = %g", b.Polyfit.StdDev))
		return lines
	default:
		return nil
	}
}

// PolyfitInfoFromSlot reads a POLYFIT derived slot's last-fit results
// into a PolyfitInfo for display.
func PolyfitInfoFromSlot(slot *derive.Slot) PolyfitInfo {
	return PolyfitInfo{Coeffs: slot.Coeffs, StdDev: slot.StdDev}
}
