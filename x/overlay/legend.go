package overlay

import "github.com/itohio/plotcore/x/axis"

// LegendRow is one line of the legend box: a figure's palette color and
// label (spec.md §4.8: "one row per figure (color swatch + label)").
type LegendRow struct {
	Figure int
	Label  string
	Color  int
}

// LegendRows collects one row per live, non-hidden figure, in figure-slot
// order, assigning palette colors 1..8 cyclically (spec.md §6's Scheme
// convention: 0=background, 1..8=series, 9=muted, 10=text).
func LegendRows(m *axis.Model) []LegendRow {
	var rows []LegendRow
	for f := 0; f < m.FigureCount(); f++ {
		fig := m.Figure(f)
		if fig == nil || fig.Hidden {
			continue
		}
		rows = append(rows, LegendRow{Figure: f, Label: fig.Label, Color: 1 + f%8})
	}
	return rows
}

// HitTest returns the figure index of the legend row under clickY
// (relative to the legend box's top, boxY), or -1 if the click misses
// every row (spec.md §4.8: "hit-testing returns a figure index on
// click").
func HitTest(rows []LegendRow, rowHeight, boxY, clickY float32) int {
	if rowHeight <= 0 {
		return -1
	}
	rel := clickY - boxY
	if rel < 0 {
		return -1
	}
	idx := int(rel / rowHeight)
	if idx < 0 || idx >= len(rows) {
		return -1
	}
	return rows[idx].Figure
}
