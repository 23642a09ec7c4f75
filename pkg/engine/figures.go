package engine

import "github.com/itohio/plotcore/x/axis"

// AddAxis allocates a new axis (component E).
func (e *Engine) AddAxis(o axis.Orientation) (int, error) { return e.model.AddAxis(o) }

// AddFigure binds a (dataset, columnX, columnY) series to an axis pair.
func (e *Engine) AddFigure(dataset, columnX, columnY, axisX, axisY int, drawing int, width float32, label string) (int, error) {
	return e.model.AddFigure(dataset, columnX, columnY, axisX, axisY, drawing, width, label)
}

// RemoveFigure retires a figure and any axis it was the sole user of.
func (e *Engine) RemoveFigure(f int) { e.model.Remove(f) }

// MoveAxes rebinds figure f onto the model's focused axis pair.
func (e *Engine) MoveAxes(f int) error { return e.model.MoveAxes(f) }

// MakeIndividualAxes gives figure f its own axis pair.
func (e *Engine) MakeIndividualAxes(f int) error { return e.model.MakeIndividualAxes(f) }

// ExchangeFigures swaps two figure slots' paint order.
func (e *Engine) ExchangeFigures(f1, f2 int) error { return e.model.Exchange(f1, f2) }

// Slave establishes, holds, or dissolves axis a's relation to base b.
func (e *Engine) Slave(a, b int, scale, offset float32, mode axis.SlaveMode) error {
	return e.model.Slave(a, b, scale, offset, mode)
}

// ScaleManual/Auto/Zoom/Move/Equal/GridAlign/Stacked are the scaling
// primitives of spec.md §4.5, delegated straight through to E with this
// engine's own dataset lookup wired in where a range query is needed.
func (e *Engine) ScaleManual(a int, min, max float32) error {
	if max == min {
		return e.model.ScaleManual(a, 1, 0)
	}
	return e.model.ScaleManual(a, 1/(max-min), -min/(max-min))
}

func (e *Engine) ScaleAuto(a int) error {
	return e.model.ScaleAuto(a, e.rc, e.lookupDataset)
}

func (e *Engine) ScaleZoom(a int, originNorm, factor float32) error {
	return e.model.ScaleZoom(a, originNorm, factor)
}

func (e *Engine) ScaleMove(a int, delta float32) error {
	return e.model.ScaleMove(a, delta)
}

func (e *Engine) ScaleEqual(a, b int) error {
	return e.model.ScaleEqual(a, b)
}

func (e *Engine) ScaleGridAlign(a int, gridStep float32) error {
	return e.model.ScaleGridAlign(a, gridStep)
}

func (e *Engine) ScaleStacked(axes []int) error {
	return e.model.ScaleStacked(axes, e.rc, e.lookupDataset)
}
