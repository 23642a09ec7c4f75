package axis

import "github.com/itohio/plotcore/x/derive"

// PipelineLookup resolves a figure's dataset index to the derive.Pipeline
// that owns its derived-column slots, mirroring DatasetLookup's
// indirection so the axis/figure model never imports a concrete dataset
// registry.
type PipelineLookup func(dataset int) *derive.Pipeline

// addDerivedFigure creates a new figure plotting derivedColumn from the
// same dataset and X binding as src, on a fresh Y axis, the common
// shape behind every subtractX operation in spec.md §4.5.
func (m *Model) addDerivedFigure(src *Figure, derivedColumn int, drawing int, width float32, label string) (int, error) {
	axisY, err := m.AddAxis(BusyY)
	if err != nil {
		return -1, err
	}
	f, err := m.AddFigure(src.Dataset, src.ColumnX, derivedColumn, src.AxisX, axisY, drawing, width, label)
	if err != nil {
		m.axes[axisY] = Axis{}
		return -1, err
	}
	return f, nil
}

// SubtractTimeUnwrap derives src's Y column through TIME_UNWRAP and plots
// the result as a new figure (spec.md §4.5 subtractTimeUnwrap).
func (m *Model) SubtractTimeUnwrap(src int, pipelines PipelineLookup, label string) (int, error) {
	fig := m.Figure(src)
	if fig == nil {
		return -1, ErrOutOfRange
	}
	p := pipelines(fig.Dataset)
	slot, err := p.AddTimeUnwrap(fig.ColumnY)
	if err != nil {
		return -1, err
	}
	return m.addDerivedFigure(fig, p.Column(slot), fig.Drawing, fig.Width, label)
}

// SubtractScale derives src's Y column through SCALE(a,b) and plots the
// result as a new figure (spec.md §4.5 subtractScale).
func (m *Model) SubtractScale(src int, a, b float32, pipelines PipelineLookup, label string) (int, error) {
	fig := m.Figure(src)
	if fig == nil {
		return -1, ErrOutOfRange
	}
	p := pipelines(fig.Dataset)
	slot, err := p.AddScale(fig.ColumnY, a, b)
	if err != nil {
		return -1, err
	}
	return m.addDerivedFigure(fig, p.Column(slot), fig.Drawing, fig.Width, label)
}

// SubtractFilterDiff/Cum/Bitmask/Lowpass derive src's Y column through the
// named FILTER_* variant (spec.md §4.5 subtractFilter).
func (m *Model) SubtractFilterDiff(src int, pipelines PipelineLookup, label string) (int, error) {
	fig := m.Figure(src)
	if fig == nil {
		return -1, ErrOutOfRange
	}
	p := pipelines(fig.Dataset)
	slot, err := p.AddFilterDiff(fig.ColumnY)
	if err != nil {
		return -1, err
	}
	return m.addDerivedFigure(fig, p.Column(slot), fig.Drawing, fig.Width, label)
}

func (m *Model) SubtractFilterCum(src int, pipelines PipelineLookup, label string) (int, error) {
	fig := m.Figure(src)
	if fig == nil {
		return -1, ErrOutOfRange
	}
	p := pipelines(fig.Dataset)
	slot, err := p.AddFilterCum(fig.ColumnY)
	if err != nil {
		return -1, err
	}
	return m.addDerivedFigure(fig, p.Column(slot), fig.Drawing, fig.Width, label)
}

func (m *Model) SubtractFilterBitmask(src int, lo, hi uint, pipelines PipelineLookup, label string) (int, error) {
	fig := m.Figure(src)
	if fig == nil {
		return -1, ErrOutOfRange
	}
	p := pipelines(fig.Dataset)
	slot, err := p.AddFilterBitmask(fig.ColumnY, lo, hi)
	if err != nil {
		return -1, err
	}
	return m.addDerivedFigure(fig, p.Column(slot), fig.Drawing, fig.Width, label)
}

func (m *Model) SubtractFilterLowpass(src int, gain float32, pipelines PipelineLookup, label string) (int, error) {
	fig := m.Figure(src)
	if fig == nil {
		return -1, ErrOutOfRange
	}
	p := pipelines(fig.Dataset)
	slot, err := p.AddFilterLowpass(fig.ColumnY, gain)
	if err != nil {
		return -1, err
	}
	return m.addDerivedFigure(fig, p.Column(slot), fig.Drawing, fig.Width, label)
}

// SubtractBinary derives a BINARY_{SUB,ADD,MUL,HYP} column from two
// figures' Y columns on the same dataset and plots the result as a new
// figure (spec.md §4.5 subtractBinary).
func (m *Model) SubtractBinary(srcA, srcB int, kind derive.Kind, pipelines PipelineLookup, label string) (int, error) {
	figA := m.Figure(srcA)
	figB := m.Figure(srcB)
	if figA == nil || figB == nil {
		return -1, ErrOutOfRange
	}
	p := pipelines(figA.Dataset)
	slot, err := p.AddBinary(kind, figA.ColumnY, figB.ColumnY)
	if err != nil {
		return -1, err
	}
	return m.addDerivedFigure(figA, p.Column(slot), figA.Drawing, figA.Width, label)
}

// SubtractPolyfit derives a POLYFIT column fitting src's Y column against
// xColumn and plots the fitted curve as a new figure (spec.md §4.5
// subtractPolifit).
func (m *Model) SubtractPolyfit(src, xColumn, degree int, pipelines PipelineLookup, label string) (int, error) {
	fig := m.Figure(src)
	if fig == nil {
		return -1, ErrOutOfRange
	}
	p := pipelines(fig.Dataset)
	slot, err := p.AddPolyfit(fig.ColumnY, xColumn, degree)
	if err != nil {
		return -1, err
	}
	return m.addDerivedFigure(fig, p.Column(slot), fig.Drawing, fig.Width, label)
}

// Switch toggles between showing every figure in sources and showing
// derived in their place, without re-creating any derived state (spec.md
// §4.5's "Switch" variant).
func (m *Model) Switch(sources []int, derived int) error {
	df := m.Figure(derived)
	if df == nil {
		return ErrOutOfRange
	}
	df.Hidden = !df.Hidden
	for _, s := range sources {
		sf := m.Figure(s)
		if sf == nil {
			return ErrOutOfRange
		}
		sf.Hidden = !df.Hidden
	}
	return nil
}
