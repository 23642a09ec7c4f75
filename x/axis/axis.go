// Package axis implements component E: axes (including slave axes) and
// figures, with the scaling primitives spec.md §4.5 names. Grounded on
// pkg/pipeline/registry.go's fixed-capacity, index-referenced registry
// pattern — axes and figures reference each other only by small integer
// index, never by pointer, matching spec.md §9's "cyclic / back-reference
// data model" design note.
package axis

import (
	"errors"
	"fmt"

	"github.com/itohio/plotcore/internal/logx"
)

// Orientation is an axis's role: it may carry X-figures, Y-figures, or
// neither yet (spec.md §3).
type Orientation int

const (
	Free Orientation = iota
	BusyX
	BusyY
)

var (
	ErrNoFreeAxis       = errors.New("axis: no free axis slot")
	ErrNoFreeFigure     = errors.New("axis: no free figure slot")
	ErrOutOfRange       = errors.New("axis: index out of range")
	ErrOrientation      = errors.New("axis: figure axis orientation mismatch")
	ErrCoincidentAxes   = errors.New("axis: X and Y axes may not coincide")
	ErrBaseIsSlave      = errors.New("axis: a base axis may not itself be a slave")
	ErrAlreadyBase      = errors.New("axis: an axis that is base for a slave cannot be re-enslaved")
	ErrSlaveOfSlave     = errors.New("axis: no slave of a slave")
	ErrSlaveCycle       = errors.New("axis: slave relation would create a cycle")
)

// Axis is one scale/offset mapping value -> normalized [0,1] viewport
// coordinate, optionally composed on top of a base axis's own mapping.
type Axis struct {
	used        bool
	Orientation Orientation
	Scale       float32
	Offset      float32

	slaveOf      int // base axis index, or -1
	slaveScale   float32
	slaveOffset  float32

	Label     string
	Compact   bool
	Expen     bool // allow engineering-exponent factoring
	LockScale bool // set by manual scale, zoom, pan and equalize; cleared by auto-scale
}

// IsSlave reports whether this axis currently composes atop a base.
func (a *Axis) IsSlave() bool { return a.slaveOf >= 0 }

// Figure is one plotted series: a (dataset, columnX, columnY) triple
// styled and bound to an X/Y axis pair (spec.md §3).
type Figure struct {
	used    bool
	Dataset int
	ColumnX int
	ColumnY int
	AxisX   int
	AxisY   int
	Drawing int // collab.Drawing value, stored as a plain int
	Width  float32
	Hidden bool
	Label  string
}

// Model owns a fixed-capacity set of axes and figures, cross-referenced
// only by index.
type Model struct {
	axes    []Axis
	figures []Figure
	OnX     int // focused X axis, -1 if none
	OnY     int // focused Y axis, -1 if none
}

// NewModel allocates a model with axisMax axes and figureMax figures, all
// initially free.
func NewModel(axisMax, figureMax int) *Model {
	return &Model{
		axes:    make([]Axis, axisMax),
		figures: make([]Figure, figureMax),
		OnX:     -1,
		OnY:     -1,
	}
}

func (m *Model) freeAxis() (int, error) {
	for i := range m.axes {
		if !m.axes[i].used {
			return i, nil
		}
	}
	logx.Log.Error().Msg(ErrNoFreeAxis.Error())
	return -1, ErrNoFreeAxis
}

func (m *Model) freeFigure() (int, error) {
	for i := range m.figures {
		if !m.figures[i].used {
			return i, nil
		}
	}
	logx.Log.Error().Msg(ErrNoFreeFigure.Error())
	return -1, ErrNoFreeFigure
}

// AddAxis allocates a new axis with identity scale and the given
// orientation.
func (m *Model) AddAxis(o Orientation) (int, error) {
	i, err := m.freeAxis()
	if err != nil {
		return -1, err
	}
	m.axes[i] = Axis{used: true, Orientation: o, Scale: 1, Offset: 0, slaveOf: -1}
	return i, nil
}

// Axis returns a pointer to axis a's state, or nil if unused/out of range.
func (m *Model) Axis(a int) *Axis {
	if a < 0 || a >= len(m.axes) || !m.axes[a].used {
		return nil
	}
	return &m.axes[a]
}

// Figure returns a pointer to figure f's state, or nil if unused/out of
// range.
func (m *Model) Figure(f int) *Figure {
	if f < 0 || f >= len(m.figures) || !m.figures[f].used {
		return nil
	}
	return &m.figures[f]
}

// AxisCount / FigureCount expose the fixed capacities for iteration.
func (m *Model) AxisCount() int   { return len(m.axes) }
func (m *Model) FigureCount() int { return len(m.figures) }

// AddFigure allocates a figure. axisX must be BusyX or Free, axisY must
// be BusyY or Free, and they may not coincide (spec.md §3's Figure
// invariant).
func (m *Model) AddFigure(dataset, columnX, columnY, axisX, axisY int, drawing int, width float32, label string) (int, error) {
	if axisX == axisY {
		logx.Log.Error().Int("axis", axisX).Msg(ErrCoincidentAxes.Error())
		return -1, ErrCoincidentAxes
	}
	ax := m.Axis(axisX)
	ay := m.Axis(axisY)
	if ax == nil || ay == nil {
		return -1, fmt.Errorf("%w: axis %d or %d", ErrOutOfRange, axisX, axisY)
	}
	if ax.Orientation == BusyY || ay.Orientation == BusyX {
		logx.Log.Error().Int("axis_x", axisX).Int("axis_y", axisY).Msg(ErrOrientation.Error())
		return -1, ErrOrientation
	}

	i, err := m.freeFigure()
	if err != nil {
		return -1, err
	}
	ax.Orientation = BusyX
	ay.Orientation = BusyY
	m.figures[i] = Figure{
		used: true, Dataset: dataset, ColumnX: columnX, ColumnY: columnY,
		AxisX: axisX, AxisY: axisY, Drawing: drawing, Width: width, Label: label,
	}
	return i, nil
}

// Remove retires figure f, and retires either axis that no remaining
// figure references (spec.md §4.5: "remove (with axis retirement if no
// remaining figure references it)").
func (m *Model) Remove(f int) {
	fig := m.Figure(f)
	if fig == nil {
		return
	}
	axisX, axisY := fig.AxisX, fig.AxisY
	m.figures[f] = Figure{}

	for _, a := range [2]int{axisX, axisY} {
		if !m.axisReferenced(a) {
			m.axes[a] = Axis{}
			if m.OnX == a {
				m.OnX = -1
			}
			if m.OnY == a {
				m.OnY = -1
			}
		}
	}
}

func (m *Model) axisReferenced(a int) bool {
	for i := range m.figures {
		if m.figures[i].used && (m.figures[i].AxisX == a || m.figures[i].AxisY == a) {
			return true
		}
	}
	return false
}

// MoveAxes rebinds figure f to the model's currently focused axes,
// retiring whichever of its old axes become unreferenced as a result
// (spec.md §4.5).
func (m *Model) MoveAxes(f int) error {
	fig := m.Figure(f)
	if fig == nil {
		return fmt.Errorf("%w: figure %d", ErrOutOfRange, f)
	}
	if m.OnX < 0 || m.OnY < 0 {
		return fmt.Errorf("axis: no focused axis pair to move onto")
	}
	oldX, oldY := fig.AxisX, fig.AxisY
	fig.AxisX, fig.AxisY = m.OnX, m.OnY
	m.Axis(m.OnX).Orientation = BusyX
	m.Axis(m.OnY).Orientation = BusyY
	for _, a := range [2]int{oldX, oldY} {
		if a != m.OnX && a != m.OnY && !m.axisReferenced(a) {
			m.axes[a] = Axis{}
		}
	}
	return nil
}

// MakeIndividualAxes gives figure f its own fresh X/Y axis pair (copying
// the current scale/offset), detaching it from any axis it currently
// shares with other figures.
func (m *Model) MakeIndividualAxes(f int) error {
	fig := m.Figure(f)
	if fig == nil {
		return fmt.Errorf("%w: figure %d", ErrOutOfRange, f)
	}
	oldAx, oldAy := m.Axis(fig.AxisX), m.Axis(fig.AxisY)
	newX, err := m.AddAxis(BusyX)
	if err != nil {
		return err
	}
	newY, err := m.AddAxis(BusyY)
	if err != nil {
		m.axes[newX] = Axis{}
		return err
	}
	*m.Axis(newX) = Axis{used: true, Orientation: BusyX, Scale: oldAx.Scale, Offset: oldAx.Offset, slaveOf: -1}
	*m.Axis(newY) = Axis{used: true, Orientation: BusyY, Scale: oldAy.Scale, Offset: oldAy.Offset, slaveOf: -1}
	oldX, oldY := fig.AxisX, fig.AxisY
	fig.AxisX, fig.AxisY = newX, newY
	for _, a := range [2]int{oldX, oldY} {
		if !m.axisReferenced(a) {
			m.axes[a] = Axis{}
		}
	}
	return nil
}

// Exchange swaps two figure slots' contents in place (used by the
// scripting frontend to reorder paint order).
func (m *Model) Exchange(f1, f2 int) error {
	if m.Figure(f1) == nil || m.Figure(f2) == nil {
		return fmt.Errorf("%w: figure %d or %d", ErrOutOfRange, f1, f2)
	}
	m.figures[f1], m.figures[f2] = m.figures[f2], m.figures[f1]
	return nil
}
