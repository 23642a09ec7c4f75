package axis

import "github.com/itohio/plotcore/internal/logx"

// SlaveMode selects how slave() changes the relation between a dependent
// axis and its base (spec.md §4.5's slave(a,b,scale,offset,mode)).
type SlaveMode int

const (
	// SlaveEnable sets a new linear relation a.value = b.value*scale+offset.
	SlaveEnable SlaveMode = iota
	// SlaveHold converts a's current independent (scale,offset) into the
	// equivalent relation given b's current relation, so the visual state
	// is preserved at the moment of the call.
	SlaveHold
	// SlaveDisable dissolves the relation, baking b's transform into a so
	// a becomes independent with the same visual result.
	SlaveDisable
)

// Slave implements spec.md §4.5's slave operation. Invariants: a base
// axis may not itself be a slave (no slave-of-slave), an axis that is
// base for any slave cannot be re-enslaved, and a may not enslave
// itself (no cycles — trivially true with no slave-of-slave, since any
// longer cycle would require an intermediate slave-of-slave link).
func (m *Model) Slave(a, b int, scale, offset float32, mode SlaveMode) error {
	ax := m.Axis(a)
	if ax == nil {
		return ErrOutOfRange
	}

	if mode == SlaveDisable {
		if ax.IsSlave() {
			cs, co := m.composedScaleOffset(a)
			ax.Scale, ax.Offset = cs, co
			ax.slaveOf = -1
		}
		return nil
	}

	if a == b {
		logx.Log.Error().Int("axis", a).Msg(ErrSlaveCycle.Error())
		return ErrSlaveCycle
	}
	bx := m.Axis(b)
	if bx == nil {
		return ErrOutOfRange
	}
	if bx.IsSlave() {
		logx.Log.Error().Int("axis", a).Int("base", b).Msg(ErrSlaveOfSlave.Error())
		return ErrSlaveOfSlave
	}
	if m.hasSlave(a) {
		logx.Log.Error().Int("axis", a).Int("base", b).Msg(ErrAlreadyBase.Error())
		return ErrAlreadyBase
	}

	switch mode {
	case SlaveEnable:
		ax.slaveOf = b
		ax.slaveScale = scale
		ax.slaveOffset = offset
	case SlaveHold:
		// Derive the slave-relation parameters that reproduce a's current
		// independent (scale, offset) when composed with b's, so the
		// visual state does not jump at the moment of enslavement.
		if bx.Scale == 0 {
			return nil
		}
		ax.slaveScale = ax.Scale / bx.Scale
		ax.slaveOffset = (ax.Offset - bx.Offset) / bx.Scale
		ax.slaveOf = b
	}

	m.retargetFocus(a, b)
	return nil
}

// retargetFocus retargets OnX/OnY from a to b when the focused axis just
// became a's slave (spec.md §4.5: "on_X/on_Y ... are retargeted to the
// base whenever the focused axis becomes a slave").
func (m *Model) retargetFocus(a, b int) {
	if m.OnX == a {
		m.OnX = b
	}
	if m.OnY == a {
		m.OnY = b
	}
}

// hasSlave reports whether any other axis currently enslaves a.
func (m *Model) hasSlave(a int) bool {
	for i := range m.axes {
		if m.axes[i].used && m.axes[i].slaveOf == a {
			return true
		}
	}
	return false
}

// composedScaleOffset returns axis a's effective scale/offset after
// composing through its base, if any (spec.md §3:
// axisConv(a,v) = composeViewport(v*sA*sB + oA*sB + oB), with no
// slave-of-slave so one composition level is exhaustive).
func (m *Model) composedScaleOffset(a int) (float32, float32) {
	ax := m.Axis(a)
	if ax == nil || !ax.IsSlave() {
		return ax.Scale, ax.Offset
	}
	base := m.Axis(ax.slaveOf)
	if base == nil {
		return ax.Scale, ax.Offset
	}
	s := ax.slaveScale * base.Scale
	o := ax.slaveOffset*base.Scale + base.Offset
	return s, o
}

// ComposedScaleOffset exposes a's effective (scale, offset) after
// composing through a base axis, for callers (the draw engine) that need
// the raw linear transform rather than a single converted value.
func (m *Model) ComposedScaleOffset(a int) (float32, float32) {
	return m.composedScaleOffset(a)
}

// Convert maps a raw value on axis a to a normalized viewport coordinate,
// composing through a base axis when a is a slave (spec.md §3's
// axisConv).
func (m *Model) Convert(a int, v float32) float32 {
	s, o := m.composedScaleOffset(a)
	return v*s + o
}

// InverseConvert maps a normalized viewport coordinate back to a's raw
// value domain.
func (m *Model) InverseConvert(a int, viewport float32) float32 {
	s, o := m.composedScaleOffset(a)
	if s == 0 {
		return 0
	}
	return (viewport - o) / s
}
