package sketch

import (
	"github.com/itohio/plotcore/internal/logx"
	"github.com/itohio/plotcore/x/axis"
	"github.com/itohio/plotcore/x/collab"
	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
)

// Engine drives the progressive draw algorithm of spec.md §4.7 across a
// fixed number of figure slots, sharing one chunk pool between them.
type Engine struct {
	pool       *Pool
	cursors    []cursor
	inProgress bool
	marginPx   float32
}

// NewEngine allocates an engine with figureMax draw cursors over pool.
// marginPx is the horizontal viewport margin chunks are tested against
// (spec.md §4.7: "16 px margin").
func NewEngine(pool *Pool, figureMax int, marginPx float32) *Engine {
	cs := make([]cursor, figureMax)
	for i := range cs {
		cs[i] = newCursor()
	}
	return &Engine{pool: pool, cursors: cs, marginPx: marginPx}
}

// InProgress reports whether a frame's pass is still underway, resuming
// on the next Advance call rather than restarting.
func (e *Engine) InProgress() bool { return e.inProgress }

// Reset forces every cursor back to FINISHED with its accumulated lists
// released, used when a mutation invalidates outstanding cursors (dataset
// clean/resize/overflow sweep across head_N, spec.md §5).
func (e *Engine) Reset() {
	for i := range e.cursors {
		e.pool.releaseList(e.cursors[i].curHead)
		e.pool.releaseList(e.cursors[i].drawHead)
		e.cursors[i] = newCursor()
	}
	e.inProgress = false
}

// colorFor maps a figure index to a palette slot (1..8 = series colors,
// spec.md §6's Scheme convention), cycling if there are more figures
// than colors.
func colorFor(f int) int {
	return 1 + f%8
}

// Advance runs the progressive rasterization frame algorithm (spec.md
// §4.7) until either every figure finishes or deadlineMillis is reached,
// whichever comes first. It returns true once every figure has finished
// and its list has been promoted for Draw to replay.
func (e *Engine) Advance(m *axis.Model, lookup axis.DatasetLookup, rc *rangecache.Cache, viewport collab.Viewport, rast collab.Rasterizer, clock collab.Clock, deadlineMillis int64) bool {
	if !e.inProgress {
		e.startPass(m, lookup)
	}

	for clock.NowMillis() < deadlineMillis {
		f := e.mostLaggingFigure(m)
		if f < 0 {
			e.promoteAll(m)
			e.inProgress = false
			return true
		}
		e.trialOneChunk(m, lookup, rc, viewport, rast, f)
	}
	return false
}

func (e *Engine) startPass(m *axis.Model, lookup axis.DatasetLookup) {
	n := m.FigureCount()
	if len(e.cursors) < n {
		grown := make([]cursor, n)
		copy(grown, e.cursors)
		for i := len(e.cursors); i < n; i++ {
			grown[i] = newCursor()
		}
		e.cursors = grown
	}
	for f := 0; f < n; f++ {
		c := &e.cursors[f]
		e.pool.releaseList(c.curHead)
		c.curHead, c.curTail = noNode, noNode
		c.haveLast = false

		fig := m.Figure(f)
		if fig == nil {
			c.valid = false
			c.state = Finished
			continue
		}
		ds := lookup(fig.Dataset)
		if ds == nil || ds.Count() == 0 {
			c.valid = false
			c.state = Finished
			continue
		}
		c.valid = true
		c.rN = ds.HeadRow()
		c.idN = ds.LogicalIDOfRow(c.rN)
		c.state = Started
	}
	e.inProgress = true
}

// mostLaggingFigure picks the unfinished figure with the smallest idN,
// so output stays roughly balanced across series (spec.md §4.7).
func (e *Engine) mostLaggingFigure(m *axis.Model) int {
	best := -1
	var bestID int64
	for f := range e.cursors {
		c := &e.cursors[f]
		if !c.valid || c.state == Finished {
			continue
		}
		if best < 0 || c.idN < bestID {
			best = f
			bestID = c.idN
		}
	}
	return best
}

func (e *Engine) promoteAll(m *axis.Model) {
	for f := range e.cursors {
		c := &e.cursors[f]
		e.pool.releaseList(c.drawHead)
		c.drawHead = c.curHead
		c.curHead, c.curTail = noNode, noNode
	}
}

// trialOneChunk implements plotDrawFigureTrial: it produces one ring
// chunk's worth of output for figure f and yields (spec.md §4.7).
func (e *Engine) trialOneChunk(m *axis.Model, lookup axis.DatasetLookup, rc *rangecache.Cache, viewport collab.Viewport, rast collab.Rasterizer, f int) {
	c := &e.cursors[f]
	fig := m.Figure(f)
	if fig == nil {
		c.state = Finished
		return
	}
	ds := lookup(fig.Dataset)
	if ds == nil {
		c.state = Finished
		return
	}

	rows := ds.ChunkRows()
	chunk := ds.ChunkIndex(c.rN)
	chunkStart := chunk * rows

	if e.chunkOutsideViewport(m, ds, rc, fig, viewport, chunk) {
		c.haveLast = false
		e.advanceCursorPastChunk(ds, c, chunkStart, rows)
		return
	}

	sx, ox := m.ComposedScaleOffset(fig.AxisX)
	sy, oy := m.ComposedScaleOffset(fig.AxisY)
	toPixel := func(p collab.Point2D) collab.Point2D {
		return collab.Point2D{
			X: viewport.X + (p.X*sx+ox)*viewport.W,
			Y: viewport.Y + (p.Y*sy+oy)*viewport.H,
		}
	}

	r := c.rN
	last := chunkStart + rows - 1
	reachedTail := false
	for ; r <= last; r++ {
		if !ds.RowValid(r) {
			reachedTail = true
			break
		}
		xv, xok := ds.ValueAt(r, fig.ColumnX)
		yv, yok := ds.ValueAt(r, fig.ColumnY)
		if !xok || !yok || !numeric.Finite(xv) || !numeric.Finite(yv) {
			c.haveLast = false
			continue
		}
		cur := collab.Point2D{X: xv, Y: yv}
		e.trialPoint(rast, c, fig, f, cur, toPixel)
	}

	if reachedTail {
		c.state = Finished
		c.rN = r
		return
	}
	next := chunkStart + rows
	if next >= ds.LengthN() {
		next = 0
	}
	c.rN = next
	if ds.RowValid(next) {
		c.idN = ds.LogicalIDOfRow(next)
		c.state = Interrupted
	} else {
		c.state = Finished
	}
}

func (e *Engine) trialPoint(rast collab.Rasterizer, c *cursor, fig *axis.Figure, f int, cur collab.Point2D, toPixel func(collab.Point2D) collab.Point2D) {
	color := colorFor(f)
	switch collab.Drawing(fig.Drawing) {
	case collab.DrawDot:
		if rast.TrialDot(toPixel(cur), fig.Width, color) {
			e.appendPoint(c, cur)
		}
	default: // DrawLine, DrawDash
		if c.haveLast {
			if rast.TrialLine(toPixel(c.lastPt), toPixel(cur), color, fig.Width) {
				e.appendPoint(c, c.lastPt)
				e.appendPoint(c, cur)
			}
		}
		c.lastPt = cur
		c.haveLast = true
	}
}

func (e *Engine) appendPoint(c *cursor, p collab.Point2D) {
	head, tail, ok := e.pool.append(c.curHead, c.curTail, p)
	c.curHead, c.curTail = head, tail
	if !ok {
		logx.Log.Warn().Msg("sketch: chunk pool exhausted, dropping point")
	}
}

func (e *Engine) advanceCursorPastChunk(ds *ring.Dataset, c *cursor, chunkStart, rows int) {
	next := chunkStart + rows
	if next >= ds.LengthN() {
		next = 0
	}
	if !ds.RowValid(next) {
		c.state = Finished
		return
	}
	c.rN = next
	c.idN = ds.LogicalIDOfRow(next)
	c.state = Interrupted
}

// chunkOutsideViewport implements spec.md §4.7's skip rule: skip when the
// chunk's X range is outside the horizontal viewport (with margin), its Y
// range is outside the vertical viewport, or either column is fully
// non-finite in this chunk.
func (e *Engine) chunkOutsideViewport(m *axis.Model, ds *ring.Dataset, rc *rangecache.Cache, fig *axis.Figure, viewport collab.Viewport, chunk int) bool {
	xEntry := rc.Fetch(ds, fig.ColumnX)
	yEntry := rc.Fetch(ds, fig.ColumnY)
	xRng, xok := xEntry.ChunkRange(chunk)
	yRng, yok := yEntry.ChunkRange(chunk)
	if !xok || !yok || !xRng.Valid || !yRng.Valid {
		return true
	}

	sx, ox := m.ComposedScaleOffset(fig.AxisX)
	sy, oy := m.ComposedScaleOffset(fig.AxisY)
	pxLo := viewport.X + (xRng.Min*sx+ox)*viewport.W
	pxHi := viewport.X + (xRng.Max*sx+ox)*viewport.W
	if pxLo > pxHi {
		pxLo, pxHi = pxHi, pxLo
	}
	if !viewport.OverlapsX(pxLo, pxHi, e.marginPx) {
		return true
	}

	pyLo := viewport.Y + (yRng.Min*sy+oy)*viewport.H
	pyHi := viewport.Y + (yRng.Max*sy+oy)*viewport.H
	if pyLo > pyHi {
		pyLo, pyHi = pyHi, pyLo
	}
	return !viewport.OverlapsY(pyLo, pyHi)
}
