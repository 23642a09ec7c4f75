package sketch

import (
	"image"

	"github.com/itohio/plotcore/x/axis"
	"github.com/itohio/plotcore/x/collab"
)

// Draw implements plotDrawSketch: it replays the last promoted sketch
// list for every figure, recomputing each figure's current pixel
// transform and invoking the rasterizer's canvas operation on the
// stored data-space segments. Because sketches store data space, a
// zoom/pan without a data change can reuse the previous frame's sketch
// without rescanning the dataset (spec.md §4.7).
func (e *Engine) Draw(m *axis.Model, surface image.Image, viewport collab.Viewport, rast collab.Rasterizer) {
	rast.DashReset()
	for f := range e.cursors {
		c := &e.cursors[f]
		if c.drawHead == noNode {
			continue
		}
		fig := m.Figure(f)
		if fig == nil || fig.Hidden {
			continue
		}
		e.drawFigure(m, fig, f, c.drawHead, surface, viewport, rast)
	}
}

func (e *Engine) drawFigure(m *axis.Model, fig *axis.Figure, f int, head int, surface image.Image, viewport collab.Viewport, rast collab.Rasterizer) {
	sx, ox := m.ComposedScaleOffset(fig.AxisX)
	sy, oy := m.ComposedScaleOffset(fig.AxisY)
	color := colorFor(f)

	idx := head
	for idx != noNode {
		n := &e.pool.nodes[idx]
		pixels := make([]collab.Point2D, n.fill)
		for i := 0; i < n.fill; i++ {
			p := n.pts[i]
			pixels[i] = collab.Point2D{
				X: viewport.X + (p.X*sx+ox)*viewport.W,
				Y: viewport.Y + (p.Y*sy+oy)*viewport.H,
			}
		}
		switch collab.Drawing(fig.Drawing) {
		case collab.DrawDash:
			rast.CanvasDash(surface, viewport, pixels, color, fig.Width)
		case collab.DrawDot:
			rast.CanvasDot(surface, viewport, pixels, color, fig.Width)
		default:
			rast.CanvasLine(surface, viewport, pixels, color, fig.Width)
		}
		idx = n.next
	}
}
