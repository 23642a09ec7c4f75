package engine

import (
	"image"

	"github.com/itohio/plotcore/x/collab"
)

// Advance runs the progressive draw algorithm (component G) until either
// every figure finishes or deadlineMillis is reached; it returns true
// once a complete, promoted sketch is ready for Draw (spec.md §4.7).
func (e *Engine) Advance(viewport collab.Viewport, rast collab.Rasterizer, clock collab.Clock, deadlineMillis int64) bool {
	return e.draw.Advance(e.model, e.lookupDataset, e.rc, viewport, rast, clock, deadlineMillis)
}

// Draw replays the last promoted sketch onto surface (spec.md §4.7's
// plotDrawSketch).
func (e *Engine) Draw(surface image.Image, viewport collab.Viewport, rast collab.Rasterizer) {
	e.draw.Draw(e.model, surface, viewport, rast)
}

// InProgress reports whether a draw pass is mid-flight.
func (e *Engine) InProgress() bool { return e.draw.InProgress() }

// ResetDraw forces every figure's draw cursor back to FINISHED,
// discarding in-flight progress (spec.md §5: any mutation invalidating
// cursors must do this).
func (e *Engine) ResetDraw() { e.draw.Reset() }
