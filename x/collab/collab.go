// Package collab declares the external collaborators the core consults
// but never implements (spec.md §1 "out of scope", §6 "External
// interfaces"): the rasterizer, the font renderer, the least-squares
// solver, the palette, the millisecond clock, and the row-level data
// loader. Grounded on the teacher's own habit (x/math/filter.Filter,
// x/math/filter.Processor) of declaring small tagged interfaces at the
// point of consumption rather than depending on a concrete
// implementation.
package collab

import "image"

// Point2D is a data-space or pixel-space (X, Y) pair, depending on
// context — sketches store data space (spec.md §3), the rasterizer
// consumes pixel space.
type Point2D struct {
	X, Y float32
}

// Drawing selects the primitive a figure is rendered with.
type Drawing int

const (
	DrawLine Drawing = iota
	DrawDash
	DrawDot
)

// Rasterizer is the draw_t collaborator (spec.md §6): it decides whether
// a primitive is visible in the current viewport (Trial*) and actually
// paints already-visible primitives (Canvas*).
type Rasterizer interface {
	ClearTrial()
	TrialLine(last, current Point2D, color int, width float32) bool
	TrialDot(p Point2D, width float32, color int) bool

	CanvasLine(surface image.Image, viewport Viewport, pts []Point2D, color int, width float32)
	CanvasDash(surface image.Image, viewport Viewport, pts []Point2D, color int, width float32)
	CanvasDot(surface image.Image, viewport Viewport, pts []Point2D, color int, width float32)

	DashReset()
}

// Viewport is the pixel-space clipping rectangle the rasterizer and
// layout engine share.
type Viewport struct {
	X, Y, W, H float32
}

// OverlapsX reports whether the closed pixel interval [lo, hi] on the X
// axis overlaps the viewport expanded by marginPx on every side.
func (v Viewport) OverlapsX(lo, hi, marginPx float32) bool {
	return hi >= v.X-marginPx && lo <= v.X+v.W+marginPx
}

// OverlapsY is OverlapsX's Y-axis counterpart (no margin per spec.md
// §4.7, which only specifies a horizontal 16px margin).
func (v Viewport) OverlapsY(lo, hi float32) bool {
	return hi >= v.Y && lo <= v.Y+v.H
}

// Font is the font/text renderer collaborator.
type Font interface {
	Close()
	SizeUTF8(text string) (w, h float32)
	Height() float32
}

// FontSource opens fonts by file path or embedded resource name.
type FontSource interface {
	OpenFont(nameOrPath string, pt float32, style int) (Font, error)
	DrawText(surface image.Image, f Font, x, y float32, text string, flags int, color int)
}

// LeastSquares is the external solver POLYFIT depends on (spec.md §6,
// §4.3): the engine streams (x, z...) rows into it and reads back
// coefficients and per-output standard deviation. It is never implemented
// in this repo — only declared, matched, and driven.
type LeastSquares interface {
	Initiate(cascades, nx, nz int) error
	Insert(row []float32) error
	Finalise() (coeffs []float32, stddev []float32, err error)
}

// Scheme is the fixed palette: 0=background, 1..8=series colors,
// 9=hidden/muted, 10=text (spec.md §6).
type Scheme interface {
	Color(index int) (r, g, b, a uint8)
}

// Clock is the millisecond-resolution monotonic clock used only for the
// draw engine's frame deadline (spec.md §6).
type Clock interface {
	NowMillis() int64
}
