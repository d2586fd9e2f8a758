// Given the layout of a port map, implements how to
// draw its overlays: status markers, legend and caption.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images or a pdf writer.
package portdraw

import (
	"image/color"

	"golang.org/x/image/math/fixed"
)

// Drawer knows how to do the actual draw operations
// but doesn't need any port map knowledge.
// Its path methods make it a rasterx.Adder, so that the
// shape helpers of rasterx may be used to feed it.
type Drawer interface {
	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// Start starts a new path at the given point.
	Start(a fixed.Point26_6)

	// Line Adds a line for the current point to `b`
	Line(b fixed.Point26_6)

	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)

	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)

	// Closes the path to the start point if `closeLoop` is true
	Stop(closeLoop bool)

	// SetColor set the color for the current path
	SetColor(c color.NRGBA)

	// Draw fills or strokes the accumulated path
	Draw()
}

type Stroker interface {
	Drawer

	// SetLineWidth sets the width, in pixels, of the stroked path.
	SetLineWidth(width float64)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the begining of every path.
	// If the `willXXX` boolean is false, the returned drawer may be nil.
	SetupDrawers(willFill, willStroke bool) (Drawer, Stroker)

	// Text writes a single line of text, centered in box.
	Text(box Rect, text string, c color.NRGBA)
}

// Clipper is implemented by drivers which can restrict
// drawing to a box, such as the area of one panel.
type Clipper interface {
	// PushClip restricts the following draw operations to box,
	// until PopClip is called. Calls are not nested.
	PushClip(box Rect)
	PopClip()
}

// Rect is an axis aligned box in canvas coordinates,
// with the Y axis pointing down.
type Rect struct{ X0, Y0, X1, Y1 float64 }

func (r Rect) Dx() float64 { return r.X1 - r.X0 }

func (r Rect) Dy() float64 { return r.Y1 - r.Y0 }

// Center returns the middle point of the box.
func (r Rect) Center() (x, y float64) { return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2 }

// Inset shrinks the box by d on every side.
func (r Rect) Inset(d float64) Rect { return Rect{r.X0 + d, r.Y0 + d, r.X1 - d, r.Y1 - d} }

// ToFixed converts a point given in pixels.
func ToFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

// FromFixed is the inverse of ToFixed.
func FromFixed(a fixed.Point26_6) (x, y float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}
