// Package images - Rectangle geometry shared by the motion pipeline.
package images

import (
	"fmt"
	"image"
)

// Rect is a lightweight axis-aligned bounding box in source-frame pixels.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// RectXYWH builds a Rect from a top-left corner and a size.
//
// Arguments:
//   - x, y: Top-left corner.
//   - width, height: Size in pixels, both >= 0.
//
// Returns:
//   - Rect: The rectangle spanning [x, x+width) x [y, y+height).
//
// @example
// r := RectXYWH(2, 2, 5, 5) // Rect{2, 2, 7, 7}
func RectXYWH(x, y, width, height int) Rect {
	return Rect{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// RectFromRectangle converts an image.Rectangle (as returned by gocv.BoundingRect).
func RectFromRectangle(r image.Rectangle) Rect {
	return Rect{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Rectangle converts the Rect to an image.Rectangle for use with gocv.
//
// The result is not canonicalized; a Rect with X2 < X1 never comes out of
// the contour extractor.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rectangle{Min: image.Pt(r.X1, r.Y1), Max: image.Pt(r.X2, r.Y2)}
}

// Dx returns the width.
func (r Rect) Dx() int {
	return r.X2 - r.X1
}

// Dy returns the height.
func (r Rect) Dy() int {
	return r.Y2 - r.Y1
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.X1 >= r.X2 || r.Y1 >= r.Y2
}

// TopLeft returns the inclusive top-left corner.
func (r Rect) TopLeft() image.Point {
	return image.Pt(r.X1, r.Y1)
}

// BottomRight returns the exclusive bottom-right corner.
func (r Rect) BottomRight() image.Point {
	return image.Pt(r.X2, r.Y2)
}

// Bound returns the smallest rectangle containing both r and o.
//
// Unlike image.Rectangle.Union, degenerate rectangles are not ignored: a
// zero-width or zero-height box still pulls the bounds out to its corners.
//
// Arguments:
//   - o: The other rectangle.
//
// Returns:
//   - Rect: min of the top-left corners, max of the bottom-right corners.
//
// @example
// a := Rect{0, 0, 5, 5}
// b := Rect{10, 10, 15, 15}
// a.Bound(b) // Rect{0, 0, 15, 15}
func (r Rect) Bound(o Rect) Rect {
	return Rect{
		X1: min(r.X1, o.X1),
		Y1: min(r.Y1, o.Y1),
		X2: max(r.X2, o.X2),
		Y2: max(r.Y2, o.Y2),
	}
}

// Contains reports whether o lies entirely within r, i.e. the bound of the
// two equals r exactly. Identical rectangles contain each other.
func (r Rect) Contains(o Rect) bool {
	return r.Bound(o) == r
}

// In reports whether r lies within the given frame size anchored at (0, 0).
func (r Rect) In(width, height int) bool {
	return r.X1 >= 0 && r.Y1 >= 0 && r.X1 <= r.X2 && r.Y1 <= r.Y2 && r.X2 <= width && r.Y2 <= height
}

func (r Rect) String() string {
	return fmt.Sprintf("{%d,%d,%d,%d}", r.X1, r.Y1, r.Dx(), r.Dy())
}
