package pdfcolumns

import (
	"fmt"
	"math"
)

// Rect is an integer bounding box in page coordinates with the origin at the
// top-left corner of the page.
type Rect struct {
	X0 int // Left
	Y0 int // Top
	X1 int // Right
	Y1 int // Bottom
}

// roundingFuzz keeps float boxes that sit a hair past an integer from
// growing by a whole unit.
const roundingFuzz = 1e-3

// RectFromFloat converts a float box into the smallest integer Rect that
// covers it.
func RectFromFloat(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: int(math.Floor(x0 + roundingFuzz)),
		Y0: int(math.Floor(y0 + roundingFuzz)),
		X1: int(math.Ceil(x1 - roundingFuzz)),
		Y1: int(math.Ceil(y1 - roundingFuzz)),
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	return r.Y1 - r.Y0
}

// IsEmpty reports whether the rectangle has no area. Inverted rectangles
// are empty.
func (r Rect) IsEmpty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 {
	return float64(r.X0+r.X1) / 2
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return float64(r.Y0+r.Y1) / 2
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d, %d, %d, %d)", r.X0, r.Y0, r.X1, r.Y1)
}

// Intersect returns the common area of a and b, or the zero Rect when they
// are disjoint or either is empty.
func Intersect(a, b Rect) Rect {
	if a.IsEmpty() || b.IsEmpty() {
		return Rect{}
	}
	r := Rect{
		X0: max(a.X0, b.X0),
		Y0: max(a.Y0, b.Y0),
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
	}
	if r.IsEmpty() {
		return Rect{}
	}
	return r
}

// Union returns the bounding box of a and b. An empty operand does not
// contribute.
func Union(a, b Rect) Rect {
	if a.IsEmpty() {
		if b.IsEmpty() {
			return Rect{}
		}
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return Rect{
		X0: min(a.X0, b.X0),
		Y0: min(a.Y0, b.Y0),
		X1: max(a.X1, b.X1),
		Y1: max(a.Y1, b.Y1),
	}
}

// Contains reports whether inner lies entirely inside outer. Empty
// rectangles neither contain nor are contained.
func Contains(outer, inner Rect) bool {
	if outer.IsEmpty() || inner.IsEmpty() {
		return false
	}
	return outer.X0 <= inner.X0 && outer.Y0 <= inner.Y0 &&
		outer.X1 >= inner.X1 && outer.Y1 >= inner.Y1
}

// Intersects reports whether a and b share a non-empty area.
func Intersects(a, b Rect) bool {
	return !Intersect(a, b).IsEmpty()
}

// IntersectsAny reports whether r shares a non-empty area with any member
// of set.
func IntersectsAny(r Rect, set []Rect) bool {
	for _, s := range set {
		if Intersects(r, s) {
			return true
		}
	}
	return false
}

// OverlapsX reports whether a and b share any part of the x axis, touching
// edges included. Blocks that fail this test sit in different columns.
func OverlapsX(a, b Rect) bool {
	return !(a.X1 < b.X0 || b.X1 < a.X0)
}
