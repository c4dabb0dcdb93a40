package sightline

import "math"

// Rect is an axis-aligned rectangle in screen space. The coordinate system has
// its origin at the top-left, with Y increasing downward.
//
// Width and Height are always derived from the edges. Construct values with
// [NewRect]; the zero Rect is the empty sentinel used for "no intersection".
type Rect struct {
	Left, Top, Right, Bottom float64
	Width, Height            float64
}

// NewRect returns the rectangle with the given origin and size.
func NewRect(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
		Width:  width,
		Height: height,
	}
}

// rectFromEdges builds a Rect from its four edges. Width and height may be
// negative when right < left or bottom < top.
func rectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Area returns Width*Height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// IsEmpty reports whether both Width and Height are exactly zero. A 1x0
// rectangle is not empty by this definition.
func (r Rect) IsEmpty() bool {
	return r.Width == 0 && r.Height == 0
}

// Equal compares the four edges. Width and Height are derived and ignored.
func (r Rect) Equal(o Rect) bool {
	return r.Left == o.Left && r.Top == o.Top &&
		r.Right == o.Right && r.Bottom == o.Bottom
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right &&
		y >= r.Top && y <= r.Bottom
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.Left <= other.Right &&
		r.Right >= other.Left &&
		r.Top <= other.Bottom &&
		r.Bottom >= other.Top
}

// clipRect clips target against container. The result has negative width or
// height when the two do not overlap; callers treat that as no intersection.
func clipRect(container, target Rect) Rect {
	return rectFromEdges(
		math.Max(target.Left, container.Left),
		math.Max(target.Top, container.Top),
		math.Min(target.Right, container.Right),
		math.Min(target.Bottom, container.Bottom),
	)
}

// aabbOf computes the axis-aligned bounding box for a box of size (w, h)
// transformed by the given affine matrix.
func aabbOf(transform [6]float64, w, h float64) Rect {
	a, b, cc, d, tx, ty := transform[0], transform[2], transform[1], transform[3], transform[4], transform[5]

	// Transform four corners: (0,0), (w,0), (w,h), (0,h)
	x0, y0 := tx, ty
	x1, y1 := a*w+tx, cc*w+ty
	x2, y2 := a*w+b*h+tx, cc*w+d*h+ty
	x3, y3 := b*h+tx, d*h+ty

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return rectFromEdges(minX, minY, maxX, maxY)
}
