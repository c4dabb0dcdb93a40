package sightline

import "time"

// Entry is a snapshot of one threshold crossing. Entries are created by an
// Observer during an update pass and are never modified afterwards.
type Entry struct {
	// Target is the observed node.
	Target *Node
	// BoundingClientRect is the target's screen-space box at measurement time.
	BoundingClientRect Rect
	// IntersectionRect is the visible part of the target after clipping by
	// ancestors and the margin-expanded root. It is the zero Rect when the
	// target does not intersect.
	IntersectionRect Rect
	// IntersectionRatio is IntersectionRect's area over the target's area,
	// or 0 for zero-area and non-intersecting targets.
	IntersectionRatio float64
	// IsIntersecting is true when the target overlapped the root at all. A
	// zero-area target lying inside the root intersects with a ratio of 0.
	IsIntersecting bool
	// RootBounds is the margin-expanded root rectangle.
	RootBounds Rect
	// Time is the host clock reading when the entry was produced.
	Time time.Duration
}
