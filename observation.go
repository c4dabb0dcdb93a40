package sightline

// observation is the per-(target, observer) measurement state.
type observation struct {
	target   *Node
	observer *Observer

	prevRect   Rect
	prevBucket int
	prevRatio  float64
}

// updateResult reports what changed for one observation in one pass.
type updateResult struct {
	ratioChanged     bool
	thresholdChanged bool
	rectChanged      bool
}

func (r updateResult) changed() bool {
	return r.ratioChanged || r.rectChanged
}

func newObservation(target *Node, o *Observer) *observation {
	return &observation{target: target, observer: o}
}

// update measures the target against root (rootRect is already margin
// expanded) and queues an Entry on the owning observer when the target moved
// into a different threshold bucket.
func (ob *observation) update(root *Node, rootRect Rect) updateResult {
	host := ob.observer.host
	targetRect := host.ClientRect(ob.target)

	var inter Rect
	exists := false
	// Hidden targets are not rendered, so they never intersect.
	if ob.target.shownInTree() && root.Contains(ob.target) && host.IsAttached(root) {
		inter = ob.clippedIntersection(root, rootRect, targetRect)
		exists = inter.Width >= 0 && inter.Height >= 0
	}

	// Both clip extents are negative for a target diagonally outside the root,
	// so this raw ratio can exceed 1. It only feeds change detection; emitted
	// entries for a missing intersection carry ratio 0.
	ratio := 0.0
	if targetArea := targetRect.Area(); targetArea != 0 {
		ratio = inter.Area() / targetArea
	}

	// Ratio buckets are meaningless for zero-area targets and non-existent
	// intersections; those only distinguish "intersecting" from "not".
	var bucket int
	switch {
	case exists && !targetRect.IsEmpty():
		bucket = ob.observer.firstBucketAbove(ratio)
	case exists:
		bucket = 1
	default:
		bucket = 0
	}

	res := updateResult{
		thresholdChanged: bucket != ob.prevBucket,
		ratioChanged:     ratio != ob.prevRatio,
		rectChanged:      !targetRect.Equal(ob.prevRect),
	}

	ob.prevRect = targetRect
	ob.prevBucket = bucket
	ob.prevRatio = ratio

	if !exists {
		ratio = 0
		inter = Rect{}
	}

	if res.thresholdChanged {
		ob.observer.enqueue(Entry{
			Target:             ob.target,
			BoundingClientRect: targetRect,
			IntersectionRect:   inter,
			IntersectionRatio:  ratio,
			IsIntersecting:     exists,
			RootBounds:         rootRect,
			Time:               host.Now(),
		})
	}
	return res
}

// clippedIntersection walks from the target's parent up to root, clipping the
// target box by every ancestor with ClipChildren set and finally by rootRect.
func (ob *observation) clippedIntersection(root *Node, rootRect, targetRect Rect) Rect {
	host := ob.observer.host
	inter := targetRect
	for p := ob.target.Parent; ; p = p.Parent {
		if p == nil || p == root {
			return clipRect(rootRect, inter)
		}
		if p.ClipChildren {
			inter = clipRect(host.ClientRect(p), inter)
		}
	}
}
