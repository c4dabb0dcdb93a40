package sightline

import "time"

// EventType identifies a host event a Controller can subscribe to.
type EventType uint8

const (
	EventResize      EventType = iota // the viewport changed size
	EventScroll                       // the visible region moved (camera scroll/zoom)
	EventPointerMove                  // the pointer moved (hover)
	EventPointerDown                  // a pointer button was pressed
	EventPointerUp                    // a pointer button was released
	EventClick                        // press then release
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventResize:
		return "resize"
	case EventScroll:
		return "scroll"
	case EventPointerMove:
		return "pointermove"
	case EventPointerDown:
		return "pointerdown"
	case EventPointerUp:
		return "pointerup"
	case EventClick:
		return "click"
	default:
		return "unknown"
	}
}

// MutationKind is the granularity of a structural change record.
type MutationKind uint8

const (
	MutationAttributes    MutationKind = iota // a node property changed (position, size, clipping...)
	MutationChildList                         // children were added or removed
	MutationCharacterData                     // a node's content changed
)

// Mutation describes one structural change delivered by a MutationSource.
type Mutation struct {
	Kind   MutationKind
	Target *Node
}

// Host is the environment a Controller and its Observers measure against.
// Scene is the standard implementation.
//
// All callbacks are invoked on the host's single update goroutine.
type Host interface {
	// Now returns the host clock. It must be monotonic.
	Now() time.Duration
	// AfterFunc runs fn once after d has elapsed on the host clock. The
	// returned function cancels it if it has not fired yet.
	AfterFunc(d time.Duration, fn func()) (stop func())
	// ViewportRoot is the node used when an Observer is given no root.
	ViewportRoot() *Node
	// ClientRect returns n's bounding box in screen space. For the viewport
	// root it is the viewport itself, anchored at the origin.
	ClientRect(n *Node) Rect
	// IsAttached reports whether n is part of the host's live tree.
	IsAttached(n *Node) bool
	// On subscribes fn to ev. The returned function unsubscribes.
	On(ev EventType, fn func()) (off func())
}

// FrameScheduler is implemented by hosts that can run a callback in sync with
// their next frame. Hosts without it are driven by a fixed timer instead.
type FrameScheduler interface {
	RequestFrame(fn func(ts time.Duration))
}

// MutationSource is implemented by hosts that can report structural changes.
// ok is false when the host cannot deliver them, which puts the Controller in
// fallback mode.
type MutationSource interface {
	ObserveMutations(fn func([]Mutation)) (stop func(), ok bool)
}
