package sightline

import (
	"fmt"
	"slices"
)

// Callback receives the entries queued during one update pass, in the order
// they were produced, together with the Observer that produced them.
type Callback func(entries []Entry, o *Observer)

// Options configures an Observer. The zero value observes against the
// host's viewport root with no margin and a single threshold of 0.
type Options struct {
	// Root is the container targets are measured against. Nil means the
	// host's viewport root.
	Root *Node
	// RootMargin grows or shrinks the root rectangle, in CSS shorthand with
	// px or % units. Empty means DefaultRootMargin.
	RootMargin string
	// Threshold is a ratio or list of ratios whose crossing triggers a
	// notification. See ParseThresholds for accepted values.
	Threshold any
}

// Observer reports when its targets' visible ratio against a root crosses
// one of its thresholds. Observers are driven by a Controller; all methods
// must be called from the host's update goroutine.
type Observer struct {
	ctrl     *Controller
	host     Host
	callback Callback

	root       *Node
	margin     RootMargin
	thresholds []float64

	registry map[*Node]*observation
	order    []*observation
	queue    []Entry
}

// NewObserver creates an Observer driven by ctrl. It does not start
// measuring until the first Observe call.
func NewObserver(ctrl *Controller, cb Callback, opts *Options) (*Observer, error) {
	if cb == nil {
		return nil, ErrInvalidCallback
	}
	if ctrl == nil {
		return nil, fmt.Errorf("%w: nil controller", ErrInvalidOptions)
	}
	if opts == nil {
		opts = &Options{}
	}

	root := opts.Root
	if root == nil {
		root = ctrl.host.ViewportRoot()
	} else if root.IsDisposed() {
		return nil, fmt.Errorf("%w: %q is disposed", ErrInvalidRoot, root.Name)
	}

	thresholds, err := ParseThresholds(opts.Threshold)
	if err != nil {
		return nil, err
	}
	margin, err := ParseRootMargin(opts.RootMargin)
	if err != nil {
		return nil, err
	}

	return &Observer{
		ctrl:       ctrl,
		host:       ctrl.host,
		callback:   cb,
		root:       root,
		margin:     margin,
		thresholds: thresholds,
		registry:   make(map[*Node]*observation),
	}, nil
}

// Root returns the node targets are measured against.
func (o *Observer) Root() *Node {
	return o.root
}

// RootMargin returns the canonical four-component margin string.
func (o *Observer) RootMargin() string {
	return o.margin.String()
}

// Thresholds returns a copy of the sorted threshold list.
func (o *Observer) Thresholds() []float64 {
	return slices.Clone(o.thresholds)
}

// Observe starts tracking target. Observing a target twice is a no-op.
// The first measurement happens on the next frame.
func (o *Observer) Observe(target *Node) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	if _, ok := o.registry[target]; ok {
		return nil
	}

	ob := newObservation(target, o)
	o.registry[target] = ob
	o.order = append(o.order, ob)
	o.ctrl.log.Debug("observe", "target", target.Name, "id", target.ID)

	o.ctrl.connect(o)
	o.ctrl.StartCycle()
	return nil
}

// Unobserve stops tracking target. When the last target is removed the
// Observer detaches from its Controller and drops queued entries. Disposed
// targets are accepted so they can still leave the registry.
func (o *Observer) Unobserve(target *Node) error {
	if target == nil {
		return ErrMissingArgument
	}
	ob, ok := o.registry[target]
	if !ok {
		return nil
	}
	delete(o.registry, target)
	if i := slices.Index(o.order, ob); i >= 0 {
		o.order = slices.Delete(o.order, i, i+1)
	}
	o.ctrl.log.Debug("unobserve", "target", target.Name, "id", target.ID)

	if len(o.registry) == 0 {
		o.Disconnect()
	}
	return nil
}

// Disconnect stops tracking every target and detaches from the Controller.
func (o *Observer) Disconnect() {
	clear(o.registry)
	o.order = nil
	o.queue = nil
	o.ctrl.disconnect(o)
}

// TakeRecords returns and clears the queued entries.
func (o *Observer) TakeRecords() []Entry {
	entries := o.queue
	o.queue = nil
	return entries
}

// Len returns the number of observed targets.
func (o *Observer) Len() int {
	return len(o.order)
}

func checkTarget(target *Node) error {
	if target == nil {
		return ErrMissingArgument
	}
	if target.IsDisposed() {
		return fmt.Errorf("%w: %q is disposed", ErrInvalidTarget, target.Name)
	}
	return nil
}

func (o *Observer) enqueue(e Entry) {
	o.queue = append(o.queue, e)
}

// notify hands queued entries to the callback. The queue is drained before
// the callback runs, so the callback may freely re-enter the Observer.
func (o *Observer) notify() {
	if len(o.queue) == 0 {
		return
	}
	entries := o.TakeRecords()
	o.callback(entries, o)
}

// refreshAll measures every observation against the current root rectangle
// and reports whether any target's rectangle or ratio changed.
func (o *Observer) refreshAll() bool {
	if len(o.order) == 0 {
		return false
	}
	rootRect := o.margin.Expand(o.host.ClientRect(o.root))

	changed := false
	for _, ob := range o.order {
		if ob.update(o.root, rootRect).changed() {
			changed = true
		}
	}
	return changed
}

// firstBucketAbove returns how many thresholds are <= ratio.
func (o *Observer) firstBucketAbove(ratio float64) int {
	return bucketFor(o.thresholds, ratio)
}
