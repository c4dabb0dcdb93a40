package sightline

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tweens are the usual source of attribute mutations in a scene. Each update
// that moves a node records one, which restarts the observer cycle, so the
// idle window covers the frames right after the motion stops.

// tweenChannel binds one tween to the node field it writes.
type tweenChannel struct {
	tw    *gween.Tween
	field *float64
}

// TweenGroup animates up to four fields of one node in lockstep. Build one
// with TweenPosition, TweenScale, TweenSize, TweenRotation or TweenColor, then
// either call Update(dt) yourself or hand it to Play.
//
// An update that changes no field records no mutation, so a settled group
// does not keep observers busy. A disposed target finishes the group without
// writing.
type TweenGroup struct {
	channels [4]tweenChannel
	n        int
	target   *Node
	Done     bool
}

func (g *TweenGroup) bind(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.channels[g.n] = tweenChannel{
		tw:    gween.New(float32(*field), float32(to), duration, fn),
		field: field,
	}
	g.n++
}

// Update advances every channel by dt seconds.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target.IsDisposed() {
		g.Done = true
		return
	}

	moved := false
	done := true
	for i := range g.n {
		ch := &g.channels[i]
		val, finished := ch.tw.Update(dt)
		if v := float64(val); v != *ch.field {
			*ch.field = v
			moved = true
		}
		done = done && finished
	}
	g.Done = done

	if moved {
		g.target.MarkDirty()
	}
}

// Play drives g from fs's frame callbacks until it is done, so the motion and
// the observer ticks it causes read the same clock. The first frame only sets
// the baseline. onDone may be nil.
func (g *TweenGroup) Play(fs FrameScheduler, onDone func()) {
	last := time.Duration(-1)
	var step func(ts time.Duration)
	step = func(ts time.Duration) {
		if last >= 0 {
			g.Update(float32((ts - last).Seconds()))
		}
		last = ts
		if g.Done {
			if onDone != nil {
				onDone()
			}
			return
		}
		fs.RequestFrame(step)
	}
	fs.RequestFrame(step)
}

// TweenPosition moves node to (toX, toY).
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.bind(&node.X, toX, duration, fn)
	g.bind(&node.Y, toY, duration, fn)
	return g
}

// TweenScale scales node to (toSX, toSY).
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.bind(&node.ScaleX, toSX, duration, fn)
	g.bind(&node.ScaleY, toSY, duration, fn)
	return g
}

// TweenSize resizes node's box, which changes its client rect and so its
// intersection ratio even when the node stays in place.
func TweenSize(node *Node, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.bind(&node.Width, toW, duration, fn)
	g.bind(&node.Height, toH, duration, fn)
	return g
}

// TweenRotation rotates node to the given angle in radians.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.bind(&node.Rotation, to, duration, fn)
	return g
}

// TweenColor fades all four components of node.Color to the target. Color
// has no effect on geometry, but each step still records an attribute
// mutation the way any style change would.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.bind(&node.Color.R, to.R, duration, fn)
	g.bind(&node.Color.G, to.G, duration, fn)
	g.bind(&node.Color.B, to.B, duration, fn)
	g.bind(&node.Color.A, to.A, duration, fn)
	return g
}
