package sightline

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

const (
	// DefaultIdleTimeout is how long a cycle keeps ticking after the last
	// observed change.
	DefaultIdleTimeout = 50 * time.Millisecond

	// frameInterval paces ticks on hosts without a FrameScheduler.
	frameInterval = time.Second / 60

	hoverDelay  = 200 * time.Millisecond
	resumeDelay = 200 * time.Millisecond
)

// tracker is the part of an Observer the Controller drives.
type tracker interface {
	refreshAll() bool
	notify()
}

// Controller schedules measurement for every Observer connected to it.
//
// A cycle starts on resize, attribute mutations, hover (when enabled) and
// new observations. While running, the Controller re-measures once per frame;
// every frame in which some target's rectangle or ratio changed pushes the
// end of the cycle back by the idle timeout, so transitions are followed until
// they settle. Scroll events and child-list or content mutations request a
// single extra frame without extending the cycle.
//
// Hosts that cannot report mutations put the Controller in fallback mode: a
// cycle is restarted shortly after every one ends, and clicks start one.
//
// Host listeners are installed when the first Observer connects and removed
// when the last one disconnects. A Controller is not safe for concurrent use;
// call it from the host's update goroutine only.
type Controller struct {
	host   Host
	frames FrameScheduler
	log    *slog.Logger

	idleTimeout time.Duration
	trackHovers bool

	cycleStart    time.Duration
	cycleRunning  bool
	tickPending   bool
	repeatForever bool

	hoverActive     bool
	listenersActive bool

	observers []tracker

	offs          []func()
	hoverOff      func()
	stopMutations func()

	hoverDebounce  *debouncer
	resumeDebounce *debouncer
}

// NewController creates a Controller driven by host. It installs nothing on
// the host until an Observer connects.
func NewController(host Host) *Controller {
	c := &Controller{
		host:        host,
		log:         slog.New(slog.DiscardHandler),
		idleTimeout: DefaultIdleTimeout,
	}
	if fs, ok := host.(FrameScheduler); ok {
		c.frames = fs
	}
	c.hoverDebounce = newDebouncer(host, hoverDelay, c.StartCycle)
	c.resumeDebounce = newDebouncer(host, resumeDelay, c.ScheduleTick)
	return c
}

// SetLogger sets the structured logger. A nil logger discards output.
func (c *Controller) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	c.log = l
}

// IdleTimeout returns how long a cycle waits for further changes.
func (c *Controller) IdleTimeout() time.Duration {
	return c.idleTimeout
}

// SetIdleTimeout changes the idle timeout. It applies to the running cycle
// and all later ones.
func (c *Controller) SetIdleTimeout(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative idle timeout %v", ErrInvalidOptions, d)
	}
	c.idleTimeout = d
	return nil
}

// TracksHovers reports whether pointer movement starts cycles.
func (c *Controller) TracksHovers() bool {
	return c.trackHovers
}

// EnableHover makes pointer movement start a cycle, debounced by 200ms.
func (c *Controller) EnableHover() {
	if c.trackHovers {
		return
	}
	c.trackHovers = true
	if c.listenersActive {
		c.addHoverListener()
	}
}

// DisableHover stops reacting to pointer movement.
func (c *Controller) DisableHover() {
	if !c.trackHovers {
		return
	}
	c.trackHovers = false
	if c.hoverActive {
		c.removeHoverListener()
	}
}

// Running reports whether a cycle is in progress.
func (c *Controller) Running() bool {
	return c.cycleRunning
}

// Fallback reports whether the Controller is polling because its host
// cannot report mutations.
func (c *Controller) Fallback() bool {
	return c.repeatForever
}

// StartCycle (re)starts the cycle window at the current time and requests
// a tick.
func (c *Controller) StartCycle() {
	if !c.cycleRunning {
		c.log.Debug("cycle started")
	}
	c.cycleStart = c.host.Now()
	c.cycleRunning = true
	c.ScheduleTick()
}

// ScheduleTick requests a single tick on the next frame. Calls made while a
// tick is already pending are coalesced.
func (c *Controller) ScheduleTick() {
	if c.tickPending {
		return
	}
	c.tickPending = true
	if c.frames != nil {
		c.frames.RequestFrame(c.tick)
		return
	}
	c.host.AfterFunc(frameInterval, func() {
		c.tick(c.host.Now())
	})
}

// tick is the frame callback: measure, notify, then decide whether the
// cycle continues.
func (c *Controller) tick(ts time.Duration) {
	c.tickPending = false
	anyChanges := c.updateObservers()

	if !c.cycleRunning {
		return
	}

	switch {
	case anyChanges:
		c.StartCycle()
	case c.host.Now()-c.cycleStart < c.idleTimeout:
		c.ScheduleTick()
	default:
		c.cycleRunning = false
		c.log.Debug("cycle ended", "at", ts)
		if c.repeatForever {
			c.cycleStart = 0
			c.cycleRunning = true
			c.resumeDebounce.call()
		}
	}
}

// updateObservers refreshes and notifies every connected observer. It
// iterates over a snapshot because callbacks may connect or disconnect
// observers.
func (c *Controller) updateObservers() bool {
	anyChanges := false
	for _, o := range slices.Clone(c.observers) {
		if o.refreshAll() {
			anyChanges = true
		}
		o.notify()
	}
	return anyChanges
}

func (c *Controller) connect(o tracker) {
	if slices.Contains(c.observers, o) {
		return
	}
	c.observers = append(c.observers, o)
	if len(c.observers) == 1 {
		c.addListeners()
	}
}

func (c *Controller) disconnect(o tracker) {
	i := slices.Index(c.observers, o)
	if i < 0 {
		return
	}
	c.observers = slices.Delete(c.observers, i, i+1)
	if len(c.observers) == 0 {
		c.removeListeners()
		c.cycleRunning = false
	}
}

// onMutations starts a full cycle for attribute changes, which commonly kick
// off transitions, and a single catch-up tick otherwise.
func (c *Controller) onMutations(records []Mutation) {
	for _, r := range records {
		if r.Kind == MutationAttributes {
			c.StartCycle()
			return
		}
	}
	c.ScheduleTick()
}

func (c *Controller) addListeners() {
	if c.listenersActive {
		return
	}
	c.listenersActive = true
	c.offs = append(c.offs,
		c.host.On(EventResize, c.StartCycle),
		c.host.On(EventScroll, c.ScheduleTick),
	)
	if c.trackHovers {
		c.addHoverListener()
	}

	if ms, ok := c.host.(MutationSource); ok {
		if stop, supported := ms.ObserveMutations(c.onMutations); supported {
			c.stopMutations = stop
			c.log.Debug("listeners installed")
			return
		}
	}

	c.log.Info("host cannot report mutations, polling instead")
	c.repeatForever = true
	c.offs = append(c.offs, c.host.On(EventClick, c.StartCycle))
	c.StartCycle()
}

func (c *Controller) removeListeners() {
	if !c.listenersActive {
		return
	}
	for _, off := range c.offs {
		off()
	}
	c.offs = nil
	if c.stopMutations != nil {
		c.stopMutations()
		c.stopMutations = nil
	}
	if c.hoverActive {
		c.removeHoverListener()
	}
	if c.resumeDebounce.pending() {
		c.resumeDebounce.stop()
		c.log.Debug("poll cancelled")
	}
	c.repeatForever = false
	c.listenersActive = false
	c.log.Debug("listeners removed")
}

func (c *Controller) addHoverListener() {
	if c.hoverActive {
		return
	}
	c.hoverOff = c.host.On(EventPointerMove, c.hoverDebounce.call)
	c.hoverActive = true
}

func (c *Controller) removeHoverListener() {
	c.hoverOff()
	c.hoverOff = nil
	c.hoverDebounce.stop()
	c.hoverActive = false
}
