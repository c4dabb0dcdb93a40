package sightline

import (
	"log/slog"
	"os"
	"slices"
	"time"
)

// Scene is the top-level object that owns the node tree, cameras, input state
// and the clock. It is the standard Host for Controllers: frame callbacks,
// timers, host events and mutation records are all dispatched from Step, on
// the caller's goroutine.
type Scene struct {
	root   *Node
	debug  bool
	log    *slog.Logger
	logSet bool

	// Cameras
	cameras []*Camera

	// Clock and viewport
	now          time.Duration
	viewW, viewH float64

	// Scheduling
	frameQueue []func(time.Duration)
	timers     []*sceneTimer
	timerSeq   uint64

	// Host events
	listeners  map[EventType][]sceneListener
	listenerID uint32

	// Mutation delivery
	mutationsSupported bool
	mutationObservers  []mutationObserver
	pendingMutations   []Mutation

	// Input state
	pointer     pointerState
	injectQueue []syntheticPointerEvent
	script      *ScriptRunner

	updateFunc func() error

	// ClearColor fills the screen before the debug renderer draws.
	ClearColor Color
}

type sceneTimer struct {
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
}

type sceneListener struct {
	id uint32
	fn func()
}

type mutationObserver struct {
	id uint32
	fn func([]Mutation)
}

// stepStats holds per-step dispatch counts. Only logged in debug mode.
type stepStats struct {
	mutations int
	timers    int
	frames    int
}

// NewScene creates a new scene with a pre-created root container. The
// viewport is empty until SetViewportSize (or ebiten's Layout) sizes it.
func NewScene() *Scene {
	s := &Scene{
		log:                slog.New(slog.DiscardHandler),
		listeners:          make(map[EventType][]sceneListener),
		mutationsSupported: true,
	}
	s.root = NewContainer("root")
	s.root.scene = s
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetLogger sets the structured logger used for debug output. A nil logger
// discards output.
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	s.log = l
	s.logSet = true
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and per-step
// dispatch counts are logged at debug level. Without a logger set via
// SetLogger, debug output goes to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled && !s.logSet {
		s.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if enabled {
		debugLogger = s.log
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// SetMutationsSupported controls whether ObserveMutations reports support.
// Controllers connecting to a scene with mutations unsupported run in
// fallback mode. It does not affect listeners that are already installed.
func (s *Scene) SetMutationsSupported(ok bool) {
	s.mutationsSupported = ok
}

// --- Viewport ---

// SetViewportSize sets the viewport size and fires EventResize when it
// changes.
func (s *Scene) SetViewportSize(w, h float64) {
	if w == s.viewW && h == s.viewH {
		return
	}
	s.viewW, s.viewH = w, h
	s.emit(EventResize)
}

// ViewportSize returns the current viewport size.
func (s *Scene) ViewportSize() (w, h float64) {
	return s.viewW, s.viewH
}

// --- Cameras ---

// NewCamera creates a camera with the given viewport and adds it to the scene.
// The first camera maps world coordinates to the screen for ClientRect.
func (s *Scene) NewCamera(viewport Rect) *Camera {
	cam := newCamera(viewport)
	s.cameras = append(s.cameras, cam)
	return cam
}

// RemoveCamera removes a camera from the scene.
func (s *Scene) RemoveCamera(cam *Camera) {
	if i := slices.Index(s.cameras, cam); i >= 0 {
		s.cameras = slices.Delete(s.cameras, i, i+1)
		if i == 0 {
			s.emit(EventScroll)
		}
	}
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

func (s *Scene) primaryCamera() *Camera {
	if len(s.cameras) == 0 {
		return nil
	}
	return s.cameras[0]
}

// --- Host ---

// Now returns the scene clock, advanced only by Step.
func (s *Scene) Now() time.Duration {
	return s.now
}

// ViewportRoot returns the scene root.
func (s *Scene) ViewportRoot() *Node {
	return s.root
}

// ClientRect returns n's box in screen space: the world-space box mapped
// through the primary camera. The scene root measures as the viewport.
// Hidden nodes measure as the zero Rect.
func (s *Scene) ClientRect(n *Node) Rect {
	if n == s.root {
		return NewRect(0, 0, s.viewW, s.viewH)
	}
	if !n.shownInTree() {
		return Rect{}
	}
	m := n.currentWorldTransform()
	if cam := s.primaryCamera(); cam != nil {
		m = multiplyAffine(cam.computeViewMatrix(), m)
	}
	return aabbOf(m, n.Width, n.Height)
}

// IsAttached reports whether n is in this scene's tree.
func (s *Scene) IsAttached(n *Node) bool {
	return n != nil && !n.disposed && n.top() == s.root
}

// AfterFunc runs fn from Step once d has elapsed on the scene clock.
func (s *Scene) AfterFunc(d time.Duration, fn func()) (stop func()) {
	s.timerSeq++
	t := &sceneTimer{due: s.now + d, seq: s.timerSeq, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.stopped = true }
}

// RequestFrame queues fn for the frame phase, which runs after timers with the
// step's clock reading. A request made from a mutation observer or a timer
// runs in the same Step; one made from a frame callback waits for the next.
func (s *Scene) RequestFrame(fn func(ts time.Duration)) {
	s.frameQueue = append(s.frameQueue, fn)
}

// On subscribes fn to a host event.
func (s *Scene) On(ev EventType, fn func()) (off func()) {
	s.listenerID++
	id := s.listenerID
	s.listeners[ev] = append(s.listeners[ev], sceneListener{id: id, fn: fn})
	return func() {
		s.listeners[ev] = slices.DeleteFunc(s.listeners[ev], func(l sceneListener) bool {
			return l.id == id
		})
	}
}

// ObserveMutations delivers batched mutation records once per Step.
func (s *Scene) ObserveMutations(fn func([]Mutation)) (stop func(), ok bool) {
	if !s.mutationsSupported {
		return nil, false
	}
	s.listenerID++
	id := s.listenerID
	s.mutationObservers = append(s.mutationObservers, mutationObserver{id: id, fn: fn})
	return func() {
		s.mutationObservers = slices.DeleteFunc(s.mutationObservers, func(m mutationObserver) bool {
			return m.id == id
		})
		if len(s.mutationObservers) == 0 {
			s.pendingMutations = nil
		}
	}, true
}

func (s *Scene) emit(ev EventType) {
	for _, l := range slices.Clone(s.listeners[ev]) {
		l.fn()
	}
}

func (s *Scene) recordMutation(m Mutation) {
	if len(s.mutationObservers) == 0 {
		return
	}
	s.pendingMutations = append(s.pendingMutations, m)
}

// --- Stepping ---

// Step advances the scene clock by dt and dispatches, in order: the attached
// script, queued synthetic input, world transforms, camera motion
// (EventScroll), pending mutation records, due timers, and frame callbacks
// requested before the frame phase of this step.
func (s *Scene) Step(dt time.Duration) {
	var stats stepStats
	s.now += dt

	if s.script != nil {
		s.script.step(s)
	}
	s.drainInjected()

	// Refresh world transforms first so camera follow targets have accurate
	// positions this step.
	updateWorldTransform(s.root, identityTransform, false)

	for _, cam := range s.cameras {
		cam.update(float32(dt.Seconds()))
	}
	if cam := s.primaryCamera(); cam != nil && cam.consumeMoved() {
		s.emit(EventScroll)
	}

	stats.mutations = s.flushMutations()
	stats.timers = s.fireTimers()

	frames := s.frameQueue
	s.frameQueue = nil
	for _, fn := range frames {
		fn(s.now)
	}
	stats.frames = len(frames)

	if s.debug {
		s.debugLog(stats)
	}
}

func (s *Scene) flushMutations() int {
	if len(s.pendingMutations) == 0 {
		return 0
	}
	records := s.pendingMutations
	s.pendingMutations = nil
	for _, mo := range slices.Clone(s.mutationObservers) {
		mo.fn(records)
	}
	return len(records)
}

// fireTimers runs every timer due at or before now, earliest first. Timers
// scheduled by a callback fire in the same step if they are already due.
func (s *Scene) fireTimers() int {
	fired := 0
	for {
		idx := -1
		for i, t := range s.timers {
			if t.stopped || t.due > s.now {
				continue
			}
			if idx < 0 || t.due < s.timers[idx].due ||
				(t.due == s.timers[idx].due && t.seq < s.timers[idx].seq) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		t := s.timers[idx]
		s.timers = slices.Delete(s.timers, idx, idx+1)
		t.fn()
		fired++
	}
	s.timers = slices.DeleteFunc(s.timers, func(t *sceneTimer) bool { return t.stopped })
	return fired
}
