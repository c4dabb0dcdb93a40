package sightline

// syntheticPointerEvent represents a single injected pointer sample in
// screen coordinates.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
}

// InjectPress queues a pointer press at the given screen coordinates.
// Queued events are consumed one per Step.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
	})
}

// InjectMove queues a pointer move to the given screen coordinates. The
// button state is carried over from the previous sample, so a move between
// InjectPress and InjectRelease is a drag and any other move is a hover.
func (s *Scene) InjectMove(x, y float64) {
	pressed := s.pointer.down
	if n := len(s.injectQueue); n > 0 {
		pressed = s.injectQueue[n-1].pressed
	}
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: pressed,
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: false,
	})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two steps.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// drainInjected pops one queued event and feeds it through handlePointer.
func (s *Scene) drainInjected() {
	if len(s.injectQueue) == 0 {
		return
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.handlePointer(evt.screenX, evt.screenY, evt.pressed)
}
