package sightline

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// pointerState tracks the mouse (or the synthetic pointer) between steps.
type pointerState struct {
	x, y float64
	down bool
}

// processInput reads the real mouse. Called from Scene.Update before Step;
// skipped while synthetic events are queued so scripted input is not
// interleaved with the hardware cursor.
func (s *Scene) processInput() {
	if len(s.injectQueue) > 0 {
		return
	}
	cx, cy := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.handlePointer(float64(cx), float64(cy), pressed)
}

// handlePointer turns a pointer sample into host events: EventPointerMove
// when the position changed, EventPointerDown/EventPointerUp on button
// transitions, and EventClick after every release.
func (s *Scene) handlePointer(x, y float64, pressed bool) {
	p := &s.pointer
	if x != p.x || y != p.y {
		p.x, p.y = x, y
		s.emit(EventPointerMove)
	}
	switch {
	case pressed && !p.down:
		p.down = true
		s.emit(EventPointerDown)
	case !pressed && p.down:
		p.down = false
		s.emit(EventPointerUp)
		s.emit(EventClick)
	}
}

// PointerPosition returns the last known pointer position in screen space.
// The pointer starts at the origin.
func (s *Scene) PointerPosition() (x, y float64) {
	return s.pointer.x, s.pointer.y
}
