package sightline

import "testing"

// recordEvents subscribes to every pointer event and returns the log.
func recordEvents(s *Scene) *[]EventType {
	var got []EventType
	for _, ev := range []EventType{EventPointerMove, EventPointerDown, EventPointerUp, EventClick} {
		s.On(ev, func() { got = append(got, ev) })
	}
	return &got
}

func TestInjectClick(t *testing.T) {
	s := NewScene()
	events := recordEvents(s)

	s.InjectClick(50, 50)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}

	// Step 1: press
	s.Step(frame)
	if len(s.injectQueue) != 1 {
		t.Fatalf("expected 1 remaining event after step 1, got %d", len(s.injectQueue))
	}
	for _, ev := range *events {
		if ev == EventClick {
			t.Error("click should not fire on press step")
		}
	}

	// Step 2: release → click fires
	s.Step(frame)
	if len(s.injectQueue) != 0 {
		t.Fatalf("expected 0 remaining events after step 2, got %d", len(s.injectQueue))
	}
	want := []EventType{EventPointerMove, EventPointerDown, EventPointerUp, EventClick}
	if len(*events) != len(want) {
		t.Fatalf("events = %v, want %v", *events, want)
	}
	for i := range want {
		if (*events)[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, (*events)[i], want[i])
		}
	}
}

func TestInjectQueueOrder(t *testing.T) {
	s := NewScene()

	s.InjectPress(10, 20)
	s.InjectMove(30, 40)
	s.InjectRelease(50, 60)

	if len(s.injectQueue) != 3 {
		t.Fatalf("expected 3 events, got %d", len(s.injectQueue))
	}

	// Verify order: press, move, release.
	if !s.injectQueue[0].pressed || s.injectQueue[0].screenX != 10 {
		t.Error("first event should be press at (10,20)")
	}
	if !s.injectQueue[1].pressed || s.injectQueue[1].screenX != 30 {
		t.Error("second event should be a drag move at (30,40)")
	}
	if s.injectQueue[2].pressed || s.injectQueue[2].screenX != 50 {
		t.Error("third event should be release at (50,60)")
	}
}

func TestInjectMoveHover(t *testing.T) {
	s := NewScene()
	s.InjectMove(5, 5)
	if s.injectQueue[0].pressed {
		t.Error("move without a press should be a hover")
	}
}

func TestDrainInjected_EmptyQueue(t *testing.T) {
	s := NewScene()
	events := recordEvents(s)
	s.drainInjected() // should not panic
	if len(*events) != 0 {
		t.Errorf("empty queue produced events %v", *events)
	}
}

func TestDrainInjected_OnePerStep(t *testing.T) {
	s := NewScene()
	s.InjectMove(1, 1)
	s.InjectMove(2, 2)
	s.InjectMove(3, 3)

	for i, want := range []float64{1, 2, 3} {
		s.Step(frame)
		if x, _ := s.PointerPosition(); x != want {
			t.Errorf("step %d: pointer x = %v, want %v", i, x, want)
		}
	}
}
