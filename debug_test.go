package sightline

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// debugScene returns a scene in debug mode that logs into buf.
func debugScene(t *testing.T, buf *bytes.Buffer) *Scene {
	t.Helper()
	s := NewScene()
	s.SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s.SetDebugMode(true)
	t.Cleanup(func() { s.SetDebugMode(false) })
	return s
}

// ---- Debug mode tests ------------------------------------------------------

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	parent := NewContainer("parent")
	s.Root().AddChild(parent)

	child := NewBox("child", 10, 10)
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(child)
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	var buf bytes.Buffer
	debugScene(t, &buf)

	parent := NewContainer("parent")
	parent.Dispose()

	child := NewBox("child", 10, 10)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild to disposed parent, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(child)
}

func TestReleaseMode_DisposedNodeNoOp(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(false)

	child := NewBox("child", 10, 10)
	child.Dispose()

	// In release mode, adding a disposed child should not panic.
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			if strings.Contains(msg, "disposed") {
				t.Errorf("release mode should not panic on disposed node, got: %s", msg)
			}
		}
	}()

	s.Root().AddChild(child)
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	// Build a chain deeper than debugMaxTreeDepth (32).
	current := s.Root()
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewContainer(fmt.Sprintf("depth_%d", i))
		current.AddChild(child)
		current = child
	}

	if !strings.Contains(buf.String(), "tree depth exceeds limit") {
		t.Errorf("expected tree depth warning, got: %q", buf.String())
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	parent := NewContainer("many_children")
	s.Root().AddChild(parent)

	for i := 0; i < debugMaxChildCount+1; i++ {
		child := NewContainer(fmt.Sprintf("c_%d", i))
		parent.AddChild(child)
	}

	output := buf.String()
	if !strings.Contains(output, "child count exceeds limit") || !strings.Contains(output, "many_children") {
		t.Errorf("expected child count warning, got: %q", output)
	}
}

func TestDebugMode_StepStatsLogged(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	s.AfterFunc(0, func() {})
	s.RequestFrame(func(time.Duration) {})
	s.Step(frame)

	output := buf.String()
	for _, want := range []string{"msg=step", "timers=1", "frames=1"} {
		if !strings.Contains(output, want) {
			t.Errorf("step log missing %q: %q", want, output)
		}
	}
}

func TestReleaseMode_NoStepStats(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene()
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	s.Step(frame)
	if buf.Len() != 0 {
		t.Errorf("release mode logged step stats: %q", buf.String())
	}
}
