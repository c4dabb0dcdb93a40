package sightline

import (
	"fmt"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a scene script.
type scriptStep struct {
	Action   string  `yaml:"action"`
	X        float64 `yaml:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty"`
	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
	Duration float32 `yaml:"duration,omitempty"`
	Steps    int     `yaml:"steps,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner plays back pointer input, camera scrolls and viewport resizes
// across steps, for reproducing observation scenarios without a window.
// Attach it with Scene.SetScript.
//
//	steps:
//	  - {action: scroll, x: 0, y: 400, duration: 0.5}
//	  - {action: wait, steps: 30}
//	  - {action: click, x: 10, y: 10}
//	  - {action: resize, width: 320, height: 240}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

var scriptActions = map[string]bool{
	"click": true, "press": true, "move": true, "release": true,
	"wait": true, "scroll": true, "resize": true,
}

// LoadScript parses a YAML scene script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: f.Steps}, nil
}

// SetScript attaches a runner to the scene. The runner advances once per
// Step, before queued input is drained. Pass nil to detach.
func (s *Scene) SetScript(runner *ScriptRunner) {
	s.script = runner
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one scene step.
func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		s.InjectClick(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "wait":
		if st.Steps > 0 {
			r.waitCount = st.Steps - 1 // this step counts as one
		}
	case "scroll":
		if cam := s.primaryCamera(); cam != nil {
			if st.Duration > 0 {
				cam.ScrollTo(st.X, st.Y, st.Duration, ease.Linear)
			} else {
				cam.X, cam.Y = st.X, st.Y
			}
		}
	case "resize":
		s.SetViewportSize(st.Width, st.Height)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
