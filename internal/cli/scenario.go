package cli

import (
	"errors"
	"fmt"

	"github.com/phanxgames/sightline"
	"gopkg.in/yaml.v3"
)

// scenario is a scene layout, observer settings and an optional input
// script, all in one YAML document:
//
//	viewport: {width: 640, height: 480}
//	camera: true
//	observer: {root_margin: "10px", thresholds: [0, 0.5, 1]}
//	nodes:
//	  - {name: panel, width: 300, height: 200, clip: true}
//	  - {name: card, parent: panel, x: 250, y: 10, width: 100, height: 50, observe: true}
//	steps:
//	  - {action: scroll, y: 120, duration: 0.5}
type scenario struct {
	Viewport struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"viewport"`
	Camera   bool             `yaml:"camera"`
	Root     string           `yaml:"root"`
	Observer sightline.Config `yaml:"observer"`
	Nodes    []nodeDef        `yaml:"nodes"`
	Steps    []yaml.Node      `yaml:"steps"`
}

type nodeDef struct {
	Name     string  `yaml:"name"`
	Parent   string  `yaml:"parent"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Rotation float64 `yaml:"rotation"`
	Clip     bool    `yaml:"clip"`
	Hidden   bool    `yaml:"hidden"`
	Observe  bool    `yaml:"observe"`
}

var errNoTargets = errors.New("scenario observes no nodes")

func loadScenario(data []byte) (*scenario, error) {
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Observer.Validate(); err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}
	if sc.Viewport.Width <= 0 || sc.Viewport.Height <= 0 {
		return nil, fmt.Errorf("viewport must be positive, got %vx%v", sc.Viewport.Width, sc.Viewport.Height)
	}

	seen := make(map[string]bool, len(sc.Nodes))
	observed := 0
	for i, n := range sc.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node %d: missing name", i)
		}
		if seen[n.Name] {
			return nil, fmt.Errorf("node %q: duplicate name", n.Name)
		}
		if n.Parent != "" && !seen[n.Parent] {
			return nil, fmt.Errorf("node %q: parent %q must be declared first", n.Name, n.Parent)
		}
		seen[n.Name] = true
		if n.Observe {
			observed++
		}
	}
	if sc.Root != "" && !seen[sc.Root] {
		return nil, fmt.Errorf("root %q is not a declared node", sc.Root)
	}
	if observed == 0 {
		return nil, errNoTargets
	}
	return &sc, nil
}

// record is one reported entry, flattened for printing.
type record struct {
	Time         string     `json:"time"`
	Target       string     `json:"target"`
	Ratio        float64    `json:"ratio"`
	Intersecting bool       `json:"intersecting"`
	Rect         [4]float64 `json:"rect"`
}

// replay holds a scene built from a scenario and the entries it reported.
type replay struct {
	scene    *sightline.Scene
	ctrl     *sightline.Controller
	observer *sightline.Observer
	script   *sightline.ScriptRunner
	records  []record
}

func (sc *scenario) build(script *sightline.ScriptRunner, opts ...func(*sightline.Scene)) (*replay, error) {
	r := &replay{scene: sightline.NewScene()}
	for _, o := range opts {
		o(r.scene)
	}
	r.scene.SetViewportSize(sc.Viewport.Width, sc.Viewport.Height)
	if sc.Camera {
		cam := r.scene.NewCamera(sightline.NewRect(0, 0, sc.Viewport.Width, sc.Viewport.Height))
		cam.X, cam.Y = sc.Viewport.Width/2, sc.Viewport.Height/2
	}

	nodes := make(map[string]*sightline.Node, len(sc.Nodes))
	var targets []*sightline.Node
	for _, def := range sc.Nodes {
		n := sightline.NewBox(def.Name, def.Width, def.Height)
		n.X, n.Y = def.X, def.Y
		n.Rotation = def.Rotation
		n.ClipChildren = def.Clip
		n.Visible = !def.Hidden
		parent := r.scene.Root()
		if def.Parent != "" {
			parent = nodes[def.Parent]
		}
		parent.AddChild(n)
		nodes[def.Name] = n
		if def.Observe {
			targets = append(targets, n)
		}
	}

	r.ctrl = sightline.NewController(r.scene)
	if err := sc.Observer.Apply(r.ctrl); err != nil {
		return nil, err
	}
	var root *sightline.Node
	if sc.Root != "" {
		root = nodes[sc.Root]
	}
	obs, err := sightline.NewObserver(r.ctrl, r.collect, sc.Observer.Options(root))
	if err != nil {
		return nil, err
	}
	r.observer = obs
	for _, t := range targets {
		if err := obs.Observe(t); err != nil {
			return nil, err
		}
	}
	if script != nil {
		r.script = script
		r.scene.SetScript(script)
	}
	return r, nil
}

func (r *replay) collect(entries []sightline.Entry, _ *sightline.Observer) {
	for _, e := range entries {
		ir := e.IntersectionRect
		r.records = append(r.records, record{
			Time:         e.Time.String(),
			Target:       e.Target.Name,
			Ratio:        e.IntersectionRatio,
			Intersecting: e.IsIntersecting,
			Rect:         [4]float64{ir.Left, ir.Top, ir.Width, ir.Height},
		})
	}
}
