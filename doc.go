// Package sightline tracks when nodes of a retained-mode 2D scene graph become
// visible, built on [Ebitengine].
//
// An [Observer] watches target nodes against a root node (the viewport by
// default) and reports, in batches, each time a target's visible ratio
// crosses one of its thresholds. A [Controller] decides when to measure: it
// runs short frame-driven cycles that start on resizes, scrolls, clicks,
// hovers and tree mutations, keep going while anything moves, and stop once
// the scene has been still for the idle timeout.
//
// # Quick start
//
//	scene := sightline.NewScene()
//	ctrl := sightline.NewController(scene)
//
//	obs, err := sightline.NewObserver(ctrl, func(entries []sightline.Entry, o *sightline.Observer) {
//		for _, e := range entries {
//			log.Printf("%s: %.2f visible", e.Target.Name, e.IntersectionRatio)
//		}
//	}, &sightline.Options{Threshold: []float64{0, 0.5, 1}})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	box := sightline.NewBox("card", 200, 120)
//	scene.Root().AddChild(box)
//	obs.Observe(box)
//
//	sightline.Run(scene, sightline.RunConfig{
//		Title: "Demo", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update], [Scene.Draw] and [Scene.Layout] directly. Headless code
// (tests, servers) drives the scene with [Scene.Step] instead.
//
// # Measuring
//
// Every [Node] has a Width x Height box positioned by its transform. The
// scene maps boxes to screen space through its first [Camera], so moving the
// camera scrolls every observed node. Ancestors with ClipChildren set clip
// their descendants, and the root's box can be grown or shrunk with a
// CSS-style root margin such as "10px 5%".
//
// A target is intersecting when its clipped box touches the (margin-expanded)
// root box, even along a single edge. Its ratio is the clipped area over its
// own area. Zero-area targets have a ratio of 0 and only report crossings
// between intersecting and not intersecting.
//
// # Hosts
//
// The controller talks to its environment through [Host]. [Scene] is the
// standard host. Hosts that also implement [FrameScheduler] get ticks aligned
// to frames; otherwise ticks run on a ~16ms timer. Hosts that implement
// [MutationSource] and report support get mutation-driven cycles; all others
// run in fallback mode, polling every 200ms and starting a cycle on every
// click.
//
// # Configuration
//
// [LoadConfig] reads idle timeout, hover tracking, root margin and thresholds
// from YAML. [ScriptRunner] replays pointer input, camera scrolls and resizes
// from YAML for reproducible scenarios. The sightline command (cmd/sightline)
// replays whole scenarios headlessly and prints the entries they produce.
//
// # ECS
//
// The ecs submodule publishes entries into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package sightline
