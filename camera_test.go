package sightline

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestCameraDefaults(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", cam.Zoom)
	}
	if cam.Viewport.Width != 800 || cam.Viewport.Height != 600 {
		t.Errorf("Viewport = %v, want 800x600", cam.Viewport)
	}
}

func TestCameraIdentityViewMatrix(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	vm := cam.computeViewMatrix()
	// At (0,0), zoom 1, no rotation:
	// viewMatrix should translate to viewport center (400, 300)
	sx, sy := transformPoint(vm, 0, 0)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("WorldToScreen(0,0) = (%f,%f), want (400,300)", sx, sy)
	}
}

func TestCameraTranslation(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	cam.X = 100
	cam.Y = 50
	cam.dirty = true
	sx, sy := cam.WorldToScreen(100, 50)
	// Camera at (100,50) looking at (100,50) should map to viewport center
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("WorldToScreen(100,50) with cam at (100,50) = (%f,%f), want (400,300)", sx, sy)
	}
}

func TestCameraZoom(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	cam.Zoom = 2.0
	cam.dirty = true

	// At zoom 2, a point 1 unit from camera center should appear 2 pixels away
	sx1, _ := cam.WorldToScreen(1, 0)
	sx0, _ := cam.WorldToScreen(0, 0)
	screenDist := sx1 - sx0
	if !approxEqual(screenDist, 2.0, epsilon) {
		t.Errorf("zoom 2x: 1 world unit = %f screen pixels, want 2.0", screenDist)
	}
}

func TestCameraRotation90(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	cam.Rotation = math.Pi / 2 // 90 degrees
	cam.dirty = true

	// World point (1, 0) with 90° camera rotation
	sx, sy := cam.WorldToScreen(1, 0)
	// Rotate(-π/2) maps (1,0)→(0,-1), then translate to viewport center (400,300)
	// Result: (400, 299)
	cx, cy := 400.0, 300.0
	if !approxEqual(sx, cx, epsilon) || !approxEqual(sy, cy-1, epsilon) {
		t.Errorf("90° rotation: WorldToScreen(1,0) = (%f,%f), want (%f,%f)", sx, sy, cx, cy-1)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	cam.X = 42
	cam.Y = -17
	cam.Zoom = 1.5
	cam.Rotation = 0.3
	cam.dirty = true

	origWX, origWY := 123.0, -456.0
	sx, sy := cam.WorldToScreen(origWX, origWY)
	wx, wy := cam.ScreenToWorld(sx, sy)

	if !approxEqual(wx, origWX, 1e-6) || !approxEqual(wy, origWY, 1e-6) {
		t.Errorf("roundtrip: got (%f,%f), want (%f,%f)", wx, wy, origWX, origWY)
	}
}

func TestVisibleBounds_Zoom1(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	cam.X = 400
	cam.Y = 300
	cam.dirty = true
	bounds := cam.VisibleBounds()
	// Camera centered at (400,300), viewport 800x600, zoom 1: visible is (0,0)-(800,600)
	if !approxEqual(bounds.Left, 0, 1e-6) || !approxEqual(bounds.Top, 0, 1e-6) {
		t.Errorf("VisibleBounds origin = (%f,%f), want (0,0)", bounds.Left, bounds.Top)
	}
	if !approxEqual(bounds.Width, 800, 1e-6) || !approxEqual(bounds.Height, 600, 1e-6) {
		t.Errorf("VisibleBounds size = (%f,%f), want (800,600)", bounds.Width, bounds.Height)
	}
}

func TestVisibleBounds_Zoom2(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	cam.X = 400
	cam.Y = 300
	cam.Zoom = 2.0
	cam.dirty = true
	bounds := cam.VisibleBounds()
	// Zoom 2 halves the visible area
	if !approxEqual(bounds.Width, 400, 1e-6) || !approxEqual(bounds.Height, 300, 1e-6) {
		t.Errorf("VisibleBounds at zoom 2 size = (%f,%f), want (400,300)", bounds.Width, bounds.Height)
	}
}

func TestCameraFollow(t *testing.T) {
	scene := NewScene()
	cam := scene.NewCamera(NewRect(0, 0, 800, 600))

	target := NewContainer("target")
	target.X = 200
	target.Y = 150
	target.transformDirty = false
	target.worldTransform = [6]float64{1, 0, 0, 1, 200, 150}
	scene.Root().AddChild(target)

	cam.Follow(target, 0, 0, 1.0) // lerp=1 snaps immediately

	cam.update(1.0 / 60.0)
	if !approxEqual(cam.X, 200, epsilon) || !approxEqual(cam.Y, 150, epsilon) {
		t.Errorf("after follow snap: cam = (%f,%f), want (200,150)", cam.X, cam.Y)
	}
}

func TestCameraFollowLerp(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	target := NewContainer("target")
	target.worldTransform = [6]float64{1, 0, 0, 1, 100, 0}

	cam.Follow(target, 0, 0, 0.5)
	cam.update(1.0 / 60.0)
	// Should move halfway from 0 to 100
	if !approxEqual(cam.X, 50, epsilon) {
		t.Errorf("after lerp 0.5: cam.X = %f, want 50", cam.X)
	}
}

func TestCameraFollowWithOffset(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	target := NewContainer("target")
	target.worldTransform = [6]float64{1, 0, 0, 1, 100, 100}

	cam.Follow(target, 10, -20, 1.0)
	cam.update(1.0 / 60.0)
	if !approxEqual(cam.X, 110, epsilon) || !approxEqual(cam.Y, 80, epsilon) {
		t.Errorf("follow with offset: cam = (%f,%f), want (110,80)", cam.X, cam.Y)
	}
}

func TestCameraUnfollow(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	target := NewContainer("target")
	target.worldTransform = [6]float64{1, 0, 0, 1, 100, 100}

	cam.Follow(target, 0, 0, 1.0)
	cam.update(1.0 / 60.0)
	cam.Unfollow()

	// Move target, camera should not follow
	target.worldTransform[4] = 500
	cam.update(1.0 / 60.0)
	if !approxEqual(cam.X, 100, epsilon) {
		t.Errorf("after unfollow: cam.X = %f, want 100", cam.X)
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	cam.ScrollTo(100, 200, 1.0, ease.Linear)

	// Advance halfway
	cam.update(0.5)
	if !approxEqual(cam.X, 50, 1.0) || !approxEqual(cam.Y, 100, 1.0) {
		t.Errorf("scroll halfway: cam = (%f,%f), want ~(50,100)", cam.X, cam.Y)
	}

	// Advance to end
	cam.update(0.5)
	if !approxEqual(cam.X, 100, 1.0) || !approxEqual(cam.Y, 200, 1.0) {
		t.Errorf("scroll end: cam = (%f,%f), want ~(100,200)", cam.X, cam.Y)
	}

	// Tween should be cleared
	if cam.scrollTween != nil {
		t.Error("scrollTween not nil after completion")
	}
}

func TestCameraScrollIntoView(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	parent := NewContainer("parent")
	parent.SetPosition(100, 50)
	card := NewBox("card", 40, 20)
	card.SetPosition(200, 300)
	parent.AddChild(card)

	cam.ScrollIntoView(card, 0.0001, ease.Linear)
	cam.update(1.0) // large dt to finish instantly

	// box center: (100+200+20, 50+300+10)
	if !approxEqual(cam.X, 320, 1e-3) || !approxEqual(cam.Y, 360, 1e-3) {
		t.Errorf("ScrollIntoView: cam = (%f,%f), want (320,360)", cam.X, cam.Y)
	}
	if sx, sy := cam.WorldToScreen(320, 360); !approxEqual(sx, 400, 1e-3) || !approxEqual(sy, 300, 1e-3) {
		t.Errorf("card center on screen = (%v,%v), want (400,300)", sx, sy)
	}
}

func TestCameraBounds(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 100, 100))
	cam.SetBounds(NewRect(0, 0, 1000, 1000))

	// Camera at (0,0) with viewport 100x100: min visible area is (50,50) center
	cam.X = 0
	cam.Y = 0
	cam.update(0)
	if cam.X < 50 || cam.Y < 50 {
		t.Errorf("bounds clamp min: cam = (%f,%f), want >= (50,50)", cam.X, cam.Y)
	}

	// Try to go past right edge
	cam.X = 999
	cam.Y = 999
	cam.dirty = true
	cam.update(0)
	if cam.X > 950 || cam.Y > 950 {
		t.Errorf("bounds clamp max: cam = (%f,%f), want <= (950,950)", cam.X, cam.Y)
	}
}

func TestCameraClearBounds(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 100, 100))
	cam.SetBounds(NewRect(0, 0, 1000, 1000))
	cam.ClearBounds()

	cam.X = -999
	cam.Y = -999
	cam.update(0)
	// No clamping should occur
	if cam.X != -999 || cam.Y != -999 {
		t.Errorf("after ClearBounds: cam = (%f,%f), want (-999,-999)", cam.X, cam.Y)
	}
}

func TestCameraBoundsSmallWorld(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	// World smaller than viewport should center
	cam.SetBounds(NewRect(0, 0, 100, 100))
	cam.X = 0
	cam.Y = 0
	cam.update(0)
	if !approxEqual(cam.X, 50, epsilon) || !approxEqual(cam.Y, 50, epsilon) {
		t.Errorf("small world center: cam = (%f,%f), want (50,50)", cam.X, cam.Y)
	}
}

// --- AABB ---

func TestAABBOf(t *testing.T) {
	aabb := aabbOf(identityTransform, 64, 64)
	if !approxEqual(aabb.Left, 0, epsilon) || !approxEqual(aabb.Top, 0, epsilon) {
		t.Errorf("AABB origin = (%f,%f), want (0,0)", aabb.Left, aabb.Top)
	}
	if !approxEqual(aabb.Width, 64, epsilon) || !approxEqual(aabb.Height, 64, epsilon) {
		t.Errorf("AABB size = (%f,%f), want (64,64)", aabb.Width, aabb.Height)
	}
}

func TestAABBOf_Translated(t *testing.T) {
	transform := [6]float64{1, 0, 0, 1, 100, 200}
	aabb := aabbOf(transform, 32, 32)
	if !approxEqual(aabb.Left, 100, epsilon) || !approxEqual(aabb.Top, 200, epsilon) {
		t.Errorf("translated AABB origin = (%f,%f), want (100,200)", aabb.Left, aabb.Top)
	}
	if !approxEqual(aabb.Right, 132, epsilon) || !approxEqual(aabb.Bottom, 232, epsilon) {
		t.Errorf("translated AABB far edge = (%f,%f), want (132,232)", aabb.Right, aabb.Bottom)
	}
}

func TestAABBOf_Rotated(t *testing.T) {
	// 45° rotation of a 100x100 box at origin
	cos45 := math.Cos(math.Pi / 4)
	sin45 := math.Sin(math.Pi / 4)
	transform := [6]float64{cos45, sin45, -sin45, cos45, 0, 0}
	aabb := aabbOf(transform, 100, 100)
	// A 100x100 square rotated 45° has AABB approximately 141x141
	expectedSize := 100 * math.Sqrt(2)
	if !approxEqual(aabb.Width, expectedSize, 0.01) || !approxEqual(aabb.Height, expectedSize, 0.01) {
		t.Errorf("rotated AABB size = (%f,%f), want ~(%f,%f)", aabb.Width, aabb.Height, expectedSize, expectedSize)
	}
}

// --- Scroll reporting ---

func TestCameraConsumeMoved(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	if !cam.consumeMoved() {
		t.Error("first consumeMoved should report a move")
	}
	if cam.consumeMoved() {
		t.Error("consumeMoved without changes should report false")
	}

	tests := []struct {
		name  string
		apply func(c *Camera)
	}{
		{"x", func(c *Camera) { c.X += 1 }},
		{"y", func(c *Camera) { c.Y -= 1 }},
		{"zoom", func(c *Camera) { c.Zoom = 2 }},
		{"rotation", func(c *Camera) { c.Rotation = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.computeViewMatrix()
			tt.apply(cam)
			if !cam.consumeMoved() {
				t.Errorf("consumeMoved after %s change = false, want true", tt.name)
			}
			if !cam.dirty {
				t.Error("camera should be dirty after a reported move")
			}
		})
	}
}

func TestSceneStepEmitsScroll(t *testing.T) {
	scene := NewScene()
	cam := scene.NewCamera(NewRect(0, 0, 800, 600))

	scrolls := 0
	scene.On(EventScroll, func() { scrolls++ })

	scene.Step(frame) // first report
	scene.Step(frame) // still
	if scrolls != 1 {
		t.Fatalf("scrolls after two still steps = %d, want 1", scrolls)
	}

	cam.ScrollTo(0, 100, 0.05, ease.Linear)
	for range 10 {
		scene.Step(frame)
	}
	if scrolls < 3 {
		t.Errorf("scrolls during ScrollTo = %d, want at least 3", scrolls)
	}
	if !approxEqual(cam.Y, 100, 1.0) {
		t.Errorf("cam.Y = %f, want ~100", cam.Y)
	}

	before := scrolls
	scene.Step(frame)
	if scrolls != before {
		t.Error("scroll emitted after the camera stopped")
	}
}

func TestSceneRemovePrimaryCameraEmitsScroll(t *testing.T) {
	scene := NewScene()
	cam1 := scene.NewCamera(NewRect(0, 0, 400, 300))
	cam2 := scene.NewCamera(NewRect(400, 0, 400, 300))

	scrolls := 0
	scene.On(EventScroll, func() { scrolls++ })

	scene.RemoveCamera(cam2)
	if scrolls != 0 {
		t.Errorf("removing a secondary camera emitted %d scrolls, want 0", scrolls)
	}
	scene.RemoveCamera(cam1)
	if scrolls != 1 {
		t.Errorf("removing the primary camera emitted %d scrolls, want 1", scrolls)
	}
}

// --- Multi-camera tests ---

func TestSceneNewCamera(t *testing.T) {
	scene := NewScene()
	cam1 := scene.NewCamera(NewRect(0, 0, 400, 300))
	cam2 := scene.NewCamera(NewRect(400, 0, 400, 300))

	cams := scene.Cameras()
	if len(cams) != 2 {
		t.Fatalf("camera count = %d, want 2", len(cams))
	}
	if cams[0] != cam1 || cams[1] != cam2 {
		t.Error("cameras in wrong order")
	}
}

func TestSceneRemoveCamera(t *testing.T) {
	scene := NewScene()
	cam1 := scene.NewCamera(NewRect(0, 0, 400, 300))
	scene.NewCamera(NewRect(400, 0, 400, 300))

	scene.RemoveCamera(cam1)
	if len(scene.Cameras()) != 1 {
		t.Errorf("camera count after remove = %d, want 1", len(scene.Cameras()))
	}
}

func TestSceneStepRunsCameraUpdates(t *testing.T) {
	scene := NewScene()
	cam := scene.NewCamera(NewRect(0, 0, 800, 600))
	cam.ScrollTo(100, 0, 1.0, ease.Linear)

	scene.Step(frame) // Should advance scroll
	if cam.X == 0 {
		t.Error("Scene.Step() did not advance camera scroll")
	}
}

// --- Camera MarkDirty ---

func TestCameraMarkDirty(t *testing.T) {
	cam := newCamera(NewRect(0, 0, 800, 600))
	cam.computeViewMatrix()
	if cam.dirty {
		t.Error("camera should not be dirty after computeViewMatrix")
	}
	cam.MarkDirty()
	if !cam.dirty {
		t.Error("camera should be dirty after MarkDirty")
	}
}

// --- Benchmarks ---

func BenchmarkAABBOf(b *testing.B) {
	transform := [6]float64{0.866, 0.5, -0.5, 0.866, 100, 200}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = aabbOf(transform, 64, 64)
	}
}
