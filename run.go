package sightline

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RunConfig configures the window opened by [Run].
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS prints FPS and TPS in the top-left corner.
	ShowFPS bool
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene   *Scene
	showFPS bool
}

func (g *gameShell) Update() error {
	return g.scene.Update()
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.scene.Layout(outsideWidth, outsideHeight)
}

// Run opens a window and drives scene with ebiten's game loop until the
// window closes or the update func returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
		scene.SetViewportSize(float64(cfg.Width), float64(cfg.Height))
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	return ebiten.RunGame(&gameShell{scene: scene, showFPS: cfg.ShowFPS})
}

// SetUpdateFunc registers fn to run once per Update, after the scene has
// stepped. A non-nil error stops [Run].
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Update reads the mouse, steps the scene by one tick and runs the update
// func. Call it from your own ebiten.Game when not using [Run].
func (s *Scene) Update() error {
	s.processInput()
	s.Step(time.Second / time.Duration(ebiten.TPS()))
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

// Layout sizes the viewport to the outside size, firing EventResize when it
// changes.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.SetViewportSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Draw fills the screen with ClearColor and draws every visible node's
// client rect as a solid box, clipped by ClipChildren ancestors. It is a
// debug view of what observers measure, not a sprite renderer.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor.toRGBA())
	b := screen.Bounds()
	clip := NewRect(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()))
	for _, child := range s.root.children {
		s.drawNode(screen, child, clip)
	}
}

func (s *Scene) drawNode(dst *ebiten.Image, n *Node, clip Rect) {
	if !n.Visible {
		return
	}
	r := s.ClientRect(n)
	if vis := clipRect(clip, r); vis.Width > 0 && vis.Height > 0 && n.Color.A > 0 {
		vector.DrawFilledRect(dst,
			float32(vis.Left), float32(vis.Top), float32(vis.Width), float32(vis.Height),
			n.Color.toRGBA(), false)
	}
	if n.ClipChildren {
		clip = clipRect(clip, r)
	}
	for _, child := range n.children {
		s.drawNode(dst, child, clip)
	}
}

// toRGBA converts a Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
