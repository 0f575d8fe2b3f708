// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-physics2d/pkg/logging"
	"github.com/opd-ai/go-physics2d/pkg/render"
)

// PhysicsSystem feeds frame time to the world and redraws it
type PhysicsSystem struct {
	controls *render.Controls
	renderer *EngoRenderer

	steps int
}

// NewPhysicsSystem creates a system advancing the controlled world
func NewPhysicsSystem(controls *render.Controls, renderer *EngoRenderer) *PhysicsSystem {
	return &PhysicsSystem{controls: controls, renderer: renderer}
}

// Remove satisfies the ecs.System interface
func (ps *PhysicsSystem) Remove(basic ecs.BasicEntity) {}

// Update advances the world by dt seconds and draws the result
func (ps *PhysicsSystem) Update(dt float32) {
	w := ps.controls.World()
	ps.steps += w.Advance(time.Duration(float64(dt) * float64(time.Second)))

	camera := ps.renderer.Camera()
	if b, ok := w.Body(ps.controls.Options.Selected); ok {
		camera.SetTarget(b.Position)
	} else {
		camera.ClearTarget()
	}
	camera.Update(float64(dt))

	ps.controls.Frame(ps.renderer)
}

// Steps returns how many fixed steps this system has run
func (ps *PhysicsSystem) Steps() int {
	return ps.steps
}

// Viewer is the engo scene showing one world
type Viewer struct {
	controls *render.Controls
	logger   *logging.Logger
	width    float32
	height   float32

	font     *common.Font
	renderer *EngoRenderer
	physics  *PhysicsSystem
	input    *InputSystem
	hud      *HUDSystem
}

// NewViewer creates a viewer for a width x height window
func NewViewer(controls *render.Controls, width, height int, logger *logging.Logger) *Viewer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Viewer{
		controls: controls,
		logger:   logger,
		width:    float32(width),
		height:   float32(height),
	}
}

// Type returns the scene type (required by Engo)
func (v *Viewer) Type() string {
	return "PhysicsViewer"
}

// Preload loads the HUD font. The viewer still runs without it.
func (v *Viewer) Preload() {
	font, err := LoadHUDFont(14)
	if err != nil {
		v.logger.Warn(context.Background(), "HUD disabled", "error", err)
		return
	}
	v.font = font
}

// Setup is called when the scene starts (required by Engo)
func (v *Viewer) Setup(u engo.Updater) {
	w, _ := u.(*ecs.World)
	common.SetBackground(color.RGBA{16, 16, 24, 255})

	renderSystem := &common.RenderSystem{}
	w.AddSystem(renderSystem)

	camera := NewCamera(v.width, v.height)
	camera.Fit(v.controls.World().Bounds())
	v.renderer = NewEngoRenderer(renderSystem, camera)

	v.physics = NewPhysicsSystem(v.controls, v.renderer)
	w.AddSystem(v.physics)

	SetupInputBindings()
	v.input = NewInputSystem(v.controls, camera)
	v.input.OnError(func(err error) {
		v.logger.Error(context.Background(), "Viewer command failed", err)
	})
	w.AddSystem(v.input)

	v.hud = NewHUDSystem(v.controls, renderSystem)
	v.hud.SetFont(v.font)
	w.AddSystem(v.hud)

	v.controls.World().Start()
}

// Exit is called when the window closes
func (v *Viewer) Exit() {
	v.controls.World().Stop()
	if v.renderer != nil {
		v.renderer.Release()
	}
}

// Run opens a window and blocks until it is closed
func Run(title string, width, height int, controls *render.Controls, logger *logging.Logger) {
	opts := engo.RunOptions{
		Title:  title,
		Width:  width,
		Height: height,
		VSync:  true,
	}
	engo.Run(opts, NewViewer(controls, width, height, logger))
}
