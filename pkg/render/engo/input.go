// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-physics2d/pkg/physics"
	"github.com/opd-ai/go-physics2d/pkg/render"
)

// Action is a viewer command bound to a key
type Action string

const (
	ActionQuit      Action = "quit"
	ActionPause     Action = "pause"
	ActionReset     Action = "reset"
	ActionSelect    Action = "select"
	ActionIndex     Action = "index"
	ActionContacts  Action = "contacts"
	ActionUp        Action = "nudgeUp"
	ActionDown      Action = "nudgeDown"
	ActionLeft      Action = "nudgeLeft"
	ActionRight     Action = "nudgeRight"
	ActionZoomIn    Action = "zoomIn"
	ActionZoomOut   Action = "zoomOut"
	ActionZoomReset Action = "zoomReset"
)

var allActions = []Action{
	ActionQuit, ActionPause, ActionReset, ActionSelect, ActionIndex, ActionContacts,
	ActionUp, ActionDown, ActionLeft, ActionRight, ActionZoomIn, ActionZoomOut, ActionZoomReset,
}

// nudgeDirs maps the arrow actions onto world directions (y grows down)
var nudgeDirs = map[Action]physics.Vector2D{
	ActionUp:    {X: 0, Y: -1},
	ActionDown:  {X: 0, Y: 1},
	ActionLeft:  {X: -1, Y: 0},
	ActionRight: {X: 1, Y: 0},
}

const zoomStep = 1.25

// InputSystem turns key presses into viewer commands
type InputSystem struct {
	controls *render.Controls
	camera   *Camera

	// quit is engo.Exit outside tests
	quit func()
	// onError receives failures from commands such as reset
	onError func(error)
}

// NewInputSystem creates an input system driving controls and camera
func NewInputSystem(controls *render.Controls, camera *Camera) *InputSystem {
	return &InputSystem{
		controls: controls,
		camera:   camera,
		quit:     engo.Exit,
		onError:  func(error) {},
	}
}

// OnError sets the handler for failed commands
func (is *InputSystem) OnError(fn func(error)) {
	is.onError = fn
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update applies every action whose key went down this frame
func (is *InputSystem) Update(dt float32) {
	if engo.Input == nil {
		return
	}
	for _, a := range allActions {
		if engo.Input.Button(string(a)).JustPressed() {
			is.Apply(a)
		}
	}
}

// Apply runs one action
func (is *InputSystem) Apply(a Action) {
	if dir, ok := nudgeDirs[a]; ok {
		is.controls.Nudge(dir)
		return
	}

	switch a {
	case ActionQuit:
		is.quit()
	case ActionPause:
		is.controls.TogglePause()
	case ActionReset:
		if err := is.controls.Reset(); err != nil {
			is.onError(err)
		}
		is.camera.Fit(is.controls.World().Bounds())
	case ActionSelect:
		is.controls.SelectNext()
	case ActionIndex:
		is.controls.ToggleIndex()
	case ActionContacts:
		is.controls.ToggleContacts()
	case ActionZoomIn:
		is.camera.SetZoom(is.camera.Zoom() * zoomStep)
	case ActionZoomOut:
		is.camera.SetZoom(is.camera.Zoom() / zoomStep)
	case ActionZoomReset:
		is.camera.Fit(is.controls.World().Bounds())
	}
}

// SetupInputBindings registers the viewer's key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(string(ActionQuit), engo.KeyEscape, engo.KeyQ)
	engo.Input.RegisterButton(string(ActionPause), engo.KeySpace)
	engo.Input.RegisterButton(string(ActionReset), engo.KeyR)
	engo.Input.RegisterButton(string(ActionSelect), engo.KeyTab)
	engo.Input.RegisterButton(string(ActionIndex), engo.KeyI)
	engo.Input.RegisterButton(string(ActionContacts), engo.KeyC)

	engo.Input.RegisterButton(string(ActionUp), engo.KeyArrowUp, engo.KeyW)
	engo.Input.RegisterButton(string(ActionDown), engo.KeyArrowDown, engo.KeyS)
	engo.Input.RegisterButton(string(ActionLeft), engo.KeyArrowLeft, engo.KeyA)
	engo.Input.RegisterButton(string(ActionRight), engo.KeyArrowRight, engo.KeyD)

	engo.Input.RegisterButton(string(ActionZoomIn), engo.KeyE)
	engo.Input.RegisterButton(string(ActionZoomOut), engo.KeyX)
	engo.Input.RegisterButton(string(ActionZoomReset), engo.KeyZ)
}
