// pkg/render/controls.go
package render

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-physics2d/pkg/config"
	"github.com/opd-ai/go-physics2d/pkg/engine"
	"github.com/opd-ai/go-physics2d/pkg/logging"
	"github.com/opd-ai/go-physics2d/pkg/physics"
)

// NudgeSpeed is the velocity change applied by one nudge
const NudgeSpeed = 60.0

// Controls turns viewer input into world commands. Front-ends map their
// own keys onto these methods.
type Controls struct {
	world  *engine.World
	scene  *config.SceneConfig
	logger *logging.Logger

	Options DrawOptions
}

// NewControls creates controls for w. scene is used by Reset and may be nil.
func NewControls(w *engine.World, scene *config.SceneConfig, logger *logging.Logger) *Controls {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Controls{
		world:   w,
		scene:   scene,
		logger:  logger,
		Options: DrawOptions{Contacts: true},
	}
}

// World returns the controlled world
func (c *Controls) World() *engine.World {
	return c.world
}

// TogglePause pauses or resumes the simulation
func (c *Controls) TogglePause() {
	c.world.SetPaused(!c.world.Paused())
}

// ToggleIndex shows or hides the quadtree overlay
func (c *Controls) ToggleIndex() {
	c.Options.Index = !c.Options.Index
}

// ToggleContacts shows or hides contact markers
func (c *Controls) ToggleContacts() {
	c.Options.Contacts = !c.Options.Contacts
}

// Reset empties the world and rebuilds it from the scene
func (c *Controls) Reset() error {
	if c.scene == nil {
		return fmt.Errorf("no scene to reset from")
	}
	c.world.Clear()
	c.Options.Selected = 0
	if err := engine.Populate(c.world, c.scene); err != nil {
		return logging.WrapError(err, "failed to reset scene %q", c.scene.Name)
	}
	c.logger.Info(context.Background(), "Scene reset", "scene", c.scene.Name, "bodies", c.world.Len())
	return nil
}

// SelectNext moves the selection to the next dynamic body, wrapping
// around. It clears the selection when no dynamic body exists.
func (c *Controls) SelectNext() {
	var dynamic []engine.BodyID
	for _, id := range c.world.BodyIDs() {
		if b, ok := c.world.Body(id); ok && !b.IsStatic() {
			dynamic = append(dynamic, id)
		}
	}
	if len(dynamic) == 0 {
		c.Options.Selected = 0
		return
	}

	next := dynamic[0]
	for i, id := range dynamic {
		if id == c.Options.Selected {
			next = dynamic[(i+1)%len(dynamic)]
			break
		}
	}
	c.Options.Selected = next
}

// Nudge adds NudgeSpeed along dir to the selected body's velocity. It
// reports whether a body was moved.
func (c *Controls) Nudge(dir physics.Vector2D) bool {
	b, ok := c.world.Body(c.Options.Selected)
	if !ok || b.IsStatic() {
		return false
	}
	b.Velocity = b.Velocity.Add(dir.Normalize().Scale(NudgeSpeed))
	return true
}

// Status summarizes the last step for a status line
func (c *Controls) Status() string {
	s := c.world.Stats()
	status := fmt.Sprintf("tick %d  bodies %d  pairs %d  contacts %d  overflow %d",
		s.Tick, s.Bodies, s.Candidates, s.Contacts, s.Overflow)
	if c.world.Paused() {
		status += "  [paused]"
	}
	return status
}

// Frame draws the world with the current overlay options
func (c *Controls) Frame(r Renderer) {
	Draw(r, c.world, c.Options)
}
