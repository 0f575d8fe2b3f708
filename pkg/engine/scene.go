// pkg/engine/scene.go
package engine

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-physics2d/pkg/config"
	"github.com/opd-ai/go-physics2d/pkg/logging"
	"github.com/opd-ai/go-physics2d/pkg/physics"
	"github.com/opd-ai/go-physics2d/pkg/validation"
)

// BuildWorld creates a world for the scene and populates it
func BuildWorld(scene *config.SceneConfig, opts ...Option) (*World, error) {
	if scene == nil {
		return nil, fmt.Errorf("nil scene")
	}
	if err := scene.Validate(); err != nil {
		return nil, logging.WrapError(err, "scene %q", scene.Name)
	}

	opts = append([]Option{WithBounds(scene.Bounds)}, opts...)
	w, err := NewWorld(scene.Simulation, opts...)
	if err != nil {
		return nil, err
	}
	if err := Populate(w, scene); err != nil {
		return nil, err
	}
	return w, nil
}

// Populate adds the scene's walls, bodies and soft bodies to w. It stops
// at the first invalid definition.
func Populate(w *World, scene *config.SceneConfig) error {
	for _, name := range scene.Walls {
		side, ok := config.ParseWallSide(name)
		if !ok {
			return fmt.Errorf("wall %q: %w", name, validation.ErrUnknownShape)
		}
		if _, err := w.AddBody(physics.NewWall(side, wallCoordinate(scene.Bounds, side))); err != nil {
			return logging.WrapError(err, "wall %q", name)
		}
	}

	for i, bc := range scene.Bodies {
		body, err := BodyFromConfig(bc)
		if err != nil {
			return logging.WrapError(err, "body %d", i)
		}
		if _, err := w.AddBody(body); err != nil {
			return logging.WrapError(err, "body %d", i)
		}
	}

	for i, sc := range scene.SoftBodies {
		soft, err := SoftBodyFromConfig(sc)
		if err != nil {
			return logging.WrapError(err, "soft body %d", i)
		}
		if err := w.AddSoftBody(soft); err != nil {
			return logging.WrapError(err, "soft body %d", i)
		}
	}

	return nil
}

// wallCoordinate places a wall on the matching edge of the scene bounds
func wallCoordinate(bounds physics.Rect, side physics.WallSide) float64 {
	switch side {
	case physics.WallTop:
		return bounds.Pos.Y
	case physics.WallLeft:
		return bounds.Pos.X
	case physics.WallRight:
		return bounds.Max().X
	default:
		return bounds.Max().Y
	}
}

// BodyFromConfig turns a body definition into a physics body. Shape
// checks happen later, in AddBody.
func BodyFromConfig(bc config.BodyConfig) (physics.Body, error) {
	var b physics.Body
	switch strings.ToLower(bc.Shape) {
	case "circle":
		b = physics.NewCircle(bc.Position, bc.Radius, bc.Mass)
	case "box", "rect", "rectangle":
		b = physics.NewBox(bc.Position, bc.Theta, bc.Width, bc.Height, bc.Mass)
	case "regular":
		if bc.Sides < validation.MinPolygonVertices {
			return physics.Body{}, fmt.Errorf("%d sides: %w", bc.Sides, validation.ErrTooFewVertices)
		}
		b = physics.NewPolygon(bc.Position, bc.Theta, physics.RegularPolygonVertices(bc.Sides, bc.Radius), bc.Mass)
	case "polygon":
		b = physics.NewPolygon(bc.Position, bc.Theta, bc.Vertices, bc.Mass)
	default:
		return physics.Body{}, fmt.Errorf("shape %q: %w", bc.Shape, validation.ErrUnknownShape)
	}

	b.Velocity = bc.Velocity
	b.AngularVelocity = bc.AngularVelocity
	b.Static = bc.Static
	b.Restitution = bc.Restitution
	if b.Static {
		b.Velocity = physics.Vector2D{}
		b.AngularVelocity = 0
	}
	return b, nil
}

// SoftBodyFromConfig builds a rope or a braced box
func SoftBodyFromConfig(sc config.SoftBodyConfig) (*physics.SoftBody, error) {
	switch strings.ToLower(sc.Kind) {
	case "rope":
		return physics.NewRope(sc.Start, sc.End, sc.Segments, sc.Mass), nil
	case "box":
		return physics.NewSoftBox(sc.Center, sc.Size, sc.Mass), nil
	default:
		return nil, fmt.Errorf("soft body kind %q: %w", sc.Kind, validation.ErrUnknownShape)
	}
}
