// Package validation rejects body and soft body definitions the solver
// cannot handle before they enter a world.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-physics2d/pkg/physics"
)

// Shape limits
const (
	MinPolygonVertices = 3
	MaxPolygonVertices = 64
)

// Sentinel errors returned (wrapped) by the validators
var (
	ErrTooFewVertices      = errors.New("polygon needs at least 3 vertices")
	ErrTooManyVertices     = errors.New("polygon has too many vertices")
	ErrNotConvex           = errors.New("polygon is not convex")
	ErrDegenerate          = errors.New("polygon has zero area")
	ErrNonPositiveRadius   = errors.New("circle radius must be positive")
	ErrNonPositiveMass     = errors.New("dynamic body mass must be positive")
	ErrNonFinite           = errors.New("value is NaN or infinite")
	ErrUnknownShape        = errors.New("unknown shape kind")
	ErrInvalidRestitution  = errors.New("restitution must not be negative")
	ErrInvalidStick        = errors.New("stick references a missing particle")
	ErrNegativeStickLength = errors.New("stick length must not be negative")
)

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ValidateBody checks a body definition. The returned error wraps one of
// the sentinel errors above.
func ValidateBody(b *physics.Body) error {
	if b == nil {
		return fmt.Errorf("nil body: %w", ErrUnknownShape)
	}

	switch b.Kind {
	case physics.ShapeCircle:
		if !finite(b.Radius) {
			return fmt.Errorf("radius: %w", ErrNonFinite)
		}
		if b.Radius <= 0 {
			return fmt.Errorf("radius %g: %w", b.Radius, ErrNonPositiveRadius)
		}
	case physics.ShapePolygon:
		if err := ValidatePolygon(b.Vertices); err != nil {
			return err
		}
	case physics.ShapeWall:
		if b.Wall.Side > physics.WallRight {
			return fmt.Errorf("wall side %d: %w", b.Wall.Side, ErrUnknownShape)
		}
		if !finite(b.Wall.Coordinate) {
			return fmt.Errorf("wall coordinate: %w", ErrNonFinite)
		}
		return nil
	default:
		return fmt.Errorf("kind %d: %w", b.Kind, ErrUnknownShape)
	}

	if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
		return fmt.Errorf("position or velocity: %w", ErrNonFinite)
	}
	if !finite(b.Theta, b.AngularVelocity, b.Mass, b.Inertia, b.Restitution) {
		return fmt.Errorf("scalar state: %w", ErrNonFinite)
	}
	if b.Mass < 0 || (!b.Static && b.Mass == 0) {
		return fmt.Errorf("mass %g: %w", b.Mass, ErrNonPositiveMass)
	}
	if b.Restitution < 0 {
		return fmt.Errorf("restitution %g: %w", b.Restitution, ErrInvalidRestitution)
	}

	return nil
}

// ValidatePolygon checks local-frame polygon vertices
func ValidatePolygon(vertices []physics.Vector2D) error {
	if len(vertices) < MinPolygonVertices {
		return fmt.Errorf("%d vertices: %w", len(vertices), ErrTooFewVertices)
	}
	if len(vertices) > MaxPolygonVertices {
		return fmt.Errorf("%d vertices: %w", len(vertices), ErrTooManyVertices)
	}
	for i, v := range vertices {
		if !v.IsFinite() {
			return fmt.Errorf("vertex %d: %w", i, ErrNonFinite)
		}
	}
	if physics.SignedArea(vertices) == 0 {
		return ErrDegenerate
	}
	if !physics.IsConvex(vertices) {
		return ErrNotConvex
	}
	return nil
}

// ValidateSoftBody checks particle state and stick indices
func ValidateSoftBody(s *physics.SoftBody) error {
	if s == nil || len(s.Particles) == 0 {
		return fmt.Errorf("soft body without particles: %w", ErrUnknownShape)
	}
	for i := range s.Particles {
		p := &s.Particles[i]
		if !p.Position.IsFinite() || !p.Previous.IsFinite() || !finite(p.Mass, p.Radius) {
			return fmt.Errorf("particle %d: %w", i, ErrNonFinite)
		}
		if p.Mass < 0 || (!p.Pinned && p.Mass == 0) {
			return fmt.Errorf("particle %d mass %g: %w", i, p.Mass, ErrNonPositiveMass)
		}
	}
	for i, st := range s.Sticks {
		if st.A < 0 || st.B < 0 || st.A >= len(s.Particles) || st.B >= len(s.Particles) || st.A == st.B {
			return fmt.Errorf("stick %d (%d-%d): %w", i, st.A, st.B, ErrInvalidStick)
		}
		if !finite(st.Length) {
			return fmt.Errorf("stick %d: %w", i, ErrNonFinite)
		}
		if st.Length < 0 {
			return fmt.Errorf("stick %d: %w", i, ErrNegativeStickLength)
		}
	}
	return nil
}
