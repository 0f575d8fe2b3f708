// pkg/physics/body.go
package physics

import "math"

// ShapeKind tags which variant of Body is in use
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapePolygon
	ShapeWall
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	case ShapeWall:
		return "wall"
	default:
		return "unknown"
	}
}

// WallSide names which axis-aligned half-plane a wall closes off
type WallSide uint8

const (
	WallBottom WallSide = iota
	WallTop
	WallLeft
	WallRight
)

func (s WallSide) String() string {
	switch s {
	case WallBottom:
		return "bottom"
	case WallTop:
		return "top"
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	default:
		return "unknown"
	}
}

// Wall is a static axis-aligned boundary. Bodies live on the side the
// normal points to.
type Wall struct {
	Side       WallSide
	Coordinate float64
}

// Normal returns the unit normal pointing into the free region
func (w Wall) Normal() Vector2D {
	switch w.Side {
	case WallTop:
		return Vector2D{X: 0, Y: 1}
	case WallLeft:
		return Vector2D{X: 1, Y: 0}
	case WallRight:
		return Vector2D{X: -1, Y: 0}
	default:
		return Vector2D{X: 0, Y: -1}
	}
}

// Penetration returns how far the point lies beyond the wall (<= 0 when
// the point is on the free side).
func (w Wall) Penetration(p Vector2D) float64 {
	switch w.Side {
	case WallTop:
		return w.Coordinate - p.Y
	case WallLeft:
		return w.Coordinate - p.X
	case WallRight:
		return p.X - w.Coordinate
	default:
		return p.Y - w.Coordinate
	}
}

// Body is a rigid body. Kind selects which shape fields are meaningful.
type Body struct {
	Kind ShapeKind

	Position     Vector2D
	Velocity     Vector2D
	Acceleration Vector2D
	Force        Vector2D

	Theta           float64
	AngularVelocity float64
	Torque          float64

	Mass    float64
	Inertia float64
	Static  bool

	// Restitution overrides the simulation default when non-zero
	Restitution float64

	Radius   float64
	Vertices []Vector2D
	Wall     Wall
}

// NewCircle creates a dynamic circle body
func NewCircle(position Vector2D, radius, mass float64) Body {
	return Body{
		Kind:     ShapeCircle,
		Position: position,
		Radius:   radius,
		Mass:     mass,
		Inertia:  0.5 * mass * radius * radius,
	}
}

// NewPolygon creates a dynamic polygon from local-frame vertices. The
// moment of inertia is derived from the shape.
func NewPolygon(position Vector2D, theta float64, vertices []Vector2D, mass float64) Body {
	local := make([]Vector2D, len(vertices))
	copy(local, vertices)
	return Body{
		Kind:     ShapePolygon,
		Position: position,
		Theta:    theta,
		Vertices: local,
		Mass:     mass,
		Inertia:  PolygonInertia(mass, local),
	}
}

// NewBox creates a w×h rectangular polygon body
func NewBox(position Vector2D, theta, w, h, mass float64) Body {
	b := NewPolygon(position, theta, BoxVertices(w, h), mass)
	b.Inertia = BoxInertia(mass, w, h)
	return b
}

// NewWall creates a static half-plane boundary
func NewWall(side WallSide, coordinate float64) Body {
	return Body{
		Kind:   ShapeWall,
		Static: true,
		Wall:   Wall{Side: side, Coordinate: coordinate},
	}
}

// IsStatic reports whether the body has infinite mass
func (b *Body) IsStatic() bool {
	return b.Static || b.Kind == ShapeWall || b.Mass <= 0
}

// InverseMass returns 1/m, or 0 for static bodies
func (b *Body) InverseMass() float64 {
	if b.IsStatic() {
		return 0
	}
	return 1 / b.Mass
}

// InverseInertia returns 1/I, or 0 for static or non-rotating bodies
func (b *Body) InverseInertia() float64 {
	if b.IsStatic() || b.Inertia <= 0 {
		return 0
	}
	return 1 / b.Inertia
}

// Transform returns the body's current pose
func (b *Body) Transform() Transform {
	return NewTransform(b.Position, b.Theta)
}

// WorldVertices appends the polygon's vertices in world space to dst
func (b *Body) WorldVertices(dst []Vector2D) []Vector2D {
	t := b.Transform()
	for _, v := range b.Vertices {
		dst = append(dst, t.Apply(v))
	}
	return dst
}

// Bounds returns the body's axis-aligned bounding box. Walls are unbounded
// and report an infinite rectangle.
func (b *Body) Bounds() Rect {
	switch b.Kind {
	case ShapeCircle:
		return Rect{
			Pos:  Vector2D{X: b.Position.X - b.Radius, Y: b.Position.Y - b.Radius},
			Size: Vector2D{X: 2 * b.Radius, Y: 2 * b.Radius},
		}
	case ShapePolygon:
		t := b.Transform()
		min := Vector2D{X: math.Inf(1), Y: math.Inf(1)}
		max := Vector2D{X: math.Inf(-1), Y: math.Inf(-1)}
		for _, v := range b.Vertices {
			w := t.Apply(v)
			min.X = math.Min(min.X, w.X)
			min.Y = math.Min(min.Y, w.Y)
			max.X = math.Max(max.X, w.X)
			max.Y = math.Max(max.Y, w.Y)
		}
		if len(b.Vertices) == 0 {
			return Rect{Pos: b.Position}
		}
		return Rect{Pos: min, Size: max.Sub(min)}
	default:
		inf := math.Inf(1)
		return Rect{Pos: Vector2D{X: -inf, Y: -inf}, Size: Vector2D{X: inf, Y: inf}}
	}
}

// PointVelocity returns the velocity of the material point at arm r from
// the centre of mass.
func (b *Body) PointVelocity(arm Vector2D) Vector2D {
	return b.Velocity.Add(arm.CrossScalar(b.AngularVelocity))
}

// ApplyForce accumulates a force through the centre of mass for the next step
func (b *Body) ApplyForce(f Vector2D) {
	b.Force = b.Force.Add(f)
}

// ApplyTorque accumulates a torque for the next step
func (b *Body) ApplyTorque(t float64) {
	b.Torque += t
}
