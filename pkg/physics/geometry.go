// pkg/physics/geometry.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect represents an axis-aligned rectangle anchored at its minimum corner
type Rect struct {
	Pos  Vector2D `json:"pos" yaml:"pos"`
	Size Vector2D `json:"size" yaml:"size"`
}

// NewRect builds a rectangle from its minimum corner and dimensions
func NewRect(x, y, w, h float64) Rect {
	return Rect{Pos: Vector2D{X: x, Y: y}, Size: Vector2D{X: w, Y: h}}
}

// Max returns the corner opposite Pos
func (r Rect) Max() Vector2D {
	return r.Pos.Add(r.Size)
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() Vector2D {
	return r.Pos.Add(r.Size.Scale(0.5))
}

// Area returns width times height
func (r Rect) Area() float64 {
	return r.Size.X * r.Size.Y
}

// Contains reports whether the point lies inside the rectangle (edges included)
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Pos.X && point.X <= r.Pos.X+r.Size.X &&
		point.Y >= r.Pos.Y && point.Y <= r.Pos.Y+r.Size.Y
}

// ContainsRect reports whether other fits completely inside r
func (r Rect) ContainsRect(other Rect) bool {
	return other.Pos.X >= r.Pos.X && other.Pos.X+other.Size.X <= r.Pos.X+r.Size.X &&
		other.Pos.Y >= r.Pos.Y && other.Pos.Y+other.Size.Y <= r.Pos.Y+r.Size.Y
}

// Intersects reports whether the two rectangles overlap or touch
func (r Rect) Intersects(other Rect) bool {
	return !(other.Pos.X > r.Pos.X+r.Size.X ||
		other.Pos.X+other.Size.X < r.Pos.X ||
		other.Pos.Y > r.Pos.Y+r.Size.Y ||
		other.Pos.Y+other.Size.Y < r.Pos.Y)
}

// Expand grows the rectangle by margin on every side
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Pos:  Vector2D{X: r.Pos.X - margin, Y: r.Pos.Y - margin},
		Size: Vector2D{X: r.Size.X + 2*margin, Y: r.Size.Y + 2*margin},
	}
}

// Quadrants splits the rectangle into top-left, top-right, bottom-left and
// bottom-right halves (y grows downwards).
func (r Rect) Quadrants() [4]Rect {
	hw := r.Size.X * 0.5
	hh := r.Size.Y * 0.5
	half := Vector2D{X: hw, Y: hh}
	return [4]Rect{
		{Pos: r.Pos, Size: half},
		{Pos: Vector2D{X: r.Pos.X + hw, Y: r.Pos.Y}, Size: half},
		{Pos: Vector2D{X: r.Pos.X, Y: r.Pos.Y + hh}, Size: half},
		{Pos: Vector2D{X: r.Pos.X + hw, Y: r.Pos.Y + hh}, Size: half},
	}
}

// BoundsOf returns the smallest rectangle enclosing the points
func BoundsOf(points []Vector2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return Rect{Pos: min, Size: max.Sub(min)}
}

// Transform is a rigid pose: a rotation followed by a translation.
// The rotation matrix is computed once so a whole vertex list can be
// transformed without repeated sin/cos.
type Transform struct {
	Position Vector2D
	rotation mgl64.Mat2
}

// NewTransform builds the pose for a body at position rotated by theta radians
func NewTransform(position Vector2D, theta float64) Transform {
	return Transform{
		Position: position,
		rotation: mgl64.Rotate2D(theta),
	}
}

// Rotate applies only the rotational part of the pose
func (t Transform) Rotate(v Vector2D) Vector2D {
	r := t.rotation.Mul2x1(mgl64.Vec2{v.X, v.Y})
	return Vector2D{X: r[0], Y: r[1]}
}

// Apply maps a local-frame point into world space
func (t Transform) Apply(v Vector2D) Vector2D {
	return t.Rotate(v).Add(t.Position)
}

// BoxVertices returns the four corners of a w×h box centred on the origin
func BoxVertices(w, h float64) []Vector2D {
	return []Vector2D{
		{X: -w / 2, Y: -h / 2},
		{X: w / 2, Y: -h / 2},
		{X: w / 2, Y: h / 2},
		{X: -w / 2, Y: h / 2},
	}
}

// RegularPolygonVertices returns n vertices evenly spaced on a circle
func RegularPolygonVertices(n int, radius float64) []Vector2D {
	verts := make([]Vector2D, n)
	for i := range verts {
		verts[i] = FromAngle(2*math.Pi*float64(i)/float64(n), radius)
	}
	return verts
}

// SignedArea returns the shoelace area of the polygon. The sign encodes the
// winding: positive for clockwise on screen (y down), negative otherwise.
func SignedArea(vertices []Vector2D) float64 {
	area := 0.0
	for i := range vertices {
		a := vertices[i]
		b := vertices[(i+1)%len(vertices)]
		area += a.Cross(b)
	}
	return area * 0.5
}

// PolygonInertia returns the moment of inertia of a uniform polygon of the
// given mass about the local origin.
func PolygonInertia(mass float64, vertices []Vector2D) float64 {
	var num, den float64
	for i := range vertices {
		a := vertices[i]
		b := vertices[(i+1)%len(vertices)]
		c := math.Abs(a.Cross(b))
		num += c * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		den += c
	}
	if den == 0 {
		return 0
	}
	return mass * num / (6 * den)
}

// BoxInertia returns m(w²+h²)/12
func BoxInertia(mass, w, h float64) float64 {
	return mass * (w*w + h*h) / 12
}

// IsConvex reports whether consecutive edges always turn the same way and
// the turns add up to a single revolution. Collinear vertices are
// tolerated; self-intersecting outlines such as a pentagram are not.
func IsConvex(vertices []Vector2D) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	sign := 0
	turning := 0.0
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		c := vertices[(i+2)%n]
		e1, e2 := b.Sub(a), c.Sub(b)
		cross := e1.Cross(e2)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
		turning += math.Atan2(cross, e1.Dot(e2))
	}
	return sign != 0 && math.Abs(math.Abs(turning)-2*math.Pi) < 1e-6
}
