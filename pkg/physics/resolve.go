// pkg/physics/resolve.go
package physics

import "math"

// Restitution holds the coefficients used for each contact family
type Restitution struct {
	Rigid  float64 // polygon and circle-polygon contacts
	Circle float64 // circle-circle contacts
	Wall   float64 // anything against a wall
}

// DefaultRestitution matches the simulation defaults
func DefaultRestitution() Restitution {
	return Restitution{Rigid: 0.4, Circle: 1.0, Wall: 0.8}
}

// pairRestitution returns the coefficient for a pair. A body's own non-zero
// restitution overrides the fallback; when both set one the smaller wins.
func pairRestitution(a, b *Body, fallback float64) float64 {
	switch {
	case a.Restitution > 0 && b.Restitution > 0:
		return math.Min(a.Restitution, b.Restitution)
	case a.Restitution > 0:
		return a.Restitution
	case b.Restitution > 0:
		return b.Restitution
	default:
		return fallback
	}
}

// Separate removes the contact's penetration by moving the bodies apart
// along the normal, split by inverse mass. Static bodies never move.
func Separate(a, b *Body, c Contact) {
	invA, invB := a.InverseMass(), b.InverseMass()
	sum := invA + invB
	if sum == 0 || c.Depth <= 0 {
		return
	}
	a.Position = a.Position.Sub(c.Normal.Scale(c.Depth * invA / sum))
	b.Position = b.Position.Add(c.Normal.Scale(c.Depth * invB / sum))
}

// SeparateCircles splits the penetration equally between two dynamic
// circles. Against a static circle the dynamic one takes the full depth.
func SeparateCircles(a, b *Body, c Contact) {
	shareA, shareB := 0.5, 0.5
	switch {
	case a.IsStatic() && b.IsStatic():
		return
	case a.IsStatic():
		shareA, shareB = 0, 1
	case b.IsStatic():
		shareA, shareB = 1, 0
	}
	a.Position = a.Position.Sub(c.Normal.Scale(c.Depth * shareA))
	b.Position = b.Position.Add(c.Normal.Scale(c.Depth * shareB))
}

// ExchangeCircleVelocities applies the 1-D restitution formula to the
// normal components of both velocities and keeps the tangential parts.
// Nothing happens when the circles are already moving apart.
func ExchangeCircleVelocities(a, b *Body, c Contact, e float64) {
	n := c.Normal
	u1 := a.Velocity.Dot(n)
	u2 := b.Velocity.Dot(n)
	if u1-u2 <= 0 {
		return
	}
	t1 := a.Velocity.Sub(n.Scale(u1))
	t2 := b.Velocity.Sub(n.Scale(u2))

	v1, v2 := u1, u2
	switch {
	case a.IsStatic() && b.IsStatic():
		return
	case b.IsStatic():
		v1 = -e*u1 + (1+e)*u2
	case a.IsStatic():
		v2 = -e*u2 + (1+e)*u1
	default:
		m1, m2 := a.Mass, b.Mass
		v1 = ((m1-e*m2)*u1 + (1+e)*m2*u2) / (m1 + m2)
		v2 = ((m2-e*m1)*u2 + (1+e)*m1*u1) / (m1 + m2)
	}

	if !a.IsStatic() {
		a.Velocity = t1.Add(n.Scale(v1))
	}
	if !b.IsStatic() {
		b.Velocity = t2.Add(n.Scale(v2))
	}
}

// ApplyImpulse resolves the relative velocity at the contact point with a
// single normal impulse, including the angular terms. It returns the
// impulse magnitude, 0 when the bodies are separating or immovable.
func ApplyImpulse(a, b *Body, c Contact, e float64) float64 {
	n := c.Normal
	relative := a.PointVelocity(c.ArmA).Sub(b.PointVelocity(c.ArmB))
	vn := relative.Dot(n)
	if vn <= 0 {
		return 0
	}

	invMA, invMB := a.InverseMass(), b.InverseMass()
	invIA, invIB := a.InverseInertia(), b.InverseInertia()
	raXn := c.ArmA.Cross(n)
	rbXn := c.ArmB.Cross(n)

	denom := invMA + invMB + raXn*raXn*invIA + rbXn*rbXn*invIB
	if denom == 0 {
		return 0
	}
	j := -(1 + e) * vn / denom

	a.Velocity = a.Velocity.Add(n.Scale(j * invMA))
	a.AngularVelocity += raXn * j * invIA
	b.Velocity = b.Velocity.Sub(n.Scale(j * invMB))
	b.AngularVelocity -= rbXn * j * invIB
	return j
}

// Resolve runs positional correction followed by the velocity response
// suited to the pair's shapes.
func Resolve(a, b *Body, c Contact, r Restitution) {
	switch {
	case a.Kind == ShapeWall || b.Kind == ShapeWall:
		Separate(a, b, c)
		ApplyImpulse(a, b, c, pairRestitution(a, b, r.Wall))
	case a.Kind == ShapeCircle && b.Kind == ShapeCircle:
		SeparateCircles(a, b, c)
		ExchangeCircleVelocities(a, b, c, pairRestitution(a, b, r.Circle))
	default:
		Separate(a, b, c)
		ApplyImpulse(a, b, c, pairRestitution(a, b, r.Rigid))
	}
}
