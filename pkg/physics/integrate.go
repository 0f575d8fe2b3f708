// pkg/physics/integrate.go
package physics

// Environment describes the forces every dynamic body feels
type Environment struct {
	Gravity     Vector2D
	LinearDrag  float64 // force = -LinearDrag * velocity
	AngularDrag float64 // torque = -AngularDrag * angular velocity
}

// IntegratePosition moves the body by its current velocity
func IntegratePosition(b *Body, dt float64) {
	if b.IsStatic() {
		return
	}
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Theta += b.AngularVelocity * dt
}

// AccumulateForces adds weight and drag to the body's pending force and
// torque and derives the resulting acceleration.
func AccumulateForces(b *Body, env Environment) {
	if b.IsStatic() {
		b.Acceleration = Vector2D{}
		b.Force = Vector2D{}
		b.Torque = 0
		return
	}
	b.Force = b.Force.
		Add(env.Gravity.Scale(b.Mass)).
		Add(b.Velocity.Scale(-env.LinearDrag))
	b.Torque -= env.AngularDrag * b.AngularVelocity
	b.Acceleration = b.Force.Scale(1 / b.Mass)
}

// IntegrateVelocity applies the accumulated acceleration and torque and
// clears both accumulators
func IntegrateVelocity(b *Body, dt float64) {
	if b.IsStatic() {
		return
	}
	b.Velocity = b.Velocity.Add(b.Acceleration.Scale(dt))
	b.AngularVelocity += b.Torque * b.InverseInertia() * dt
	b.Force = Vector2D{}
	b.Torque = 0
}

// SettleIfResting zeroes velocities below threshold so stacks come to rest.
// A threshold of 0 disables it.
func SettleIfResting(b *Body, threshold float64) {
	if threshold <= 0 || b.IsStatic() {
		return
	}
	if b.Velocity.LengthSquared() < threshold*threshold {
		b.Velocity = Vector2D{}
	}
	if b.AngularVelocity > -threshold && b.AngularVelocity < threshold {
		b.AngularVelocity = 0
	}
}
