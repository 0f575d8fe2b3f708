// pkg/physics/integrate_test.go
package physics

import "testing"

func TestIntegratePosition(t *testing.T) {
	b := NewBox(Vector2D{X: 1, Y: 2}, 0, 2, 2, 1)
	b.Velocity = Vector2D{X: 10, Y: -4}
	b.AngularVelocity = 2

	IntegratePosition(&b, 0.5)

	if b.Position != (Vector2D{X: 6, Y: 0}) {
		t.Errorf("Position = %v, expected (6, 0)", b.Position)
	}
	if b.Theta != 1 {
		t.Errorf("Theta = %v, expected 1", b.Theta)
	}
}

func TestAccumulateForces(t *testing.T) {
	env := Environment{Gravity: Vector2D{X: 0, Y: 10}, LinearDrag: 0.5, AngularDrag: 1}

	b := NewCircle(Vector2D{}, 1, 2)
	b.Velocity = Vector2D{X: 4, Y: 0}
	b.AngularVelocity = 3
	b.ApplyForce(Vector2D{X: 2, Y: 0})

	AccumulateForces(&b, env)

	// (2 - 0.5*4, 2*10) / 2
	if !approxVec(b.Acceleration, Vector2D{X: 0, Y: 10}) {
		t.Errorf("Acceleration = %v, expected (0, 10)", b.Acceleration)
	}
	if b.Torque != -3 {
		t.Errorf("Torque = %v, expected -3", b.Torque)
	}
}

func TestIntegrateVelocity(t *testing.T) {
	b := NewCircle(Vector2D{}, 1, 2) // inertia 1
	b.Acceleration = Vector2D{X: 2, Y: -6}
	b.Torque = 4
	b.Force = Vector2D{X: 1, Y: 1}

	IntegrateVelocity(&b, 0.5)

	if b.Velocity != (Vector2D{X: 1, Y: -3}) {
		t.Errorf("Velocity = %v, expected (1, -3)", b.Velocity)
	}
	if b.AngularVelocity != 2 {
		t.Errorf("AngularVelocity = %v, expected 2", b.AngularVelocity)
	}
	if b.Force != (Vector2D{}) || b.Torque != 0 {
		t.Errorf("accumulators not cleared: force=%v torque=%v", b.Force, b.Torque)
	}
}

func TestIntegrate_StaticBodiesUntouched(t *testing.T) {
	env := Environment{Gravity: Vector2D{X: 0, Y: 100}, LinearDrag: 1}
	b := NewBox(Vector2D{X: 5, Y: 5}, 0, 2, 2, 1)
	b.Static = true
	b.ApplyForce(Vector2D{X: 50, Y: 0})

	for i := 0; i < 10; i++ {
		IntegratePosition(&b, 0.1)
		AccumulateForces(&b, env)
		IntegrateVelocity(&b, 0.1)
	}

	if b.Position != (Vector2D{X: 5, Y: 5}) || b.Velocity != (Vector2D{}) {
		t.Errorf("static body changed: pos=%v vel=%v", b.Position, b.Velocity)
	}
	if b.Force != (Vector2D{}) {
		t.Errorf("static body kept a pending force %v", b.Force)
	}
}

func TestSettleIfResting(t *testing.T) {
	tests := []struct {
		name      string
		velocity  Vector2D
		omega     float64
		threshold float64
		moving    bool
	}{
		{"below_threshold", Vector2D{X: 0.001, Y: 0.002}, 0.005, 0.01, false},
		{"above_threshold", Vector2D{X: 0.5, Y: 0}, 0, 0.01, true},
		{"disabled", Vector2D{X: 0.001, Y: 0}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCircle(Vector2D{}, 1, 1)
			b.Velocity = tt.velocity
			b.AngularVelocity = tt.omega

			SettleIfResting(&b, tt.threshold)

			if moving := b.Velocity != (Vector2D{}); moving != tt.moving {
				t.Errorf("moving = %v, expected %v (velocity %v)", moving, tt.moving, b.Velocity)
			}
		})
	}
}
