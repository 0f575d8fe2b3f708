// pkg/physics/verlet.go
package physics

// Particle is a verlet point mass. Its velocity is implicit in the
// difference between Position and Previous.
type Particle struct {
	Position     Vector2D
	Previous     Vector2D
	Acceleration Vector2D
	Mass         float64
	Radius       float64
	Pinned       bool
}

// InverseMass returns 0 for pinned or massless particles
func (p *Particle) InverseMass() float64 {
	if p.Pinned || p.Mass <= 0 {
		return 0
	}
	return 1 / p.Mass
}

// Velocity returns the displacement over the last step
func (p *Particle) Velocity() Vector2D {
	return p.Position.Sub(p.Previous)
}

// Stick keeps two particles at a fixed distance
type Stick struct {
	A, B   int
	Length float64
}

// VerletParams tunes soft body stepping
type VerletParams struct {
	Gravity        Vector2D
	Damping        float64 // velocity retained per step
	GroundFriction float64 // tangential velocity retained on boundary contact
	Stiffness      float64 // fraction of a stick's error removed per pass
	Iterations     int
	Bounds         Rect // particles are kept inside; zero size disables
}

// DefaultVerletParams returns the tuning used by the rope and soft box scenes
func DefaultVerletParams() VerletParams {
	return VerletParams{
		Gravity:        Vector2D{X: 0, Y: 50},
		Damping:        0.98,
		GroundFriction: 0.85,
		Stiffness:      1,
		Iterations:     5,
	}
}

// SoftBody is a set of particles joined by sticks
type SoftBody struct {
	Particles []Particle
	Sticks    []Stick
}

// AddParticle adds a particle at rest and returns its index
func (s *SoftBody) AddParticle(position Vector2D, mass, radius float64, pinned bool) int {
	s.Particles = append(s.Particles, Particle{
		Position: position,
		Previous: position,
		Mass:     mass,
		Radius:   radius,
		Pinned:   pinned,
	})
	return len(s.Particles) - 1
}

// Connect joins two particles with a stick at their current distance
func (s *SoftBody) Connect(a, b int) {
	length := s.Particles[a].Position.Distance(s.Particles[b].Position)
	s.Sticks = append(s.Sticks, Stick{A: a, B: b, Length: length})
}

// NewRope builds a chain of segments+1 particles from start to end with the
// first particle pinned
func NewRope(start, end Vector2D, segments int, mass float64) *SoftBody {
	if segments < 1 {
		segments = 1
	}
	s := &SoftBody{}
	step := end.Sub(start).Scale(1 / float64(segments))
	for i := 0; i <= segments; i++ {
		s.AddParticle(start.Add(step.Scale(float64(i))), mass, 3, i == 0)
		if i > 0 {
			s.Connect(i-1, i)
		}
	}
	return s
}

// NewSoftBox builds a square of four particles with both diagonals braced
func NewSoftBox(center Vector2D, size, mass float64) *SoftBody {
	s := &SoftBody{}
	for _, v := range BoxVertices(size, size) {
		s.AddParticle(center.Add(v), mass, 3, false)
	}
	s.Connect(0, 1)
	s.Connect(1, 2)
	s.Connect(2, 3)
	s.Connect(3, 0)
	s.Connect(0, 2)
	s.Connect(1, 3)
	return s
}

// Step advances the soft body by dt: verlet integration followed by
// Iterations rounds of stick and boundary relaxation.
func (s *SoftBody) Step(dt float64, params VerletParams) {
	for i := range s.Particles {
		p := &s.Particles[i]
		if p.Pinned {
			p.Acceleration = Vector2D{}
			continue
		}
		acc := p.Acceleration.Add(params.Gravity)
		velocity := p.Velocity().Scale(params.Damping)
		p.Previous = p.Position
		p.Position = p.Position.Add(velocity).Add(acc.Scale(dt * dt))
		p.Acceleration = Vector2D{}
	}

	for iter := 0; iter < params.Iterations; iter++ {
		for _, st := range s.Sticks {
			s.solveStick(st, params.Stiffness)
		}
		if params.Bounds.Area() > 0 {
			s.constrain(params)
		}
	}
}

// solveStick moves both ends towards the rest length, weighted by inverse
// mass. Two pinned ends or coincident particles are left alone.
func (s *SoftBody) solveStick(st Stick, stiffness float64) {
	a := &s.Particles[st.A]
	b := &s.Particles[st.B]
	delta := b.Position.Sub(a.Position)
	dist := delta.Length()
	if dist == 0 {
		return
	}
	wA, wB := a.InverseMass(), b.InverseMass()
	sum := wA + wB
	if sum == 0 {
		return
	}
	normal := delta.Scale(1 / dist)
	correction := (dist - st.Length) * stiffness
	a.Position = a.Position.Add(normal.Scale(correction * wA / sum))
	b.Position = b.Position.Sub(normal.Scale(correction * wB / sum))
}

// constrain keeps particles inside the bounds, reflecting the velocity
// component that hit the boundary and scaling it by the ground friction
func (s *SoftBody) constrain(params VerletParams) {
	min := params.Bounds.Pos
	max := params.Bounds.Max()
	for i := range s.Particles {
		p := &s.Particles[i]
		if p.Pinned {
			continue
		}
		velocity := p.Velocity().Scale(params.Damping)
		if p.Position.Y+p.Radius > max.Y {
			p.Position.Y = max.Y - p.Radius
			p.Previous.Y = p.Position.Y + velocity.Y*params.GroundFriction
		} else if p.Position.Y-p.Radius < min.Y {
			p.Position.Y = min.Y + p.Radius
			p.Previous.Y = p.Position.Y + velocity.Y*params.GroundFriction
		}
		if p.Position.X-p.Radius < min.X {
			p.Position.X = min.X + p.Radius
			p.Previous.X = p.Position.X + velocity.X*params.GroundFriction
		} else if p.Position.X+p.Radius > max.X {
			p.Position.X = max.X - p.Radius
			p.Previous.X = p.Position.X + velocity.X*params.GroundFriction
		}
	}
}

// Bounds returns the box enclosing every particle
func (s *SoftBody) Bounds() Rect {
	points := make([]Vector2D, len(s.Particles))
	for i := range s.Particles {
		points[i] = s.Particles[i].Position
	}
	return BoundsOf(points)
}
