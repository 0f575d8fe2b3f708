// pkg/engine/stepper.go
package engine

import "time"

// Stepper converts variable frame times into a whole number of fixed steps.
// Leftover time carries over to the next frame, so the number of steps run
// depends only on the total time fed in, never on how it was split.
type Stepper struct {
	step     time.Duration
	maxFrame time.Duration
	acc      time.Duration
}

// NewStepper creates a stepper. A maxFrame of 0 disables frame clamping.
func NewStepper(step, maxFrame time.Duration) *Stepper {
	if step <= 0 {
		step = time.Second / 60
	}
	return &Stepper{step: step, maxFrame: maxFrame}
}

// Advance adds elapsed to the accumulator and calls fn once per whole step.
// It returns the number of steps run.
func (s *Stepper) Advance(elapsed time.Duration, fn func()) int {
	if elapsed <= 0 {
		return 0
	}
	if s.maxFrame > 0 && elapsed > s.maxFrame {
		elapsed = s.maxFrame
	}
	s.acc += elapsed

	steps := 0
	for s.acc >= s.step {
		fn()
		s.acc -= s.step
		steps++
	}
	return steps
}

// Step returns the fixed step length
func (s *Stepper) Step() time.Duration {
	return s.step
}

// Accumulated returns the time not yet consumed by a step
func (s *Stepper) Accumulated() time.Duration {
	return s.acc
}

// Alpha returns how far the accumulator is into the next step, in [0, 1).
// Renderers use it to interpolate between the last two states.
func (s *Stepper) Alpha() float64 {
	return float64(s.acc) / float64(s.step)
}

// Reset drops any accumulated time
func (s *Stepper) Reset() {
	s.acc = 0
}
