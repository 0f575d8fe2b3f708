// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func approxVec(a, b Vector2D) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y)
}

func TestVector2D_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		result   Vector2D
		expected Vector2D
	}{
		{"add_positive", Vector2D{X: 3, Y: 4}.Add(Vector2D{X: 1, Y: 2}), Vector2D{X: 4, Y: 6}},
		{"add_mixed_signs", Vector2D{X: 5, Y: -3}.Add(Vector2D{X: -2, Y: 7}), Vector2D{X: 3, Y: 4}},
		{"sub_negative_result", Vector2D{X: 2, Y: 3}.Sub(Vector2D{X: 5, Y: 7}), Vector2D{X: -3, Y: -4}},
		{"sub_same", Vector2D{X: 4, Y: 6}.Sub(Vector2D{X: 4, Y: 6}), Vector2D{}},
		{"scale_half", Vector2D{X: 4, Y: -6}.Scale(0.5), Vector2D{X: 2, Y: -3}},
		{"scale_zero", Vector2D{X: 4, Y: -6}.Scale(0), Vector2D{}},
		{"neg", Vector2D{X: 1, Y: -2}.Neg(), Vector2D{X: -1, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result != tt.expected {
				t.Errorf("got %v, expected %v", tt.result, tt.expected)
			}
		})
	}
}

func TestVector2D_Length(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected float64
	}{
		{"zero", Vector2D{}, 0},
		{"pythagorean", Vector2D{X: 3, Y: 4}, 5},
		{"negative", Vector2D{X: -6, Y: -8}, 10},
		{"axis", Vector2D{X: 0, Y: 7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.Length(); !approxEqual(got, tt.expected) {
				t.Errorf("Length() = %v, expected %v", got, tt.expected)
			}
			if got := tt.vector.LengthSquared(); !approxEqual(got, tt.expected*tt.expected) {
				t.Errorf("LengthSquared() = %v, expected %v", got, tt.expected*tt.expected)
			}
		})
	}
}

func TestVector2D_Normalize(t *testing.T) {
	t.Run("regular_vector", func(t *testing.T) {
		result := Vector2D{X: 3, Y: 4}.Normalize()
		if !approxVec(result, Vector2D{X: 0.6, Y: 0.8}) {
			t.Errorf("Normalize() = %v, expected (0.6, 0.8)", result)
		}
		if !approxEqual(result.Length(), 1) {
			t.Errorf("normalized length = %v, expected 1", result.Length())
		}
	})

	t.Run("zero_vector_stays_zero", func(t *testing.T) {
		result := Vector2D{}.Normalize()
		if result != (Vector2D{}) {
			t.Errorf("Normalize() of zero = %v, expected zero vector", result)
		}
		if !result.IsFinite() {
			t.Error("Normalize() of zero produced a non-finite vector")
		}
	})

	t.Run("tiny_vector", func(t *testing.T) {
		result := Vector2D{X: 1e-300, Y: 0}.Normalize()
		if !approxVec(result, Vector2D{X: 1, Y: 0}) {
			t.Errorf("Normalize() = %v, expected (1, 0)", result)
		}
	})
}

func TestVector2D_Products(t *testing.T) {
	a := Vector2D{X: 2, Y: 3}
	b := Vector2D{X: 4, Y: -1}

	if got := a.Dot(b); got != 5 {
		t.Errorf("Dot() = %v, expected 5", got)
	}
	if got := a.Cross(b); got != -14 {
		t.Errorf("Cross() = %v, expected -14", got)
	}
	if got := b.Cross(a); got != 14 {
		t.Errorf("Cross() reversed = %v, expected 14", got)
	}
	if got := a.Cross(a); got != 0 {
		t.Errorf("Cross() with itself = %v, expected 0", got)
	}
}

func TestVector2D_CrossScalar(t *testing.T) {
	// a point one unit right of the centre of a body spinning at 2 rad/s
	arm := Vector2D{X: 1, Y: 0}
	got := arm.CrossScalar(2)
	if got != (Vector2D{X: 0, Y: 2}) {
		t.Errorf("CrossScalar() = %v, expected (0, 2)", got)
	}
	if d := got.Dot(arm); d != 0 {
		t.Errorf("tangential velocity not perpendicular to arm: dot = %v", d)
	}
}

func TestVector2D_Perp(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected Vector2D
	}{
		{"x_axis", Vector2D{X: 1, Y: 0}, Vector2D{X: 0, Y: -1}},
		{"y_axis", Vector2D{X: 0, Y: 1}, Vector2D{X: 1, Y: 0}},
		{"arbitrary", Vector2D{X: 2, Y: 3}, Vector2D{X: 3, Y: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.vector.Perp()
			if got != tt.expected {
				t.Errorf("Perp() = %v, expected %v", got, tt.expected)
			}
			if got.Dot(tt.vector) != 0 {
				t.Errorf("Perp() not perpendicular to %v", tt.vector)
			}
		})
	}

	t.Run("scaled", func(t *testing.T) {
		got := Vector2D{X: 3, Y: 4}.PerpScaled(10)
		if !approxVec(got, Vector2D{X: 8, Y: -6}) {
			t.Errorf("PerpScaled() = %v, expected (8, -6)", got)
		}
		if zero := (Vector2D{}).PerpScaled(10); zero != (Vector2D{}) {
			t.Errorf("PerpScaled() of zero = %v, expected zero", zero)
		}
	})
}

func TestVector2D_Projection(t *testing.T) {
	tests := []struct {
		name       string
		v, onto    Vector2D
		scalar     float64
		projection Vector2D
	}{
		{"onto_x_axis", Vector2D{X: 3, Y: 4}, Vector2D{X: 10, Y: 0}, 3, Vector2D{X: 3, Y: 0}},
		{"opposite", Vector2D{X: -2, Y: 1}, Vector2D{X: 1, Y: 0}, -2, Vector2D{X: -2, Y: 0}},
		{"perpendicular", Vector2D{X: 0, Y: 5}, Vector2D{X: 1, Y: 0}, 0, Vector2D{}},
		{"onto_zero", Vector2D{X: 3, Y: 4}, Vector2D{}, 0, Vector2D{}},
		{"zero_onto", Vector2D{}, Vector2D{X: 1, Y: 1}, 0, Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Projection(tt.onto); !approxEqual(got, tt.scalar) {
				t.Errorf("Projection() = %v, expected %v", got, tt.scalar)
			}
			if got := tt.v.Project(tt.onto); !approxVec(got, tt.projection) {
				t.Errorf("Project() = %v, expected %v", got, tt.projection)
			}
		})
	}
}

func TestVector2D_Distance(t *testing.T) {
	if got := (Vector2D{X: 1, Y: 1}).Distance(Vector2D{X: 4, Y: 5}); !approxEqual(got, 5) {
		t.Errorf("Distance() = %v, expected 5", got)
	}
}

func TestVector2D_Angle(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected float64
	}{
		{"positive_x", Vector2D{X: 1, Y: 0}, 0},
		{"positive_y", Vector2D{X: 0, Y: 1}, math.Pi / 2},
		{"negative_x", Vector2D{X: -1, Y: 0}, math.Pi},
		{"negative_y", Vector2D{X: 0, Y: -1}, -math.Pi / 2},
		{"diagonal", Vector2D{X: 1, Y: 1}, math.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.Angle(); !approxEqual(got, tt.expected) {
				t.Errorf("Angle() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFromAngle(t *testing.T) {
	got := FromAngle(math.Pi/4, 2)
	if !approxVec(got, Vector2D{X: math.Sqrt(2), Y: math.Sqrt(2)}) {
		t.Errorf("FromAngle() = %v", got)
	}
	if back := got.Angle(); !approxEqual(back, math.Pi/4) {
		t.Errorf("Angle() round trip = %v, expected %v", back, math.Pi/4)
	}
}

func TestVector2D_Rotate(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		angle    float64
		expected Vector2D
	}{
		{"no_rotation", Vector2D{X: 1, Y: 0}, 0, Vector2D{X: 1, Y: 0}},
		{"quarter_turn", Vector2D{X: 1, Y: 0}, math.Pi / 2, Vector2D{X: 0, Y: 1}},
		{"half_turn", Vector2D{X: 1, Y: 0}, math.Pi, Vector2D{X: -1, Y: 0}},
		{"arbitrary_vector", Vector2D{X: 2, Y: 3}, math.Pi / 2, Vector2D{X: -3, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.Rotate(tt.angle); !approxVec(got, tt.expected) {
				t.Errorf("Rotate() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestVector2D_IsFinite(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected bool
	}{
		{"finite", Vector2D{X: 1, Y: -2}, true},
		{"nan", Vector2D{X: math.NaN(), Y: 0}, false},
		{"inf", Vector2D{X: 0, Y: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.IsFinite(); got != tt.expected {
				t.Errorf("IsFinite() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

// Benchmark tests for performance verification
func BenchmarkVector2D_Normalize(b *testing.B) {
	v := Vector2D{X: 3, Y: 4}

	for i := 0; i < b.N; i++ {
		_ = v.Normalize()
	}
}

func BenchmarkVector2D_Rotate(b *testing.B) {
	v := Vector2D{X: 3, Y: 4}
	angle := math.Pi / 4

	for i := 0; i < b.N; i++ {
		_ = v.Rotate(angle)
	}
}
