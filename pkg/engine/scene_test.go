package engine

import (
	"errors"
	"testing"

	"github.com/opd-ai/go-physics2d/pkg/config"
	"github.com/opd-ai/go-physics2d/pkg/physics"
	"github.com/opd-ai/go-physics2d/pkg/validation"
)

func TestBuildWorld_Presets(t *testing.T) {
	for _, name := range config.PresetNames() {
		t.Run(name, func(t *testing.T) {
			scene, err := config.Preset(name)
			if err != nil {
				t.Fatalf("Preset failed: %v", err)
			}
			w, err := BuildWorld(scene)
			if err != nil {
				t.Fatalf("BuildWorld failed: %v", err)
			}

			want := len(scene.Walls) + len(scene.Bodies)
			if w.Len() != want {
				t.Errorf("Len() = %d, want %d", w.Len(), want)
			}
			if len(w.SoftBodies()) != len(scene.SoftBodies) {
				t.Errorf("soft bodies = %d, want %d", len(w.SoftBodies()), len(scene.SoftBodies))
			}
			if w.Bounds() != scene.Bounds {
				t.Errorf("Bounds() = %+v, want %+v", w.Bounds(), scene.Bounds)
			}

			for i := 0; i < 120; i++ {
				w.Step()
			}
			w.EachBody(func(id BodyID, b *physics.Body) {
				if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
					t.Errorf("body %v diverged: %+v", id, b)
				}
			})
		})
	}
}

func TestBuildWorld_CollidePreset(t *testing.T) {
	scene, _ := config.Preset("collide")
	w, err := BuildWorld(scene)
	if err != nil {
		t.Fatalf("BuildWorld failed: %v", err)
	}

	w.Step()

	ids := w.BodyIDs()
	a, _ := w.Body(ids[0])
	b, _ := w.Body(ids[1])
	if d := a.Position.Distance(b.Position); d < 20-tolerance || d > 20+tolerance {
		t.Errorf("distance = %v, want 20", d)
	}
	if !near(a.Velocity, vec(-10, 0), tolerance) || !near(b.Velocity, vec(10, 0), tolerance) {
		t.Errorf("velocities = %+v, %+v", a.Velocity, b.Velocity)
	}
}

func TestBuildWorld_Walls(t *testing.T) {
	scene := &config.SceneConfig{
		Name:       "walls",
		Bounds:     physics.NewRect(10, 20, 100, 50),
		Walls:      []string{"bottom", "top", "left", "right"},
		Simulation: config.DefaultSimulation(),
	}
	w, err := BuildWorld(scene)
	if err != nil {
		t.Fatalf("BuildWorld failed: %v", err)
	}

	got := make(map[physics.WallSide]float64)
	w.EachBody(func(_ BodyID, b *physics.Body) {
		if b.Kind == physics.ShapeWall {
			got[b.Wall.Side] = b.Wall.Coordinate
		}
	})
	want := map[physics.WallSide]float64{
		physics.WallBottom: 70,
		physics.WallTop:    20,
		physics.WallLeft:   10,
		physics.WallRight:  110,
	}
	for side, coord := range want {
		if got[side] != coord {
			t.Errorf("%v wall at %v, want %v", side, got[side], coord)
		}
	}
}

func TestBuildWorld_Errors(t *testing.T) {
	base := func() *config.SceneConfig {
		return &config.SceneConfig{
			Name:       "broken",
			Bounds:     physics.NewRect(0, 0, 100, 100),
			Simulation: config.DefaultSimulation(),
		}
	}

	tests := []struct {
		name   string
		modify func(*config.SceneConfig)
		want   error
	}{
		{
			name:   "unknown_shape",
			modify: func(s *config.SceneConfig) { s.Bodies = []config.BodyConfig{{Shape: "star", Mass: 1}} },
			want:   validation.ErrUnknownShape,
		},
		{
			name:   "zero_radius",
			modify: func(s *config.SceneConfig) { s.Bodies = []config.BodyConfig{{Shape: "circle", Mass: 1}} },
			want:   validation.ErrNonPositiveRadius,
		},
		{
			name:   "two_sided_regular",
			modify: func(s *config.SceneConfig) { s.Bodies = []config.BodyConfig{{Shape: "regular", Sides: 2, Radius: 5, Mass: 1}} },
			want:   validation.ErrTooFewVertices,
		},
		{
			name: "concave_polygon",
			modify: func(s *config.SceneConfig) {
				s.Bodies = []config.BodyConfig{{Shape: "polygon", Mass: 1, Vertices: []physics.Vector2D{
					{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 2}, {X: 10, Y: 10}, {X: 0, Y: 10},
				}}}
			},
			want: validation.ErrNotConvex,
		},
		{
			name:   "unknown_soft_body",
			modify: func(s *config.SceneConfig) { s.SoftBodies = []config.SoftBodyConfig{{Kind: "cloth"}} },
			want:   validation.ErrUnknownShape,
		},
		{
			name:   "massless_soft_box",
			modify: func(s *config.SceneConfig) { s.SoftBodies = []config.SoftBodyConfig{{Kind: "box", Size: 10}} },
			want:   validation.ErrNonPositiveMass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := base()
			tt.modify(scene)
			if _, err := BuildWorld(scene); !errors.Is(err, tt.want) {
				t.Errorf("BuildWorld() error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("invalid_simulation", func(t *testing.T) {
		scene := base()
		scene.Simulation.TickRate = -1
		if _, err := BuildWorld(scene); err == nil {
			t.Error("expected error for negative tick rate")
		}
	})

	t.Run("nil_scene", func(t *testing.T) {
		if _, err := BuildWorld(nil); err == nil {
			t.Error("expected error for nil scene")
		}
	})
}

func TestBodyFromConfig(t *testing.T) {
	t.Run("static_box_drops_velocity", func(t *testing.T) {
		b, err := BodyFromConfig(config.BodyConfig{
			Shape: "box", Width: 10, Height: 4, Static: true, Velocity: vec(5, 5), AngularVelocity: 2,
		})
		if err != nil {
			t.Fatalf("BodyFromConfig failed: %v", err)
		}
		if !b.IsStatic() || b.Velocity != (physics.Vector2D{}) || b.AngularVelocity != 0 {
			t.Errorf("unexpected static body %+v", b)
		}
		if len(b.Vertices) != 4 {
			t.Errorf("box has %d vertices", len(b.Vertices))
		}
	})

	t.Run("regular_polygon", func(t *testing.T) {
		b, err := BodyFromConfig(config.BodyConfig{Shape: "Regular", Sides: 6, Radius: 10, Mass: 2, Restitution: 0.5})
		if err != nil {
			t.Fatalf("BodyFromConfig failed: %v", err)
		}
		if b.Kind != physics.ShapePolygon || len(b.Vertices) != 6 || b.Restitution != 0.5 {
			t.Errorf("unexpected polygon %+v", b)
		}
	})

	t.Run("circle_keeps_velocity", func(t *testing.T) {
		b, _ := BodyFromConfig(config.BodyConfig{Shape: "circle", Radius: 3, Mass: 1, Velocity: vec(1, 2)})
		if b.Kind != physics.ShapeCircle || b.Velocity != vec(1, 2) {
			t.Errorf("unexpected circle %+v", b)
		}
	})
}

func TestPopulate_AfterClear(t *testing.T) {
	scene, _ := config.Preset("rope")
	w, err := BuildWorld(scene)
	if err != nil {
		t.Fatalf("BuildWorld failed: %v", err)
	}
	before := w.Len()

	w.Clear()
	if err := Populate(w, scene); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	if w.Len() != before || len(w.SoftBodies()) != len(scene.SoftBodies) {
		t.Errorf("repopulated world has %d bodies and %d soft bodies", w.Len(), len(w.SoftBodies()))
	}
}
