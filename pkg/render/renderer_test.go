package render

import (
	"testing"

	"github.com/opd-ai/go-physics2d/pkg/config"
	"github.com/opd-ai/go-physics2d/pkg/engine"
	"github.com/opd-ai/go-physics2d/pkg/physics"
)

func vec(x, y float64) physics.Vector2D {
	return physics.Vector2D{X: x, Y: y}
}

// recordingRenderer keeps the style of every primitive it is given
type recordingRenderer struct {
	circles  []Style
	polygons []Style
	segments []Style
	rects    []Style
	cleared  bool
	frames   int
}

func (r *recordingRenderer) Clear() { r.cleared = true }
func (r *recordingRenderer) DrawCircle(_ physics.Vector2D, _ float64, s Style) {
	r.circles = append(r.circles, s)
}
func (r *recordingRenderer) DrawPolygon(_ []physics.Vector2D, s Style) {
	r.polygons = append(r.polygons, s)
}
func (r *recordingRenderer) DrawSegment(_, _ physics.Vector2D, s Style) {
	r.segments = append(r.segments, s)
}
func (r *recordingRenderer) DrawRect(_ physics.Rect, s Style) { r.rects = append(r.rects, s) }
func (r *recordingRenderer) Present()                        { r.frames++ }

func newSceneWorld(t *testing.T) (*engine.World, engine.BodyID, engine.BodyID) {
	t.Helper()
	w, err := engine.NewWorld(config.DefaultSimulation())
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	circle, err := w.AddBody(physics.NewCircle(vec(100, 100), 10, 1))
	if err != nil {
		t.Fatalf("AddBody failed: %v", err)
	}
	ledge := physics.NewBox(vec(300, 300), 0, 80, 10, 0)
	ledge.Static = true
	box, err := w.AddBody(ledge)
	if err != nil {
		t.Fatalf("AddBody failed: %v", err)
	}
	if _, err := w.AddBody(physics.NewWall(physics.WallBottom, 600)); err != nil {
		t.Fatalf("AddBody failed: %v", err)
	}
	if err := w.AddSoftBody(physics.NewRope(vec(500, 50), vec(600, 50), 4, 1)); err != nil {
		t.Fatalf("AddSoftBody failed: %v", err)
	}
	return w, circle, box
}

func TestDraw_NullRendererCounts(t *testing.T) {
	w, _, _ := newSceneWorld(t)
	w.Step()

	r := NewNullRenderer(nil)
	Draw(r, w, DrawOptions{Index: true, Contacts: true})

	rope := w.SoftBodies()[0]
	contacts := len(w.Contacts())

	if r.Frames != 1 {
		t.Errorf("Frames = %d, want 1", r.Frames)
	}
	if want := 1 + len(rope.Particles) + contacts; r.Circles != want {
		t.Errorf("Circles = %d, want %d", r.Circles, want)
	}
	if r.Polygons != 1 {
		t.Errorf("Polygons = %d, want 1", r.Polygons)
	}
	// circle spoke, wall, rope sticks, contact normals
	if want := 1 + 1 + len(rope.Sticks) + contacts; r.Segments != want {
		t.Errorf("Segments = %d, want %d", r.Segments, want)
	}
	if want := len(w.IndexBoundaries()); r.Rects != want || want == 0 {
		t.Errorf("Rects = %d, want %d (non-zero)", r.Rects, want)
	}

	Draw(r, w, DrawOptions{})
	if r.Frames != 2 || r.Rects != 0 {
		t.Errorf("second frame: Frames = %d, Rects = %d", r.Frames, r.Rects)
	}
}

func TestDraw_Styles(t *testing.T) {
	w, circle, _ := newSceneWorld(t)

	tests := []struct {
		name       string
		opts       DrawOptions
		wantCircle Style
	}{
		{name: "unselected", opts: DrawOptions{}, wantCircle: StyleBody},
		{name: "selected", opts: DrawOptions{Selected: circle}, wantCircle: StyleSelected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRenderer{}
			Draw(r, w, tt.opts)

			if !r.cleared || r.frames != 1 {
				t.Fatalf("frame not cleared and presented: %+v", r)
			}
			if r.circles[0] != tt.wantCircle {
				t.Errorf("circle style = %v, want %v", r.circles[0], tt.wantCircle)
			}
			if r.polygons[0] != StyleStatic {
				t.Errorf("static box style = %v, want %v", r.polygons[0], StyleStatic)
			}
			for _, s := range r.circles[1:] {
				if s != StyleSoft {
					t.Errorf("particle style = %v, want %v", s, StyleSoft)
				}
			}
		})
	}
}

func TestWallSegment(t *testing.T) {
	bounds := physics.NewRect(10, 20, 100, 50)

	tests := []struct {
		name   string
		wall   physics.Wall
		wantA  physics.Vector2D
		wantB  physics.Vector2D
	}{
		{"bottom", physics.Wall{Side: physics.WallBottom, Coordinate: 70}, vec(10, 70), vec(110, 70)},
		{"top", physics.Wall{Side: physics.WallTop, Coordinate: 20}, vec(10, 20), vec(110, 20)},
		{"left", physics.Wall{Side: physics.WallLeft, Coordinate: 10}, vec(10, 20), vec(10, 70)},
		{"right", physics.Wall{Side: physics.WallRight, Coordinate: 110}, vec(110, 20), vec(110, 70)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := wallSegment(tt.wall, bounds)
			if a != tt.wantA || b != tt.wantB {
				t.Errorf("wallSegment() = %v, %v, want %v, %v", a, b, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestStyle_String(t *testing.T) {
	if StyleContact.String() != "contact" {
		t.Errorf("StyleContact.String() = %q", StyleContact.String())
	}
	if Style(200).String() != "unknown" {
		t.Errorf("out of range style = %q", Style(200).String())
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"point", 3, 3, 3, 3, 1},
		{"horizontal", 0, 0, 9, 0, 10},
		{"vertical_reversed", 2, 7, 2, 0, 8},
		{"diagonal", 0, 0, 5, 5, 6},
		{"steep", 0, 0, 2, 8, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[[2]int]bool)
			Line(tt.x0, tt.y0, tt.x1, tt.y1, func(x, y int) { seen[[2]int{x, y}] = true })

			if len(seen) != tt.want {
				t.Errorf("plotted %d cells, want %d", len(seen), tt.want)
			}
			if !seen[[2]int{tt.x0, tt.y0}] || !seen[[2]int{tt.x1, tt.y1}] {
				t.Error("line does not include both ends")
			}
		})
	}
}

func TestEllipse(t *testing.T) {
	t.Run("tiny_is_one_cell", func(t *testing.T) {
		n := 0
		Ellipse(5, 5, 0.2, 0.3, func(x, y int) {
			n++
			if x != 5 || y != 5 {
				t.Errorf("plotted (%d,%d)", x, y)
			}
		})
		if n != 1 {
			t.Errorf("plotted %d cells, want 1", n)
		}
	})

	t.Run("extremes", func(t *testing.T) {
		seen := make(map[[2]int]bool)
		Ellipse(20, 10, 8, 4, func(x, y int) { seen[[2]int{x, y}] = true })

		for _, p := range [][2]int{{28, 10}, {12, 10}, {20, 14}, {20, 6}} {
			if !seen[p] {
				t.Errorf("outline misses %v", p)
			}
		}
		if seen[[2]int{20, 10}] {
			t.Error("outline fills the centre")
		}
	})
}

func BenchmarkDraw(b *testing.B) {
	scene, _ := config.Preset("balls")
	w, err := engine.BuildWorld(scene)
	if err != nil {
		b.Fatalf("BuildWorld failed: %v", err)
	}
	w.Step()
	r := NewNullRenderer(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Draw(r, w, DrawOptions{Index: true, Contacts: true})
	}
}
