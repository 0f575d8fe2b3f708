// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-physics2d/pkg/engine"
	"github.com/opd-ai/go-physics2d/pkg/logging"
	"github.com/opd-ai/go-physics2d/pkg/physics"
)

// Style selects how a primitive is drawn
type Style uint8

const (
	StyleBody Style = iota
	StyleStatic
	StyleSelected
	StyleSoft
	StyleContact
	StyleIndex
	StyleWall

	styleCount
)

var styleNames = [styleCount]string{"body", "static", "selected", "soft", "contact", "index", "wall"}

func (s Style) String() string {
	if s < styleCount {
		return styleNames[s]
	}
	return "unknown"
}

// Renderer draws world-space primitives. Implementations map world
// coordinates onto their own surface.
type Renderer interface {
	Clear()
	DrawCircle(center physics.Vector2D, radius float64, style Style)
	DrawPolygon(vertices []physics.Vector2D, style Style)
	DrawSegment(a, b physics.Vector2D, style Style)
	DrawRect(r physics.Rect, style Style)
	Present()
}

// DrawOptions toggles the debug overlays
type DrawOptions struct {
	Index    bool // quadtree node boundaries
	Contacts bool // contact points and normals from the last step
	Selected engine.BodyID
}

// contactMarkLength is the world-space length of a drawn contact normal
const contactMarkLength = 8

// Draw renders one frame of w onto r
func Draw(r Renderer, w *engine.World, opts DrawOptions) {
	r.Clear()

	if opts.Index {
		for _, rect := range w.IndexBoundaries() {
			r.DrawRect(rect, StyleIndex)
		}
	}

	bounds := w.Bounds()
	var scratch []physics.Vector2D
	w.EachBody(func(id engine.BodyID, b *physics.Body) {
		style := StyleBody
		switch {
		case id == opts.Selected:
			style = StyleSelected
		case b.IsStatic():
			style = StyleStatic
		}

		switch b.Kind {
		case physics.ShapeCircle:
			r.DrawCircle(b.Position, b.Radius, style)
			r.DrawSegment(b.Position, b.Position.Add(physics.FromAngle(b.Theta, b.Radius)), style)
		case physics.ShapePolygon:
			scratch = b.WorldVertices(scratch[:0])
			r.DrawPolygon(scratch, style)
		case physics.ShapeWall:
			a, c := wallSegment(b.Wall, bounds)
			r.DrawSegment(a, c, StyleWall)
		}
	})

	for _, soft := range w.SoftBodies() {
		for _, st := range soft.Sticks {
			r.DrawSegment(soft.Particles[st.A].Position, soft.Particles[st.B].Position, StyleSoft)
		}
		for i := range soft.Particles {
			p := &soft.Particles[i]
			r.DrawCircle(p.Position, p.Radius, StyleSoft)
		}
	}

	if opts.Contacts {
		for _, c := range w.Contacts() {
			r.DrawCircle(c.Point, 1, StyleContact)
			r.DrawSegment(c.Point, c.Point.Add(c.Normal.Scale(contactMarkLength)), StyleContact)
		}
	}

	r.Present()
}

// wallSegment clips an infinite wall to the visible bounds
func wallSegment(wall physics.Wall, bounds physics.Rect) (physics.Vector2D, physics.Vector2D) {
	lo, hi := bounds.Pos, bounds.Max()
	switch wall.Side {
	case physics.WallLeft, physics.WallRight:
		return physics.Vector2D{X: wall.Coordinate, Y: lo.Y}, physics.Vector2D{X: wall.Coordinate, Y: hi.Y}
	default:
		return physics.Vector2D{X: lo.X, Y: wall.Coordinate}, physics.Vector2D{X: hi.X, Y: wall.Coordinate}
	}
}

// NullRenderer counts draw calls and logs them at debug level. It is used
// by headless runs and tests.
type NullRenderer struct {
	logger *logging.Logger

	Frames   int
	Circles  int
	Polygons int
	Segments int
	Rects    int
}

// NewNullRenderer creates a NullRenderer. A nil logger discards output.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.Circles, d.Polygons, d.Segments, d.Rects = 0, 0, 0, 0
}

// DrawCircle implements Renderer.
func (d *NullRenderer) DrawCircle(center physics.Vector2D, radius float64, style Style) {
	d.Circles++
}

// DrawPolygon implements Renderer.
func (d *NullRenderer) DrawPolygon(vertices []physics.Vector2D, style Style) {
	d.Polygons++
}

// DrawSegment implements Renderer.
func (d *NullRenderer) DrawSegment(a, b physics.Vector2D, style Style) {
	d.Segments++
}

// DrawRect implements Renderer.
func (d *NullRenderer) DrawRect(r physics.Rect, style Style) {
	d.Rects++
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.Frames++
	d.logger.Debug(context.Background(), "Frame presented",
		"frame", d.Frames,
		"circles", d.Circles,
		"polygons", d.Polygons,
		"segments", d.Segments,
		"rects", d.Rects,
	)
}

var _ Renderer = (*NullRenderer)(nil)
