// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-physics2d/pkg/physics"
	"github.com/opd-ai/go-physics2d/pkg/render"
)

const (
	lineWidth   = 1.5
	borderWidth = 1
)

// RenderSink receives pooled shape entities. *common.RenderSystem
// satisfies it.
type RenderSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

type shape struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

type shapeKind uint8

const (
	kindCircle shapeKind = iota
	kindPolygon
	kindRect
)

// poolKey separates entities by drawable kind and depth. The render system
// picks a shader and depth when an entity is added, so neither changes
// while an entity is pooled.
type poolKey struct {
	kind  shapeKind
	depth float32
}

type shapePool struct {
	key    poolKey
	shapes []*shape
	used   int
}

func (p *shapePool) next(sink RenderSink) *shape {
	if p.used < len(p.shapes) {
		s := p.shapes[p.used]
		p.used++
		s.Hidden = false
		s.Rotation = 0
		return s
	}

	s := &shape{BasicEntity: ecs.NewBasic()}
	switch p.key.kind {
	case kindCircle:
		s.Drawable = common.Circle{}
	case kindPolygon:
		s.Drawable = common.ComplexTriangles{}
	default:
		s.Drawable = common.Rectangle{}
	}
	s.StartZIndex = p.key.depth
	sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	p.shapes = append(p.shapes, s)
	p.used++
	return s
}

func (p *shapePool) hideUnused() {
	for _, s := range p.shapes[p.used:] {
		s.Hidden = true
	}
}

// EngoRenderer implements render.Renderer on top of the engo render
// system. Each frame reuses the entities of the previous one and hides
// whatever is left over.
type EngoRenderer struct {
	sink   RenderSink
	camera *Camera

	pools map[poolKey]*shapePool
}

// NewEngoRenderer creates a renderer feeding sink through camera
func NewEngoRenderer(sink RenderSink, camera *Camera) *EngoRenderer {
	return &EngoRenderer{
		sink:   sink,
		camera: camera,
		pools:  make(map[poolKey]*shapePool),
	}
}

func (r *EngoRenderer) next(kind shapeKind, style render.Style) *shape {
	key := poolKey{kind: kind, depth: styleDepth(style)}
	p, ok := r.pools[key]
	if !ok {
		p = &shapePool{key: key}
		r.pools[key] = p
	}
	return p.next(r.sink)
}

// Camera returns the renderer's camera
func (r *EngoRenderer) Camera() *Camera {
	return r.camera
}

// Clear implements render.Renderer
func (r *EngoRenderer) Clear() {
	for _, p := range r.pools {
		p.used = 0
	}
}

// DrawCircle implements render.Renderer
func (r *EngoRenderer) DrawCircle(center physics.Vector2D, radius float64, style render.Style) {
	s := r.next(kindCircle, style)
	d := float32(2 * radius * r.camera.Scale())
	c := r.camera.WorldToScreen(center)

	s.Drawable = common.Circle{BorderWidth: borderWidth, BorderColor: styleColor(style)}
	s.Color = fillColor(style)
	s.Position = engo.Point{X: c.X - d/2, Y: c.Y - d/2}
	s.Width, s.Height = d, d
}

// DrawPolygon implements render.Renderer
func (r *EngoRenderer) DrawPolygon(vertices []physics.Vector2D, style render.Style) {
	screen := make([]engo.Point, len(vertices))
	for i, v := range vertices {
		screen[i] = r.camera.WorldToScreen(v)
	}
	pos, size, points, ok := fanTriangles(screen)
	if !ok {
		return
	}

	s := r.next(kindPolygon, style)
	s.Drawable = common.ComplexTriangles{Points: points, BorderWidth: borderWidth, BorderColor: styleColor(style)}
	s.Color = fillColor(style)
	s.Position = pos
	s.Width, s.Height = size.X, size.Y
}

// DrawSegment implements render.Renderer
func (r *EngoRenderer) DrawSegment(a, b physics.Vector2D, style render.Style) {
	pa, pb := r.camera.WorldToScreen(a), r.camera.WorldToScreen(b)
	dx, dy := float64(pb.X-pa.X), float64(pb.Y-pa.Y)

	s := r.next(kindRect, style)
	s.Drawable = common.Rectangle{}
	s.Color = styleColor(style)
	s.Position = pa
	s.Width = float32(math.Hypot(dx, dy))
	s.Height = lineWidth
	s.Rotation = float32(math.Atan2(dy, dx) * 180 / math.Pi)
}

// DrawRect implements render.Renderer
func (r *EngoRenderer) DrawRect(rect physics.Rect, style render.Style) {
	lo, hi := r.camera.WorldToScreen(rect.Pos), r.camera.WorldToScreen(rect.Max())

	s := r.next(kindRect, style)
	s.Drawable = common.Rectangle{BorderWidth: borderWidth, BorderColor: styleColor(style)}
	s.Color = color.Transparent
	s.Position = lo
	s.Width, s.Height = hi.X-lo.X, hi.Y-lo.Y
}

// Present implements render.Renderer
func (r *EngoRenderer) Present() {
	for _, p := range r.pools {
		p.hideUnused()
	}
}

// Visible returns how many entities the last frame used
func (r *EngoRenderer) Visible() int {
	n := 0
	for _, p := range r.pools {
		n += p.used
	}
	return n
}

// Pooled returns how many entities have been handed to the sink
func (r *EngoRenderer) Pooled() int {
	n := 0
	for _, p := range r.pools {
		n += len(p.shapes)
	}
	return n
}

// Release removes every pooled entity from the sink
func (r *EngoRenderer) Release() {
	for _, p := range r.pools {
		for _, s := range p.shapes {
			r.sink.Remove(s.BasicEntity)
		}
	}
	r.pools = make(map[poolKey]*shapePool)
}

// fanTriangles triangulates a convex polygon given in pixels. Points are
// returned relative to the bounding box, as ComplexTriangles expects.
func fanTriangles(poly []engo.Point) (engo.Point, engo.Point, []engo.Point, bool) {
	if len(poly) < 3 {
		return engo.Point{}, engo.Point{}, nil, false
	}

	lo, hi := poly[0], poly[0]
	for _, p := range poly[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	size := engo.Point{X: hi.X - lo.X, Y: hi.Y - lo.Y}
	if size.X <= 0 || size.Y <= 0 {
		return engo.Point{}, engo.Point{}, nil, false
	}

	rel := func(p engo.Point) engo.Point {
		return engo.Point{X: (p.X - lo.X) / size.X, Y: (p.Y - lo.Y) / size.Y}
	}
	points := make([]engo.Point, 0, 3*(len(poly)-2))
	for i := 1; i < len(poly)-1; i++ {
		points = append(points, rel(poly[0]), rel(poly[i]), rel(poly[i+1]))
	}
	return lo, size, points, true
}

func styleColor(style render.Style) color.RGBA {
	switch style {
	case render.StyleStatic:
		return color.RGBA{150, 150, 150, 255}
	case render.StyleSelected:
		return color.RGBA{255, 220, 0, 255}
	case render.StyleSoft:
		return color.RGBA{80, 220, 120, 255}
	case render.StyleContact:
		return color.RGBA{255, 40, 40, 255}
	case render.StyleIndex:
		return color.RGBA{60, 90, 200, 255}
	case render.StyleWall:
		return color.RGBA{200, 200, 200, 255}
	default:
		return color.RGBA{235, 235, 235, 255}
	}
}

func fillColor(style render.Style) color.NRGBA {
	c := styleColor(style)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 70}
}

// styleDepth orders overlays above bodies and the index below everything
func styleDepth(style render.Style) float32 {
	switch style {
	case render.StyleIndex:
		return 0
	case render.StyleWall, render.StyleStatic:
		return 1
	case render.StyleSoft:
		return 3
	case render.StyleSelected:
		return 4
	case render.StyleContact:
		return 5
	default:
		return 2
	}
}

var _ render.Renderer = (*EngoRenderer)(nil)
