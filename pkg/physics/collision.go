// pkg/physics/collision.go
package physics

import "math"

// parallelEpsilon is the smallest segment-solver denominator treated as non-zero
const parallelEpsilon = 1e-12

// ContactMode selects how polygon pairs recover their contact data
type ContactMode uint8

const (
	// ContactSAT takes normal and depth from the separating axis test and
	// the contact point from the segment search.
	ContactSAT ContactMode = iota
	// ContactSegment derives everything from the segment search alone.
	ContactSegment
)

// ParseContactMode maps "sat" / "segment" to a ContactMode
func ParseContactMode(s string) (ContactMode, bool) {
	switch s {
	case "", "sat":
		return ContactSAT, true
	case "segment":
		return ContactSegment, true
	default:
		return ContactSAT, false
	}
}

func (m ContactMode) String() string {
	if m == ContactSegment {
		return "segment"
	}
	return "sat"
}

// Contact contains information about a collision between bodies A and B.
// Normal points from A towards B. It is rebuilt every step.
type Contact struct {
	BodyA uint64
	BodyB uint64

	Vertex Vector2D // deepest point of the penetrating feature
	Point  Vector2D // where that feature crosses the other body's surface
	Edge   Vector2D // direction of the crossed edge
	Normal Vector2D
	Depth  float64

	ArmA Vector2D // Point relative to A's centre of mass
	ArmB Vector2D // Point relative to B's centre of mass

	// Speed is the approach speed along Normal at detection time
	Speed float64
}

// Flip swaps the roles of A and B
func (c Contact) Flip() Contact {
	c.BodyA, c.BodyB = c.BodyB, c.BodyA
	c.ArmA, c.ArmB = c.ArmB, c.ArmA
	c.Normal = c.Normal.Neg()
	return c
}

// CollideCircles tests two circle bodies. Coincident centres have no
// defined normal and report no contact.
func CollideCircles(a, b *Body) (Contact, bool) {
	delta := b.Position.Sub(a.Position)
	distance := delta.Length()
	sum := a.Radius + b.Radius
	if distance >= sum || distance == 0 {
		return Contact{}, false
	}

	normal := delta.Scale(1 / distance)
	vertex := a.Position.Add(normal.Scale(a.Radius))
	point := b.Position.Sub(normal.Scale(b.Radius))
	return Contact{
		Vertex: vertex,
		Point:  point,
		Edge:   normal.Perp(),
		Normal: normal,
		Depth:  sum - distance,
		ArmA:   vertex.Sub(a.Position),
		ArmB:   point.Sub(b.Position),
	}, true
}

// SegmentIntersection intersects segments p1→p2 and p3→p4 using the
// parametric form. Parallel segments never intersect.
func SegmentIntersection(p1, p2, p3, p4 Vector2D) (Vector2D, bool) {
	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(denom) < parallelEpsilon {
		return Vector2D{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / denom
	u := -((p1.X-p2.X)*(p1.Y-p3.Y) - (p1.Y-p2.Y)*(p1.X-p3.X)) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vector2D{}, false
	}
	return Vector2D{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}

// projectOnto returns the extent of the points along axis
func projectOnto(points []Vector2D, axis Vector2D) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		d := p.Dot(axis)
		min = math.Min(min, d)
		max = math.Max(max, d)
	}
	return min, max
}

// SeparatingAxis runs the separating axis test on two convex world-space
// polygons. It returns the axis of least overlap and that overlap, or false
// when some axis separates them. Touching polygons count as separated.
func SeparatingAxis(va, vb []Vector2D) (Vector2D, float64, bool) {
	depth := math.Inf(1)
	var axis Vector2D

	for _, poly := range [2][]Vector2D{va, vb} {
		n := len(poly)
		for i := 0; i < n; i++ {
			normal := poly[(i+1)%n].Sub(poly[i]).Perp().Normalize()
			if normal.X == 0 && normal.Y == 0 {
				continue
			}

			minA, maxA := projectOnto(va, normal)
			minB, maxB := projectOnto(vb, normal)
			if maxA <= minB || maxB <= minA {
				return Vector2D{}, 0, false
			}

			overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
			if (minA <= minB && maxA >= maxB) || (minB <= minA && maxB >= maxA) {
				overlap += math.Min(math.Abs(minA-minB), math.Abs(maxA-maxB))
			}
			if overlap < depth {
				depth = overlap
				axis = normal
			}
		}
	}

	if math.IsInf(depth, 1) {
		return Vector2D{}, 0, false
	}
	return axis, depth, true
}

// segmentHit is the closest centre-to-vertex ray crossing found so far
type segmentHit struct {
	vertex   Vector2D
	point    Vector2D
	edge     Vector2D
	distance float64
}

// closestCrossing casts a segment from each polygon's centre to each of its
// vertices against every edge of the other polygon and keeps the crossing
// nearest to its vertex.
func closestCrossing(a, b *Body, va, vb []Vector2D) (segmentHit, bool) {
	best := segmentHit{distance: math.Inf(1)}
	found := false

	bodies := [2]*Body{a, b}
	verts := [2][]Vector2D{va, vb}
	for pass := 0; pass < 2; pass++ {
		origin := bodies[pass].Position
		own := verts[pass]
		other := verts[1-pass]
		for _, vertex := range own {
			for j := range other {
				p3 := other[j]
				p4 := other[(j+1)%len(other)]
				point, ok := SegmentIntersection(origin, vertex, p3, p4)
				if !ok {
					continue
				}
				d := point.Distance(vertex)
				if d < best.distance {
					best = segmentHit{
						vertex:   vertex,
						point:    point,
						edge:     p4.Sub(p3).Normalize(),
						distance: d,
					}
					found = true
				}
			}
		}
	}
	return best, found
}

// orientNormal flips n so it points from a towards b
func orientNormal(n Vector2D, a, b *Body) Vector2D {
	if n.Dot(b.Position.Sub(a.Position)) < 0 {
		return n.Neg()
	}
	return n
}

// supportMidpoint returns a contact point for overlapping polygons when no
// centre-to-vertex ray crosses an edge (e.g. deep containment): the midpoint
// between A's furthest vertex along n and B's furthest vertex against n.
func supportMidpoint(va, vb []Vector2D, n Vector2D) Vector2D {
	sa, sb := va[0], vb[0]
	for _, v := range va[1:] {
		if v.Dot(n) > sa.Dot(n) {
			sa = v
		}
	}
	for _, v := range vb[1:] {
		if v.Dot(n) < sb.Dot(n) {
			sb = v
		}
	}
	return sa.Add(sb).Scale(0.5)
}

// CollidePolygonsSAT detects overlap with the separating axis theorem and
// recovers the contact location from the segment search. Both polygons
// must be convex.
func CollidePolygonsSAT(a, b *Body) (Contact, bool) {
	va := a.WorldVertices(nil)
	vb := b.WorldVertices(nil)
	if len(va) < 3 || len(vb) < 3 {
		return Contact{}, false
	}

	axis, depth, ok := SeparatingAxis(va, vb)
	if !ok {
		return Contact{}, false
	}
	normal := orientNormal(axis, a, b)

	c := Contact{Normal: normal, Depth: depth, Edge: normal.Perp()}
	if hit, found := closestCrossing(a, b, va, vb); found {
		c.Vertex = hit.vertex
		c.Point = hit.point
		c.Edge = hit.edge
	} else {
		c.Point = supportMidpoint(va, vb, normal)
		c.Vertex = c.Point
	}
	c.ArmA = c.Point.Sub(a.Position)
	c.ArmB = c.Point.Sub(b.Position)
	return c, true
}

// CollidePolygonsSegment detects polygon contact purely from edge crossings.
// The normal is perpendicular to the crossed edge and the depth is how far
// the vertex sits past that edge.
func CollidePolygonsSegment(a, b *Body) (Contact, bool) {
	va := a.WorldVertices(nil)
	vb := b.WorldVertices(nil)
	if len(va) < 3 || len(vb) < 3 {
		return Contact{}, false
	}

	hit, found := closestCrossing(a, b, va, vb)
	if !found {
		return Contact{}, false
	}
	normal := orientNormal(hit.edge.Perp(), a, b)
	depth := math.Abs(hit.point.Sub(hit.vertex).Dot(normal))
	return Contact{
		Vertex: hit.vertex,
		Point:  hit.point,
		Edge:   hit.edge,
		Normal: normal,
		Depth:  depth,
		ArmA:   hit.point.Sub(a.Position),
		ArmB:   hit.point.Sub(b.Position),
	}, true
}

// closestOnSegment returns the point of segment a→b nearest to p
func closestOnSegment(p, a, b Vector2D) Vector2D {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

// CollideCirclePolygon tests circle a against convex polygon b. A centre
// inside the polygon is pushed out through the nearest edge.
func CollideCirclePolygon(a, b *Body) (Contact, bool) {
	verts := b.WorldVertices(nil)
	n := len(verts)
	if n < 3 {
		return Contact{}, false
	}

	winding := 1.0
	if SignedArea(verts) < 0 {
		winding = -1
	}

	center := a.Position
	inside := true
	minDist := math.Inf(1)
	var closest, nearestEdge Vector2D
	for i := 0; i < n; i++ {
		p1, p2 := verts[i], verts[(i+1)%n]
		if winding*p2.Sub(p1).Cross(center.Sub(p1)) < 0 {
			inside = false
		}
		cp := closestOnSegment(center, p1, p2)
		if d := cp.Distance(center); d < minDist {
			minDist = d
			closest = cp
			nearestEdge = p2.Sub(p1)
		}
	}

	var normal Vector2D
	var depth float64
	if inside || minDist == 0 {
		outward := nearestEdge.Perp().Normalize()
		if outward.Dot(closest.Sub(b.Position)) < 0 {
			outward = outward.Neg()
		}
		if outward.X == 0 && outward.Y == 0 {
			return Contact{}, false
		}
		normal = outward.Neg()
		depth = a.Radius + minDist
	} else {
		if minDist >= a.Radius {
			return Contact{}, false
		}
		normal = closest.Sub(center).Scale(1 / minDist)
		depth = a.Radius - minDist
	}

	vertex := center.Add(normal.Scale(a.Radius))
	return Contact{
		Vertex: vertex,
		Point:  closest,
		Edge:   nearestEdge.Normalize(),
		Normal: normal,
		Depth:  depth,
		ArmA:   closest.Sub(a.Position),
		ArmB:   closest.Sub(b.Position),
	}, true
}

// CollideWall tests body a against wall body b. The normal points from the
// body into the wall.
func CollideWall(a, b *Body) (Contact, bool) {
	wall := b.Wall
	out := wall.Normal()

	switch a.Kind {
	case ShapeCircle:
		depth := wall.Penetration(a.Position) + a.Radius
		if depth <= 0 {
			return Contact{}, false
		}
		vertex := a.Position.Sub(out.Scale(a.Radius))
		return Contact{
			Vertex: vertex,
			Point:  vertex.Add(out.Scale(depth)),
			Edge:   out.Perp(),
			Normal: out.Neg(),
			Depth:  depth,
			ArmA:   vertex.Sub(a.Position),
		}, true

	case ShapePolygon:
		var deepest, sum Vector2D
		depth := 0.0
		count := 0
		for _, v := range a.WorldVertices(nil) {
			pen := wall.Penetration(v)
			if pen <= 0 {
				continue
			}
			if pen > depth {
				depth = pen
				deepest = v
			}
			sum = sum.Add(v)
			count++
		}
		if count == 0 {
			return Contact{}, false
		}
		// several vertices through the wall act as one contact at their mean
		point := sum.Scale(1 / float64(count))
		return Contact{
			Vertex: deepest,
			Point:  point,
			Edge:   out.Perp(),
			Normal: out.Neg(),
			Depth:  depth,
			ArmA:   point.Sub(a.Position),
		}, true
	}
	return Contact{}, false
}

// narrowPhase is indexed by [kindA][kindB]
type narrowPhase func(a, b *Body, mode ContactMode) (Contact, bool)

var narrowPhaseTable = [3][3]narrowPhase{
	ShapeCircle: {
		ShapeCircle:  func(a, b *Body, _ ContactMode) (Contact, bool) { return CollideCircles(a, b) },
		ShapePolygon: func(a, b *Body, _ ContactMode) (Contact, bool) { return CollideCirclePolygon(a, b) },
		ShapeWall:    func(a, b *Body, _ ContactMode) (Contact, bool) { return CollideWall(a, b) },
	},
	ShapePolygon: {
		ShapeCircle:  flipped(func(a, b *Body, _ ContactMode) (Contact, bool) { return CollideCirclePolygon(a, b) }),
		ShapePolygon: collidePolygons,
		ShapeWall:    func(a, b *Body, _ ContactMode) (Contact, bool) { return CollideWall(a, b) },
	},
	ShapeWall: {
		ShapeCircle:  flipped(func(a, b *Body, _ ContactMode) (Contact, bool) { return CollideWall(a, b) }),
		ShapePolygon: flipped(func(a, b *Body, _ ContactMode) (Contact, bool) { return CollideWall(a, b) }),
	},
}

func collidePolygons(a, b *Body, mode ContactMode) (Contact, bool) {
	if mode == ContactSegment {
		return CollidePolygonsSegment(a, b)
	}
	return CollidePolygonsSAT(a, b)
}

// flipped adapts a test written for (x, y) to be called as (y, x)
func flipped(fn narrowPhase) narrowPhase {
	return func(a, b *Body, mode ContactMode) (Contact, bool) {
		c, ok := fn(b, a, mode)
		if !ok {
			return Contact{}, false
		}
		return c.Flip(), true
	}
}

// Collide runs the exact test matching the pair's shapes. A body is never
// tested against itself, and pairs with no test (wall/wall) never collide.
func Collide(a, b *Body, mode ContactMode) (Contact, bool) {
	if a == b || a.Kind > ShapeWall || b.Kind > ShapeWall {
		return Contact{}, false
	}
	fn := narrowPhaseTable[a.Kind][b.Kind]
	if fn == nil {
		return Contact{}, false
	}
	c, ok := fn(a, b, mode)
	if !ok || !c.Normal.IsFinite() || math.IsNaN(c.Depth) {
		return Contact{}, false
	}
	c.Speed = a.PointVelocity(c.ArmA).Sub(b.PointVelocity(c.ArmB)).Dot(c.Normal)
	return c, true
}
