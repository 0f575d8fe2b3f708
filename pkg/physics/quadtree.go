// pkg/physics/quadtree.go
package physics

// QuadItem is an entry stored in the quadtree. ID is an index owned by the
// caller; the tree never dereferences it.
type QuadItem struct {
	ID     int
	Bounds Rect
}

// quadNode is a node of the arena. A leaf has firstChild == -1, an internal
// node owns the four consecutive nodes starting at firstChild.
type quadNode struct {
	boundary   Rect
	items      []QuadItem
	firstChild int32
}

// QuadTree for spatial partitioning of bounding boxes. Nodes live in a
// single slice and are addressed by index, so rebuilding every step reuses
// the same storage.
type QuadTree struct {
	nodes    []quadNode
	capacity int
	minArea  float64
	count    int
}

// NewQuadTree creates a new quad tree with the given boundary, per-node
// capacity and minimum subdivision area
func NewQuadTree(boundary Rect, capacity int, minArea float64) *QuadTree {
	qt := &QuadTree{}
	qt.Resize(boundary, capacity, minArea)
	return qt
}

// Resize resets the tree to a single empty leaf covering boundary.
// Previously allocated node storage is kept for reuse.
func (qt *QuadTree) Resize(boundary Rect, capacity int, minArea float64) {
	if capacity < 1 {
		capacity = 1
	}
	qt.capacity = capacity
	qt.minArea = minArea
	qt.count = 0
	qt.nodes = qt.nodes[:0]
	qt.allocNode(boundary)
}

// Clear empties the tree while keeping its boundary and tuning
func (qt *QuadTree) Clear() {
	qt.Resize(qt.Boundary(), qt.capacity, qt.minArea)
}

// Boundary returns the root region
func (qt *QuadTree) Boundary() Rect {
	if len(qt.nodes) == 0 {
		return Rect{}
	}
	return qt.nodes[0].boundary
}

// Len returns the number of stored items
func (qt *QuadTree) Len() int {
	return qt.count
}

// NodeCount returns the number of nodes currently in use
func (qt *QuadTree) NodeCount() int {
	return len(qt.nodes)
}

func (qt *QuadTree) allocNode(boundary Rect) int32 {
	idx := len(qt.nodes)
	if idx < cap(qt.nodes) {
		qt.nodes = qt.nodes[:idx+1]
		n := &qt.nodes[idx]
		n.boundary = boundary
		n.items = n.items[:0]
		n.firstChild = -1
	} else {
		qt.nodes = append(qt.nodes, quadNode{boundary: boundary, firstChild: -1})
	}
	return int32(idx)
}

// Insert stores id with the given bounds. It returns false when the bounds
// do not fit completely inside the root boundary.
func (qt *QuadTree) Insert(id int, bounds Rect) bool {
	if len(qt.nodes) == 0 || !qt.nodes[0].boundary.ContainsRect(bounds) {
		return false
	}
	qt.insert(0, QuadItem{ID: id, Bounds: bounds})
	qt.count++
	return true
}

func (qt *QuadTree) insert(idx int32, item QuadItem) {
	for {
		node := &qt.nodes[idx]
		if node.firstChild < 0 {
			if len(node.items) < qt.capacity || node.boundary.Area() < qt.minArea {
				node.items = append(node.items, item)
				return
			}
			qt.subdivide(idx)
		}

		child := qt.childFor(idx, item.Bounds)
		if child < 0 {
			// straddles a quadrant boundary, stays here
			node = &qt.nodes[idx]
			node.items = append(node.items, item)
			return
		}
		idx = child
	}
}

// childFor returns the first child of idx fully containing bounds, or -1
func (qt *QuadTree) childFor(idx int32, bounds Rect) int32 {
	first := qt.nodes[idx].firstChild
	for i := int32(0); i < 4; i++ {
		if qt.nodes[first+i].boundary.ContainsRect(bounds) {
			return first + i
		}
	}
	return -1
}

// subdivide splits a leaf into four quadrants and pushes every item that
// fits entirely inside one of them down a level.
func (qt *QuadTree) subdivide(idx int32) {
	quads := qt.nodes[idx].boundary.Quadrants()
	first := qt.allocNode(quads[0])
	qt.allocNode(quads[1])
	qt.allocNode(quads[2])
	qt.allocNode(quads[3])

	// allocNode may have grown the slice, re-take the pointer
	node := &qt.nodes[idx]
	node.firstChild = first

	kept := node.items[:0]
	for _, item := range node.items {
		child := qt.childFor(idx, item.Bounds)
		if child < 0 {
			kept = append(kept, item)
			continue
		}
		qt.nodes[child].items = append(qt.nodes[child].items, item)
	}
	node.items = kept
}

// Query appends to out the ID of every item whose bounds intersect area
// and returns the extended slice.
func (qt *QuadTree) Query(area Rect, out []int) []int {
	if len(qt.nodes) == 0 {
		return out
	}
	return qt.query(0, area, out)
}

func (qt *QuadTree) query(idx int32, area Rect, out []int) []int {
	node := &qt.nodes[idx]
	if !node.boundary.Intersects(area) {
		return out
	}
	for _, item := range node.items {
		if item.Bounds.Intersects(area) {
			out = append(out, item.ID)
		}
	}
	if node.firstChild < 0 {
		return out
	}
	for i := int32(0); i < 4; i++ {
		out = qt.query(node.firstChild+i, area, out)
	}
	return out
}

// Walk visits every node in depth-first order with its depth, boundary and
// number of items held directly by that node.
func (qt *QuadTree) Walk(fn func(boundary Rect, depth, items int)) {
	if len(qt.nodes) == 0 {
		return
	}
	qt.walk(0, 0, fn)
}

func (qt *QuadTree) walk(idx int32, depth int, fn func(Rect, int, int)) {
	node := qt.nodes[idx]
	fn(node.boundary, depth, len(node.items))
	if node.firstChild < 0 {
		return
	}
	for i := int32(0); i < 4; i++ {
		qt.walk(node.firstChild+i, depth+1, fn)
	}
}
