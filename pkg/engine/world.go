// pkg/engine/world.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opd-ai/go-physics2d/pkg/config"
	"github.com/opd-ai/go-physics2d/pkg/event"
	"github.com/opd-ai/go-physics2d/pkg/logging"
	"github.com/opd-ai/go-physics2d/pkg/physics"
	"github.com/opd-ai/go-physics2d/pkg/validation"
)

// ErrInvalidBody wraps every validation failure returned by AddBody and
// AddSoftBody
var ErrInvalidBody = errors.New("invalid body")

// BodyID is a handle to a body in a World: the arena slot in the low 32
// bits and the slot's generation in the high 32 bits. Removing a body bumps
// the generation so stale handles stop resolving.
type BodyID uint64

func makeBodyID(slot, generation uint32) BodyID {
	return BodyID(uint64(generation)<<32 | uint64(slot))
}

// Slot returns the arena index part of the handle
func (id BodyID) Slot() uint32 { return uint32(id) }

// Generation returns the generation part of the handle
func (id BodyID) Generation() uint32 { return uint32(id >> 32) }

func (id BodyID) String() string {
	return fmt.Sprintf("%d:%d", id.Slot(), id.Generation())
}

// slot is one arena entry
type slot struct {
	body       physics.Body
	generation uint32
	alive      bool
}

// pair is a candidate pair of arena slots
type pair struct {
	a, b int
}

// StepStats describes the work done by the most recent step
type StepStats struct {
	Tick       uint64
	Bodies     int
	Candidates int
	Contacts   int
	Overflow   int
}

// World owns every body, the broad phase index and the fixed-step clock.
// It is not safe for concurrent use; drive it from one goroutine.
type World struct {
	cfg         config.SimulationConfig
	mode        physics.ContactMode
	restitution physics.Restitution
	env         physics.Environment
	verlet      physics.VerletParams
	bounds      physics.Rect

	stepper *Stepper
	tree    *physics.QuadTree
	slots   []slot
	free    []uint32
	walls   []int
	soft    []*physics.SoftBody

	// per-step scratch
	pairs      []pair
	overflow   []int
	inOverflow []bool
	query      []int
	contacts   []physics.Contact

	tick   uint64
	stats  StepStats
	paused bool

	ctx      context.Context
	logger   *logging.Logger
	eventBus *event.Bus
}

// Option configures a World
type Option func(*World)

// WithBounds sets the region covered by the quadtree root. Bodies outside
// it still collide through the overflow list.
func WithBounds(bounds physics.Rect) Option {
	return func(w *World) { w.bounds = bounds }
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(w *World) { w.logger = logger }
}

// WithEventBus shares an existing bus instead of creating one
func WithEventBus(bus *event.Bus) Option {
	return func(w *World) { w.eventBus = bus }
}

// WithContext sets the context used for logging. A run ID is added when
// the context has none.
func WithContext(ctx context.Context) Option {
	return func(w *World) { w.ctx = ctx }
}

// DefaultBounds is the quadtree root used when no bounds are given
var DefaultBounds = physics.NewRect(0, 0, 800, 600)

// NewWorld creates an empty world with the given tuning
func NewWorld(cfg config.SimulationConfig, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid simulation config")
	}
	mode, _ := physics.ParseContactMode(cfg.ContactMode)

	w := &World{
		cfg:    cfg,
		mode:   mode,
		bounds: DefaultBounds,
		restitution: physics.Restitution{
			Rigid:  cfg.Restitution,
			Circle: cfg.CircleRestitution,
			Wall:   cfg.WallRestitution,
		},
		env: physics.Environment{
			Gravity:     cfg.Gravity,
			LinearDrag:  cfg.LinearDrag,
			AngularDrag: cfg.AngularDrag,
		},
		verlet: physics.VerletParams{
			Gravity:        cfg.Gravity,
			Damping:        cfg.Verlet.Damping,
			GroundFriction: cfg.Verlet.GroundFriction,
			Stiffness:      cfg.Verlet.Stiffness,
			Iterations:     cfg.Verlet.Iterations,
		},
		stepper: NewStepper(cfg.StepDuration(), time.Duration(cfg.MaxFrameDelta)),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.ctx == nil {
		w.ctx = context.Background()
	}
	if logging.GetRunID(w.ctx) == "" {
		w.ctx = logging.WithRunID(w.ctx, "")
	}
	if w.logger == nil {
		w.logger = logging.NewNopLogger()
	}
	if w.eventBus == nil {
		w.eventBus = event.NewEventBus()
	}
	w.tree = physics.NewQuadTree(w.bounds, cfg.Quadtree.Capacity, cfg.Quadtree.MinArea)

	return w, nil
}

// EventBus returns the bus the world publishes on
func (w *World) EventBus() *event.Bus {
	return w.eventBus
}

// Config returns the simulation tuning
func (w *World) Config() config.SimulationConfig {
	return w.cfg
}

// Bounds returns the quadtree root region
func (w *World) Bounds() physics.Rect {
	return w.bounds
}

// Context returns the logging context, tagged with the run ID
func (w *World) Context() context.Context {
	return w.ctx
}

// AddBody validates b and adds a copy of it to the world
func (w *World) AddBody(b physics.Body) (BodyID, error) {
	if err := validation.ValidateBody(&b); err != nil {
		w.logger.Warn(w.ctx, "body rejected", "kind", b.Kind.String(), "error", err.Error())
		return 0, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	// The caller keeps its slice; the world owns its own vertices
	if b.Vertices != nil {
		b.Vertices = append([]physics.Vector2D(nil), b.Vertices...)
	}
	if b.Kind == physics.ShapePolygon && b.Inertia == 0 && !b.IsStatic() {
		b.Inertia = physics.PolygonInertia(b.Mass, b.Vertices)
	}

	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{generation: 1})
	}
	s := &w.slots[idx]
	s.body = b
	s.alive = true
	if b.Kind == physics.ShapeWall {
		w.walls = append(w.walls, int(idx))
	}

	id := makeBodyID(idx, s.generation)
	w.logger.Info(w.ctx, "body added", "id", id.String(), "kind", b.Kind.String())
	w.eventBus.Publish(event.NewBodyEvent(event.BodyAdded, w, uint64(id), b.Kind))
	return id, nil
}

// RemoveBody removes the body, invalidating id. It reports false for stale
// or unknown handles.
func (w *World) RemoveBody(id BodyID) bool {
	idx, ok := w.resolve(id)
	if !ok {
		return false
	}
	s := &w.slots[idx]
	kind := s.body.Kind
	s.alive = false
	s.body = physics.Body{}
	s.generation++
	w.free = append(w.free, uint32(idx))

	if kind == physics.ShapeWall {
		for i, wi := range w.walls {
			if wi == idx {
				w.walls = append(w.walls[:i], w.walls[i+1:]...)
				break
			}
		}
	}

	w.logger.Info(w.ctx, "body removed", "id", id.String(), "kind", kind.String())
	w.eventBus.Publish(event.NewBodyEvent(event.BodyRemoved, w, uint64(id), kind))
	return true
}

// AddSoftBody validates and adds a verlet soft body
func (w *World) AddSoftBody(s *physics.SoftBody) error {
	if err := validation.ValidateSoftBody(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	w.soft = append(w.soft, s)
	w.logger.Info(w.ctx, "soft body added", "particles", len(s.Particles), "sticks", len(s.Sticks))
	return nil
}

// Clear removes every body and soft body and resets the clock. Handles
// issued before Clear no longer resolve.
func (w *World) Clear() {
	for i := range w.slots {
		s := &w.slots[i]
		if s.alive {
			s.alive = false
			s.body = physics.Body{}
			s.generation++
			w.free = append(w.free, uint32(i))
		}
	}
	w.walls = w.walls[:0]
	w.soft = nil
	w.contacts = w.contacts[:0]
	w.tick = 0
	w.stats = StepStats{}
	w.stepper.Reset()
	w.tree.Clear()

	w.logger.Info(w.ctx, "world cleared")
	w.eventBus.Publish(&event.BaseEvent{EventType: event.SimulationReset, Source: w})
}

func (w *World) resolve(id BodyID) (int, bool) {
	idx := int(id.Slot())
	if idx >= len(w.slots) {
		return 0, false
	}
	s := &w.slots[idx]
	if !s.alive || s.generation != id.Generation() {
		return 0, false
	}
	return idx, true
}

// Body returns the live body for id. The pointer stays valid until the
// next AddBody; callers may apply forces or nudge velocities through it.
func (w *World) Body(id BodyID) (*physics.Body, bool) {
	idx, ok := w.resolve(id)
	if !ok {
		return nil, false
	}
	return &w.slots[idx].body, true
}

// EachBody calls fn for every body in slot order
func (w *World) EachBody(fn func(id BodyID, b *physics.Body)) {
	for i := range w.slots {
		s := &w.slots[i]
		if s.alive {
			fn(makeBodyID(uint32(i), s.generation), &s.body)
		}
	}
}

// BodyIDs returns the handles of every body in slot order
func (w *World) BodyIDs() []BodyID {
	ids := make([]BodyID, 0, len(w.slots))
	w.EachBody(func(id BodyID, _ *physics.Body) {
		ids = append(ids, id)
	})
	return ids
}

// Len returns the number of bodies, walls included
func (w *World) Len() int {
	return len(w.slots) - len(w.free)
}

// SoftBodies returns the world's soft bodies
func (w *World) SoftBodies() []*physics.SoftBody {
	return w.soft
}

// IndexBoundaries returns every quadtree node boundary from the last step
func (w *World) IndexBoundaries() []physics.Rect {
	rects := make([]physics.Rect, 0, w.tree.NodeCount())
	w.tree.Walk(func(boundary physics.Rect, _, _ int) {
		rects = append(rects, boundary)
	})
	return rects
}

// Contacts returns a copy of the contacts detected by the last step
func (w *World) Contacts() []physics.Contact {
	out := make([]physics.Contact, len(w.contacts))
	copy(out, w.contacts)
	return out
}

// Stats returns the counters of the last step
func (w *World) Stats() StepStats {
	return w.stats
}

// Tick returns the number of steps run so far
func (w *World) Tick() uint64 {
	return w.tick
}

// Alpha returns the interpolation fraction between the last two steps
func (w *World) Alpha() float64 {
	return w.stepper.Alpha()
}

// StepDuration returns the fixed step length
func (w *World) StepDuration() time.Duration {
	return w.stepper.Step()
}

// Start marks the simulation as running and announces it
func (w *World) Start() {
	w.paused = false
	w.logger.Info(w.ctx, "simulation started", "tick_rate", w.cfg.TickRate, "bodies", w.Len())
	w.eventBus.Publish(&event.BaseEvent{EventType: event.SimulationStarted, Source: w})
}

// Stop pauses the simulation and announces it
func (w *World) Stop() {
	w.paused = true
	w.logger.Info(w.ctx, "simulation stopped", "tick", w.tick)
	w.eventBus.Publish(&event.BaseEvent{EventType: event.SimulationStopped, Source: w})
}

// Paused reports whether Advance is ignoring time
func (w *World) Paused() bool {
	return w.paused
}

// SetPaused freezes or resumes the clock without announcing it
func (w *World) SetPaused(paused bool) {
	w.paused = paused
}

// Advance feeds elapsed wall-clock time to the fixed-step clock and runs
// every whole step that fits. It returns the number of steps run.
func (w *World) Advance(elapsed time.Duration) int {
	if w.paused {
		return 0
	}
	return w.stepper.Advance(elapsed, w.Step)
}

// Step runs exactly one fixed step
func (w *World) Step() {
	dt := w.stepper.Step().Seconds()

	for i := range w.slots {
		if w.slots[i].alive {
			physics.IntegratePosition(&w.slots[i].body, dt)
		}
	}

	w.rebuildIndex()
	w.collectPairs()

	w.contacts = w.contacts[:0]
	passes := w.cfg.Iterations
	if passes < 1 {
		passes = 1
	}
	for pass := 0; pass < passes; pass++ {
		record := pass == 0
		w.solvePairs(record)
		w.solveWalls(record)
	}

	bodies := 0
	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive || s.body.Kind == physics.ShapeWall {
			continue
		}
		bodies++
		physics.AccumulateForces(&s.body, w.env)
		physics.IntegrateVelocity(&s.body, dt)
		physics.SettleIfResting(&s.body, w.cfg.RestThreshold)
	}

	if len(w.soft) > 0 {
		params := w.verlet
		if len(w.walls) > 0 {
			params.Bounds = w.bounds
		}
		for _, s := range w.soft {
			s.Step(dt, params)
		}
	}

	w.tick++
	w.stats = StepStats{
		Tick:       w.tick,
		Bodies:     bodies,
		Candidates: len(w.pairs),
		Contacts:   len(w.contacts),
		Overflow:   len(w.overflow),
	}
	w.publishStep()
}

// rebuildIndex refills the quadtree from scratch. Bodies that do not fit
// inside the root go to the overflow list.
func (w *World) rebuildIndex() {
	w.tree.Clear()
	w.overflow = w.overflow[:0]
	if cap(w.inOverflow) < len(w.slots) {
		w.inOverflow = make([]bool, len(w.slots))
	}
	w.inOverflow = w.inOverflow[:len(w.slots)]
	for i := range w.inOverflow {
		w.inOverflow[i] = false
	}

	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive || s.body.Kind == physics.ShapeWall {
			continue
		}
		if !w.tree.Insert(i, s.body.Bounds()) {
			w.overflow = append(w.overflow, i)
			w.inOverflow[i] = true
		}
	}
}

// collectPairs gathers the candidate pairs for this step. Each unordered
// pair appears once and pairs of two static bodies are skipped.
func (w *World) collectPairs() {
	w.pairs = w.pairs[:0]
	margin := w.cfg.QueryMargin

	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive || s.body.Kind == physics.ShapeWall || s.body.IsStatic() || w.inOverflow[i] {
			continue
		}
		w.query = w.tree.Query(s.body.Bounds().Expand(margin), w.query[:0])
		for _, j := range w.query {
			if j == i {
				continue
			}
			if j > i || w.slots[j].body.IsStatic() {
				w.pairs = append(w.pairs, pair{a: i, b: j})
			}
		}
	}

	for _, o := range w.overflow {
		ob := &w.slots[o].body
		area := ob.Bounds().Expand(margin)
		for k := range w.slots {
			s := &w.slots[k]
			if k == o || !s.alive || s.body.Kind == physics.ShapeWall {
				continue
			}
			if w.inOverflow[k] && k < o {
				continue
			}
			if ob.IsStatic() && s.body.IsStatic() {
				continue
			}
			if area.Intersects(s.body.Bounds()) {
				w.pairs = append(w.pairs, pair{a: o, b: k})
			}
		}
	}
}

// solvePairs runs one relaxation pass over the candidate pairs
func (w *World) solvePairs(record bool) {
	for _, p := range w.pairs {
		a := &w.slots[p.a].body
		b := &w.slots[p.b].body
		c, ok := physics.Collide(a, b, w.mode)
		if !ok {
			continue
		}
		if record {
			w.record(c, p.a, p.b)
		}
		physics.Resolve(a, b, c, w.restitution)
	}
}

// solveWalls tests every dynamic body against every wall
func (w *World) solveWalls(record bool) {
	for _, wi := range w.walls {
		wall := &w.slots[wi].body
		for i := range w.slots {
			s := &w.slots[i]
			if !s.alive || s.body.Kind == physics.ShapeWall || s.body.IsStatic() {
				continue
			}
			c, ok := physics.Collide(&s.body, wall, w.mode)
			if !ok {
				continue
			}
			if record {
				w.record(c, i, wi)
			}
			physics.Resolve(&s.body, wall, c, w.restitution)
		}
	}
}

func (w *World) record(c physics.Contact, a, b int) {
	c.BodyA = uint64(makeBodyID(uint32(a), w.slots[a].generation))
	c.BodyB = uint64(makeBodyID(uint32(b), w.slots[b].generation))
	w.contacts = append(w.contacts, c)
}

func (w *World) publishStep() {
	if w.logger.DebugEnabled(w.ctx) {
		w.logger.Debug(w.ctx, "step completed",
			"tick", w.stats.Tick,
			"bodies", w.stats.Bodies,
			"candidates", w.stats.Candidates,
			"contacts", w.stats.Contacts,
			"overflow", w.stats.Overflow,
			"nodes", w.tree.NodeCount())
	}

	if w.eventBus.HasSubscribers(event.ContactDetected) {
		for _, c := range w.contacts {
			w.eventBus.Publish(event.NewContactEvent(w, c, w.tick))
		}
	}
	if w.eventBus.HasSubscribers(event.StepCompleted) {
		w.eventBus.Publish(event.NewStepEvent(w, w.stats.Tick, w.stats.Bodies,
			w.stats.Candidates, w.stats.Contacts, w.stats.Overflow))
	}
}
