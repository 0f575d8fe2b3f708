// cmd/headless/runner.go
package main

import (
	"context"
	"time"

	"github.com/opd-ai/go-physics2d/pkg/engine"
	"github.com/opd-ai/go-physics2d/pkg/event"
	"github.com/opd-ai/go-physics2d/pkg/health"
	"github.com/opd-ai/go-physics2d/pkg/logging"
)

// runner drives a world from a tick source and reports on it
type runner struct {
	world    *engine.World
	monitor  *health.Monitor
	logger   *logging.Logger
	maxTicks uint64 // 0 runs until cancelled
	contacts int
}

func newRunner(world *engine.World, logger *logging.Logger, maxTicks uint64) *runner {
	r := &runner{
		world:    world,
		monitor:  health.NewMonitor(),
		logger:   logger,
		maxTicks: maxTicks,
	}
	world.EventBus().Subscribe(event.ContactDetected, func(event.Event) { r.contacts++ })
	return r
}

// run advances the world by the time between ticks until ctx is done or
// maxTicks steps have run. start is the time the first tick is measured
// from. It reports whether the tick limit was reached.
func (r *runner) run(ctx context.Context, start time.Time, ticks, report <-chan time.Time) bool {
	r.world.Start()
	defer r.world.Stop()

	last := start
	for {
		select {
		case <-ctx.Done():
			return false

		case now := <-ticks:
			r.world.Advance(now.Sub(last))
			last = now
			r.monitor.Record(health.SnapshotOf(r.world))
			if r.maxTicks > 0 && r.world.Tick() >= r.maxTicks {
				r.logStats(ctx)
				return true
			}

		case <-report:
			r.logStats(ctx)
		}
	}
}

func (r *runner) logStats(ctx context.Context) {
	s := r.world.Stats()
	r.logger.Info(ctx, "Simulation stats",
		"tick", s.Tick,
		"bodies", s.Bodies,
		"candidate_pairs", s.Candidates,
		"contacts", s.Contacts,
		"index_overflow", s.Overflow,
		"contact_events", r.contacts,
	)
}
