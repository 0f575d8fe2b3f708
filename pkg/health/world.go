package health

import (
	"github.com/opd-ai/go-physics2d/pkg/engine"
	"github.com/opd-ai/go-physics2d/pkg/physics"
)

// SnapshotOf reads the probe fields from w. Call it on the goroutine that
// steps w.
func SnapshotOf(w *engine.World) Snapshot {
	snap := Snapshot{Tick: w.Tick(), Paused: w.Paused()}
	w.EachBody(func(_ engine.BodyID, b *physics.Body) {
		snap.Bodies++
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			snap.NonFinite++
		}
	})
	return snap
}
