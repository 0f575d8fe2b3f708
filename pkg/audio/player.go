// pkg/audio/player.go
package audio

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-physics2d/pkg/event"
	"github.com/opd-ai/go-physics2d/pkg/logging"
	"github.com/opd-ai/go-physics2d/pkg/physics"
	"github.com/opd-ai/go-physics2d/pkg/validation"
)

// pruneEvery is how many impacts pass between limiter clean-ups
const pruneEvery = 256

type pairKey struct {
	lo, hi uint64
}

func keyOf(c physics.Contact) pairKey {
	if c.BodyA > c.BodyB {
		return pairKey{lo: c.BodyB, hi: c.BodyA}
	}
	return pairKey{lo: c.BodyA, hi: c.BodyB}
}

// Stats counts what happened to contacts handed to the player
type Stats struct {
	Played    int
	Throttled int
	Quiet     int
}

// Player turns contact events into impact sounds. A resting stack reports
// the same pairs every step, so each pair is rate limited.
type Player struct {
	mu      sync.Mutex
	params  ImpactParams
	limiter *validation.RateLimiter[pairKey]
	mixer   *beep.Mixer
	logger  *logging.Logger
	sub     *event.Subscription

	stats       Stats
	seen        int
	initialized bool
}

// NewPlayer creates a player. It is silent until Initialize succeeds.
func NewPlayer(params ImpactParams, logger *logging.Logger) *Player {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Player{
		params:  params,
		limiter: validation.NewRateLimiter[pairKey](params.MaxPerPair, params.PairWindow),
		mixer:   &beep.Mixer{},
		logger:  logger,
	}
}

// Initialize opens the speaker and starts the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return logging.WrapError(err, "failed to open audio device")
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Attach subscribes the player to contact events on bus
func (p *Player) Attach(bus *event.Bus) {
	p.Detach()
	p.sub = bus.Subscribe(event.ContactDetected, func(e event.Event) {
		if ce, ok := e.(*event.ContactEvent); ok {
			p.Impact(ce.Contact)
		}
	})
}

// Detach stops listening for contacts
func (p *Player) Detach() {
	if p.sub != nil {
		p.sub.Cancel()
		p.sub = nil
	}
}

// Impact plays the sound for one contact and reports whether it was
// audible and not throttled
func (p *Player) Impact(c physics.Contact) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seen++
	if p.seen%pruneEvery == 0 {
		p.limiter.Prune()
	}

	freq, volume, ok := p.params.Map(c.Speed)
	if !ok {
		p.stats.Quiet++
		return false
	}
	if !p.limiter.Allow(keyOf(c)) {
		p.stats.Throttled++
		return false
	}
	p.stats.Played++

	if !p.initialized {
		return true
	}
	s, err := NewImpact(sampleRate, freq, volume, p.params.Duration)
	if err != nil {
		p.logger.Warn(context.Background(), "Impact tone failed", "error", err, "freq", freq)
		return false
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	return true
}

// Stats returns the impact counters
func (p *Player) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// SetClock replaces the throttle's time source
func (p *Player) SetClock(now func() time.Time) {
	p.limiter.SetClock(now)
}

// Close detaches the player and releases the speaker
func (p *Player) Close() {
	p.Detach()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
