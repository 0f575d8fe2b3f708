package validation

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket per key. The audio layer uses it to
// keep a pair of bodies grinding against each other from retriggering an
// impact sound every step.
type RateLimiter[K comparable] struct {
	maxEvents int
	window    time.Duration
	buckets   map[K]*bucket
	now       func() time.Time
	mu        sync.Mutex
}

// bucket tracks the tokens left for one key
type bucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

// NewRateLimiter creates a limiter allowing maxEvents per window for each key
func NewRateLimiter[K comparable](maxEvents int, window time.Duration) *RateLimiter[K] {
	if maxEvents < 1 {
		maxEvents = 1
	}
	return &RateLimiter[K]{
		maxEvents: maxEvents,
		window:    window,
		buckets:   make(map[K]*bucket),
		now:       time.Now,
	}
}

// SetClock replaces the time source, for tests and simulated time
func (rl *RateLimiter[K]) SetClock(now func() time.Time) {
	rl.mu.Lock()
	rl.now = now
	rl.mu.Unlock()
}

// Allow consumes a token for key, reporting false when none are left
func (rl *RateLimiter[K]) Allow(key K) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.maxEvents, lastRefill: now}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	if b.tokens >= rl.maxEvents {
		b.lastRefill = now
	}

	// Refill proportionally to the fraction of the window that has passed
	elapsed := now.Sub(b.lastRefill)
	if elapsed > 0 && b.tokens < rl.maxEvents && rl.window > 0 {
		add := int(float64(rl.maxEvents) * float64(elapsed) / float64(rl.window))
		if add > 0 {
			b.tokens += add
			if b.tokens > rl.maxEvents {
				b.tokens = rl.maxEvents
			}
			b.lastRefill = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Prune removes keys idle for more than two windows and returns how many
// were dropped
func (rl *RateLimiter[K]) Prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-2 * rl.window)
	removed := 0
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (rl *RateLimiter[K]) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}
