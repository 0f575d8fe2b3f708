// Package health serves liveness and readiness probes for long-running
// simulations. The stepping goroutine records snapshots into a Monitor and
// checks read them from the HTTP goroutine, so the World itself is never
// touched concurrently.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"
)

// Check is one named readiness condition
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// Status is the aggregated result of every registered check
type Status struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentStatus `json:"checks"`
}

// ComponentStatus is the result of a single check
type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker holds the registered checks and serves them over HTTP
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewChecker creates an empty checker
func NewChecker() *Checker {
	return &Checker{
		checks: make(map[string]Check),
	}
}

// AddCheck registers check, replacing any check with the same name
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// RemoveCheck drops a check by name
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// CheckHealth runs every check. The overall status is "healthy" only if
// all of them pass.
func (c *Checker) CheckHealth(ctx context.Context) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := Status{
		Status: "healthy",
		Checks: make(map[string]ComponentStatus, len(c.checks)),
	}
	for name, check := range c.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentStatus{Status: "unhealthy", Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentStatus{Status: "healthy"}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs every check and answers 503 if any fails
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := c.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// Handler routes /health to the liveness probe and /ready to the readiness probe
func (c *Checker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", c.LivenessHandler)
	mux.HandleFunc("/ready", c.ReadinessHandler)
	return mux
}

// Snapshot is what the stepping goroutine reports after each frame
type Snapshot struct {
	Tick      uint64
	Bodies    int
	Paused    bool
	NonFinite int // bodies whose position or velocity is NaN or infinite
}

// Monitor is the hand-off point between the stepping goroutine and the probes
type Monitor struct {
	mu          sync.Mutex
	snap        Snapshot
	recorded    bool
	lastAdvance time.Time
	now         func() time.Time
}

// NewMonitor creates a monitor with no snapshot recorded
func NewMonitor() *Monitor {
	return &Monitor{now: time.Now}
}

// SetClock replaces the monitor's time source
func (m *Monitor) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Record stores s. The progress clock restarts whenever the tick moves
// forward or the simulation is paused.
func (m *Monitor) Record(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.recorded || s.Tick > m.snap.Tick || s.Paused {
		m.lastAdvance = m.now()
	}
	m.snap = s
	m.recorded = true
}

// Latest returns the last snapshot and whether one was recorded
func (m *Monitor) Latest() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.recorded
}

// sinceAdvance returns how long the tick has been stuck
func (m *Monitor) sinceAdvance() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now().Sub(m.lastAdvance)
}

// ProgressCheck fails when a running simulation stops producing steps
type ProgressCheck struct {
	monitor *Monitor
	stale   time.Duration
}

// NewProgressCheck fails once the tick has not advanced for stale
func NewProgressCheck(monitor *Monitor, stale time.Duration) *ProgressCheck {
	return &ProgressCheck{monitor: monitor, stale: stale}
}

func (p *ProgressCheck) Name() string { return "simulation" }

func (p *ProgressCheck) Check(ctx context.Context) error {
	snap, ok := p.monitor.Latest()
	if !ok {
		return fmt.Errorf("no step recorded yet")
	}
	if snap.Paused {
		return nil
	}
	if d := p.monitor.sinceAdvance(); d > p.stale {
		return fmt.Errorf("stalled at tick %d for %s", snap.Tick, d.Round(time.Millisecond))
	}
	return nil
}

// StateCheck fails when any body has left the finite range
type StateCheck struct {
	monitor *Monitor
}

func NewStateCheck(monitor *Monitor) *StateCheck {
	return &StateCheck{monitor: monitor}
}

func (s *StateCheck) Name() string { return "bodies" }

func (s *StateCheck) Check(ctx context.Context) error {
	snap, ok := s.monitor.Latest()
	if !ok {
		return fmt.Errorf("no step recorded yet")
	}
	if snap.NonFinite > 0 {
		return fmt.Errorf("%d of %d bodies have non-finite state", snap.NonFinite, snap.Bodies)
	}
	return nil
}

// MemoryCheck fails when heap usage exceeds a limit
type MemoryCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryCheck checks usage reported by getMemoryUsage against
// maxMemoryMB. A nil getMemoryUsage reads the Go heap.
func NewMemoryCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryCheck {
	if getMemoryUsage == nil {
		getMemoryUsage = HeapMB
	}
	return &MemoryCheck{maxMemoryMB: maxMemoryMB, getMemoryUsage: getMemoryUsage}
}

func (m *MemoryCheck) Name() string { return "memory" }

func (m *MemoryCheck) Check(ctx context.Context) error {
	if current := m.getMemoryUsage(); current > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", current, m.maxMemoryMB)
	}
	return nil
}

// HeapMB returns the allocated heap in megabytes
func HeapMB() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.Alloc / 1024 / 1024)
}
