package throttle

import (
	"context"
	"math"
	"sync"
	"time"
)

// Defaults match what the platform grants a fresh API session before the
// first server-reported status arrives.
const (
	DefaultCapacity    = 2000.0
	DefaultRestoreRate = 100.0
)

// Status is the server-reported view of the request cost budget, carried on
// API responses.
type Status struct {
	Available   float64
	Capacity    float64
	RestoreRate float64
}

// Limiter paces outbound API calls against a replenishing cost budget shared
// by every call site. Points recover lazily from elapsed time, so no
// background timer is needed. Server-reported status always overwrites the
// local estimate.
type Limiter struct {
	mu          sync.Mutex
	available   float64
	capacity    float64
	restoreRate float64 // points per second
	lastUpdate  time.Time

	now func() time.Time
}

// New creates a limiter seeded with the platform defaults.
func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock creates a limiter with an injected clock for deterministic
// tests.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		available:   DefaultCapacity,
		capacity:    DefaultCapacity,
		restoreRate: DefaultRestoreRate,
		lastUpdate:  now(),
		now:         now,
	}
}

// Available returns the current budget, recovering points for the time
// elapsed since the last state change, clamped at capacity.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.availableLocked()
}

func (l *Limiter) availableLocked() float64 {
	elapsed := l.now().Sub(l.lastUpdate).Seconds()
	return math.Min(l.capacity, l.available+elapsed*l.restoreRate)
}

// Wait blocks until the budget can cover cost, or until ctx is cancelled.
// This is the only suspension point in the limiter; waiting is never an
// error, only latency.
func (l *Limiter) Wait(ctx context.Context, cost float64) error {
	wait := l.waitTime(cost)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Limiter) waitTime(cost float64) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.availableLocked()
	if available >= cost {
		return 0
	}

	needed := cost - available
	ms := math.Ceil(needed / l.restoreRate * 1000)
	return time.Duration(ms) * time.Millisecond
}

// Consume deducts cost from the budget. Call it after the request was
// actually dispatched; Wait does not pre-commit points.
func (l *Limiter) Consume(cost float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.available = math.Max(0, l.availableLocked()-cost)
	l.lastUpdate = l.now()
}

// Observe replaces the local estimate with the server's authoritative view.
// Zero-valued fields leave the current value untouched, since the platform
// omits fields it did not recalculate.
func (l *Limiter) Observe(s Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s.Available > 0 {
		l.available = s.Available
	}
	if s.Capacity > 0 {
		l.capacity = s.Capacity
	}
	if s.RestoreRate > 0 {
		l.restoreRate = s.RestoreRate
	}
	l.lastUpdate = l.now()
}

// Snapshot returns the current budget state for logging.
func (l *Limiter) Snapshot() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Status{
		Available:   l.availableLocked(),
		Capacity:    l.capacity,
		RestoreRate: l.restoreRate,
	}
}
