package redis

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the publish breaker is open.
var ErrCircuitOpen = errors.New("redis publish circuit open")

// BreakerState is the publish breaker state.
type BreakerState int

const (
	BreakerClosed   BreakerState = 0 // publishing normally
	BreakerOpen     BreakerState = 1 // Redis unreachable, publishes rejected
	BreakerHalfOpen BreakerState = 2 // probing with a single publish
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker gates live-bar publishes so a dead Redis does not stall the
// ingest path on per-bar timeouts. SQLite remains the source of truth, so
// publishes rejected while the breaker is open are simply dropped; a chart
// server that reattaches reloads history from SQLite anyway.
type Breaker struct {
	mu          sync.Mutex
	state       BreakerState
	failures    int
	maxFailures int
	cooldown    time.Duration
	openedAt    time.Time

	// OnStateChange, when set, is called on every transition.
	OnStateChange func(from, to BreakerState)
}

// NewBreaker creates a publish breaker that opens after maxFailures
// consecutive errors and probes again after cooldown.
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		state:       BreakerClosed,
	}
}

// Do runs one publish through the breaker. While open and inside the
// cooldown it returns ErrCircuitOpen without calling fn; after the cooldown
// one probe call is let through.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.state == BreakerOpen {
		if time.Since(b.openedAt) < b.cooldown {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.transition(BreakerHalfOpen)
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.openedAt = time.Now()
		if b.state == BreakerHalfOpen || b.failures >= b.maxFailures {
			b.transition(BreakerOpen)
		}
		return err
	}

	if b.state == BreakerHalfOpen {
		b.transition(BreakerClosed)
	}
	b.failures = 0
	return nil
}

// State returns the current breaker state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transition(to BreakerState) {
	from := b.state
	b.state = to
	if to == BreakerClosed {
		b.failures = 0
	}
	if b.OnStateChange != nil {
		b.OnStateChange(from, to)
	}
}
