package gateway

import (
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned without calling the backend while the
// circuit is open.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// Breaker shields the backend from request storms while it is failing.
// Failures are counted over a sliding window; exceeding the threshold
// opens the circuit for the cooldown period, after which a single probe
// request decides whether to close it again.
type Breaker struct {
	maxFailures int
	window      time.Duration
	cooldown    time.Duration

	mu          sync.Mutex
	state       breakerState
	failures    []time.Time
	lastFailure time.Time
}

func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		window:      time.Minute,
		cooldown:    cooldown,
		state:       breakerClosed,
	}
}

// Do runs fn unless the circuit is open. A failing probe in half-open
// state reopens the circuit immediately.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.state == breakerOpen {
		if time.Since(b.lastFailure) < b.cooldown {
			b.mu.Unlock()
			return ErrBreakerOpen
		}
		b.state = breakerHalfOpen
		b.failures = b.failures[:0]
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		now := time.Now()
		b.lastFailure = now
		b.failures = append(b.failures, now)
		b.dropExpired(now)
		if b.state == breakerHalfOpen || len(b.failures) > b.maxFailures {
			b.state = breakerOpen
		}
		return err
	}

	b.dropExpired(time.Now())
	if b.state == breakerHalfOpen {
		b.state = breakerClosed
		b.failures = b.failures[:0]
	}
	return nil
}

func (b *Breaker) dropExpired(now time.Time) {
	cutoff := now.Add(-b.window)
	kept := b.failures[:0]
	for _, t := range b.failures {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.failures = kept
}
