package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards an upstream provider. Consecutive failures trip it
// open; after the open window it admits a bounded number of probe requests
// and closes again once all of them succeed.
type CircuitBreaker struct {
	mu sync.Mutex

	failLimit   int
	reopenAfter time.Duration
	probeLimit  int

	state         CircuitState
	failStreak    int
	trippedAt     time.Time
	probesActive  int
	probesCleared int
	now           func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		failLimit:   failureThreshold,
		reopenAfter: openTimeout,
		probeLimit:  halfOpenMaxReq,
		state:       CircuitStateClosed,
		now:         time.Now,
	}
}

// Allow reports whether a request may proceed, reserving a probe slot when
// the breaker is half open.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.trippedAt) < b.reopenAfter {
			return ErrCircuitOpen
		}
		b.enterHalfOpen()
	}

	if b.state == CircuitStateHalfOpen {
		if b.probesActive >= b.probeLimit {
			return ErrCircuitOpen
		}
		b.probesActive++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failStreak = 0
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.probesCleared++
		if b.probesCleared >= b.probeLimit && b.probesActive == 0 {
			b.enterClosed()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failStreak++
		if b.failStreak >= b.failLimit {
			b.enterOpen()
		}
	case CircuitStateHalfOpen:
		// One failed probe re-trips the breaker.
		b.releaseProbe()
		b.enterOpen()
	case CircuitStateOpen:
		b.trippedAt = b.now()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.trippedAt) >= b.reopenAfter {
		return CircuitStateHalfOpen
	}

	return b.state
}

func (b *CircuitBreaker) releaseProbe() {
	if b.probesActive > 0 {
		b.probesActive--
	}
}

func (b *CircuitBreaker) enterClosed() {
	b.state = CircuitStateClosed
	b.failStreak = 0
	b.probesActive = 0
	b.probesCleared = 0
	b.trippedAt = time.Time{}
}

func (b *CircuitBreaker) enterOpen() {
	b.state = CircuitStateOpen
	b.trippedAt = b.now()
	b.probesActive = 0
	b.probesCleared = 0
}

func (b *CircuitBreaker) enterHalfOpen() {
	b.state = CircuitStateHalfOpen
	b.probesActive = 0
	b.probesCleared = 0
}
