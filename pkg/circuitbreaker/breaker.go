package circuitbreaker

import (
	"log"
	"sync"
	"time"
)

// Breaker trips a protocol after repeated failures within a window and
// keeps it tripped until the reset timeout passes
type Breaker struct {
	name          string
	enabled       bool
	failureCount  int
	failureWindow time.Duration
	failThreshold int
	resetTimeout  time.Duration
	lastFailure   time.Time
	tripped       bool
	tripTime      time.Time
	mu            sync.Mutex
}

// NewBreaker creates a breaker for one protocol
func NewBreaker(name string, enabled bool, threshold int, window, resetTimeout time.Duration) *Breaker {
	return &Breaker{
		name:          name,
		enabled:       enabled,
		failThreshold: threshold,
		failureWindow: window,
		resetTimeout:  resetTimeout,
	}
}

// RecordFailure records a failure and trips the circuit if the threshold
// is exceeded. Returns true if the circuit is tripped afterwards.
func (b *Breaker) RecordFailure() bool {
	if !b.enabled {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()

	// If the circuit is already tripped, check if it's time to try again
	if b.tripped {
		if time.Since(b.tripTime) > b.resetTimeout {
			log.Printf("Circuit breaker %s: attempting to reset after timeout", b.name)
			b.tripped = false
			b.failureCount = 0
		} else {
			return true
		}
	}

	// Reset failure count if outside window
	if time.Since(b.lastFailure) > b.failureWindow {
		b.failureCount = 0
	}

	b.failureCount++
	b.lastFailure = now

	if b.failureCount >= b.failThreshold {
		b.tripped = true
		b.tripTime = now
		log.Printf("Circuit breaker %s tripped: %d failures in window", b.name, b.failureCount)
		return true
	}

	return false
}

// RecordSuccess clears the failure count
func (b *Breaker) RecordSuccess() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount = 0
}

// IsOpen returns true if the circuit is open (tripped)
func (b *Breaker) IsOpen() bool {
	if !b.enabled {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// If tripped but reset timeout has passed, try again
	if b.tripped && time.Since(b.tripTime) > b.resetTimeout {
		b.tripped = false
		b.failureCount = 0
		return false
	}

	return b.tripped
}

// Reset manually resets the circuit breaker
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tripped = false
	b.failureCount = 0
}

// State describes a breaker for status reporting
type State struct {
	Name         string    `json:"name"`
	Tripped      bool      `json:"tripped"`
	FailureCount int       `json:"failure_count"`
	LastFailure  time.Time `json:"last_failure,omitempty"`
	TripTime     time.Time `json:"trip_time,omitempty"`
}

// GetState returns the current state of the circuit breaker
func (b *Breaker) GetState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Name:         b.name,
		Tripped:      b.tripped,
		FailureCount: b.failureCount,
		LastFailure:  b.lastFailure,
		TripTime:     b.tripTime,
	}
}

// Registry holds one breaker per protocol
type Registry struct {
	enabled      bool
	threshold    int
	window       time.Duration
	resetTimeout time.Duration

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewRegistry creates a registry that builds breakers lazily with shared settings
func NewRegistry(enabled bool, threshold int, window, resetTimeout time.Duration) *Registry {
	return &Registry{
		enabled:      enabled,
		threshold:    threshold,
		window:       window,
		resetTimeout: resetTimeout,
		breakers:     make(map[string]*Breaker),
	}
}

// Get returns the breaker for a protocol, creating it on first use
func (r *Registry) Get(name string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breakers[name]
	if !ok {
		b = NewBreaker(name, r.enabled, r.threshold, r.window, r.resetTimeout)
		r.breakers[name] = b
	}
	return b
}

// States returns the state of every breaker created so far
func (r *Registry) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make([]State, 0, len(r.breakers))
	for _, b := range r.breakers {
		states = append(states, b.GetState())
	}
	return states
}

// ResetAll resets every breaker created so far
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.breakers {
		b.Reset()
	}
}
