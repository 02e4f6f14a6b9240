package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerTripsAtThreshold(t *testing.T) {
	b := NewBreaker("magma", true, 3, time.Minute, time.Minute)

	assert.False(t, b.RecordFailure())
	assert.False(t, b.RecordFailure())
	assert.True(t, b.RecordFailure())
	assert.True(t, b.IsOpen())
}

func TestBreakerDisabledNeverTrips(t *testing.T) {
	b := NewBreaker("magma", false, 1, time.Minute, time.Minute)

	assert.False(t, b.RecordFailure())
	assert.False(t, b.RecordFailure())
	assert.False(t, b.IsOpen())
}

func TestBreakerSuccessClearsFailures(t *testing.T) {
	b := NewBreaker("magma", true, 2, time.Minute, time.Minute)

	b.RecordFailure()
	b.RecordSuccess()
	assert.False(t, b.RecordFailure())
	assert.False(t, b.IsOpen())
}

func TestBreakerResetTimeout(t *testing.T) {
	b := NewBreaker("magma", true, 1, time.Minute, 10*time.Millisecond)

	assert.True(t, b.RecordFailure())
	assert.True(t, b.IsOpen())

	time.Sleep(20 * time.Millisecond)
	assert.False(t, b.IsOpen())
}

func TestBreakerManualReset(t *testing.T) {
	b := NewBreaker("magma", true, 1, time.Minute, time.Hour)

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
}

func TestRegistryReturnsSameBreaker(t *testing.T) {
	r := NewRegistry(true, 3, time.Minute, time.Minute)

	first := r.Get("apriori")
	second := r.Get("apriori")
	assert.Same(t, first, second)

	other := r.Get("magma")
	assert.NotSame(t, first, other)
}

func TestRegistryStatesAndResetAll(t *testing.T) {
	r := NewRegistry(true, 1, time.Minute, time.Hour)

	r.Get("apriori").RecordFailure()
	r.Get("magma")

	states := r.States()
	assert.Len(t, states, 2)

	tripped := 0
	for _, s := range states {
		if s.Tripped {
			tripped++
		}
	}
	assert.Equal(t, 1, tripped)

	r.ResetAll()
	for _, s := range r.States() {
		assert.False(t, s.Tripped)
	}
}
