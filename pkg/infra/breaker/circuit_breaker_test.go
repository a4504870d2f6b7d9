package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCircuitBreaker(t *testing.T) {
	tests := []struct {
		name        string
		breakerName string
		timeout     time.Duration
		maxFailures uint32
	}{
		{name: "Valid circuit breaker", breakerName: "postgres-sink", timeout: 30 * time.Second, maxFailures: 3},
		{name: "Zero timeout", breakerName: "zero-timeout", timeout: 0, maxFailures: 1},
		{name: "Zero max failures", breakerName: "never-trips", timeout: 10 * time.Second, maxFailures: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCircuitBreaker(tt.breakerName, tt.timeout, tt.maxFailures)
			assert.NotNil(t, b)

			wrapper, ok := b.(*circuitBreakerWrapper)
			assert.True(t, ok)
			assert.Equal(t, tt.breakerName, wrapper.breaker.Name())
			assert.Equal(t, "closed", b.State())
		})
	}
}

func TestCircuitBreaker_Execute_Success(t *testing.T) {
	b := NewCircuitBreaker("success", 30*time.Second, 3)

	err := b.Execute(func() error { return nil })

	assert.NoError(t, err)
}

func TestCircuitBreaker_Execute_WrapsFailure(t *testing.T) {
	b := NewCircuitBreaker("failure", 30*time.Second, 3)
	testErr := errors.New("insert failed")

	err := b.Execute(func() error { return testErr })

	assert.Error(t, err)
	assert.ErrorIs(t, err, testErr)
	assert.Contains(t, err.Error(), "failure")
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := NewCircuitBreaker("trip", time.Minute, 2)
	calls := 0
	failing := func() error {
		calls++
		return errors.New("down")
	}

	_ = b.Execute(failing)
	_ = b.Execute(failing)
	err := b.Execute(failing)

	assert.Equal(t, 2, calls)
	assert.True(t, IsOpen(err))
	assert.Equal(t, "open", b.State())
}

func TestCircuitBreaker_ZeroMaxFailuresNeverTrips(t *testing.T) {
	b := NewCircuitBreaker("never", time.Minute, 0)
	for i := 0; i < 10; i++ {
		err := b.Execute(func() error { return errors.New("down") })
		assert.False(t, IsOpen(err))
	}
	assert.Equal(t, "closed", b.State())
}
