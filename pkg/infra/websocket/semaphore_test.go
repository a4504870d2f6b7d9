package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemaphore_AcquireUpToCapacity(t *testing.T) {
	s := NewSemaphore(2)

	assert.True(t, s.Acquire())
	assert.True(t, s.Acquire())
	assert.False(t, s.Acquire())
	assert.Equal(t, 2, s.InUse())

	s.Release()
	assert.Equal(t, 1, s.InUse())
	assert.True(t, s.Acquire())
}

func TestSemaphore_ReleaseOnEmptyIsNoop(t *testing.T) {
	s := NewSemaphore(1)
	s.Release()
	assert.Equal(t, 0, s.InUse())
}

func TestSemaphore_NonPositiveCapacity(t *testing.T) {
	s := NewSemaphore(0)
	assert.Equal(t, 1, s.Capacity())
}
