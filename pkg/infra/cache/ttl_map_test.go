package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLMap_SetGetDelete(t *testing.T) {
	m := NewTTLMap(time.Minute)

	m.Set("k", "v")
	v, ok := m.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	m.Delete("k")
	_, ok = m.Get("k")
	assert.False(t, ok)
}

func TestTTLMap_ExpiredEntryIsEvicted(t *testing.T) {
	m := NewTTLMap(time.Millisecond)
	m.Set("k", "v")

	time.Sleep(5 * time.Millisecond)

	_, ok := m.Get("k")
	assert.False(t, ok)
	m.Mu.RLock()
	_, present := m.Data["k"]
	m.Mu.RUnlock()
	assert.False(t, present)
}

func TestTTLMap_DeleteWhere(t *testing.T) {
	m := NewTTLMap(time.Minute)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	removed := m.DeleteWhere(func(_ string, value interface{}) bool {
		return value.(int)%2 == 1
	})

	assert.Equal(t, 2, removed)
	_, ok := m.Get("b")
	assert.True(t, ok)
	_, ok = m.Get("a")
	assert.False(t, ok)
}

func TestClient_TTLMaps(t *testing.T) {
	c := NewClientFromRedis(nil)
	created := c.CreateTTLMap(RoleTTLName, time.Minute)
	created.Set("k", "v")

	assert.Same(t, created, c.GetTTLMap(RoleTTLName))
	assert.Nil(t, c.GetTTLMap("missing"))

	c.ClearAllTTLMaps()
	_, ok := created.Get("k")
	assert.False(t, ok)
}
