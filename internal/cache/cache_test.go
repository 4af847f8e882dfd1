package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetSet(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("management:2024")
	assert.False(t, ok)

	c.Set("management:2024", 42)
	value, ok := c.Get("management:2024")
	assert.True(t, ok)
	assert.Equal(t, 42, value)
}

func TestCache_Expiry(t *testing.T) {
	c := New(20 * time.Millisecond)

	c.Set("overview:2024", "fresh")
	_, ok := c.Get("overview:2024")
	assert.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("overview:2024")
	assert.False(t, ok)
}

func TestCache_ReplacesWholeValue(t *testing.T) {
	c := New(time.Minute)

	c.Set("finance", []string{"old"})
	c.Set("finance", []string{"new"})

	value, ok := c.Get("finance")
	assert.True(t, ok)
	assert.Equal(t, []string{"new"}, value)
}

func TestCache_ZeroTTLDisables(t *testing.T) {
	c := New(0)

	c.Set("teams", "anything")
	_, ok := c.Get("teams")
	assert.False(t, ok)
}

func TestCache_SetEvictsExpiredEntries(t *testing.T) {
	c := New(20 * time.Millisecond)

	c.Set("stale", 1)
	time.Sleep(30 * time.Millisecond)
	c.Set("live", 2)

	c.mu.RLock()
	_, staleHeld := c.entries["stale"]
	c.mu.RUnlock()
	assert.False(t, staleHeld)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Minute)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				c.Set("shared", n)
				c.Get("shared")
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	_, ok := c.Get("shared")
	assert.True(t, ok)
}
