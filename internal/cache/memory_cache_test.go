package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := NewMemoryCache[string]()
	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
	assert.True(t, c.Has("k"))
	assert.Equal(t, 1, c.Len())
}

func TestGetMissingKey(t *testing.T) {
	c := NewMemoryCache[string]()

	got, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestEntryExpires(t *testing.T) {
	c := NewMemoryCache[string]()
	c.Set("k", "v", 20*time.Millisecond)

	_, ok := c.Get("k")
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		return !c.Has("k")
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, c.Len())
}

func TestResetReschedulesExpiry(t *testing.T) {
	c := NewMemoryCache[string]()
	c.Set("k", "old", 30*time.Millisecond)
	c.Set("k", "new", time.Minute)

	// Past the first TTL the rescheduled entry must still be alive.
	time.Sleep(80 * time.Millisecond)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestLateExpiryDoesNotRemoveNewerValue(t *testing.T) {
	c := NewMemoryCache[string]()
	c.Set("k", "old", 10*time.Millisecond)

	// Replace just before the first timer would fire; even if the old
	// callback runs, the generation check must keep the new value.
	c.Set("k", "new", time.Minute)
	time.Sleep(50 * time.Millisecond)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestDeleteIsIdempotent(t *testing.T) {
	c := NewMemoryCache[string]()
	c.Set("k", "v", time.Minute)

	c.Delete("k")
	assert.False(t, c.Has("k"))
	c.Delete("k")
	assert.Equal(t, 0, c.Len())
}

func TestClear(t *testing.T) {
	c := NewMemoryCache[int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("a"))
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	c := NewMemoryCache[string]()
	c.Set("k", "v", 0)

	time.Sleep(30 * time.Millisecond)
	assert.True(t, c.Has("k"))
}

func TestConcurrentAccess(t *testing.T) {
	c := NewMemoryCache[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%10)
			c.Set(key, n, 10*time.Millisecond)
			c.Get(key)
			c.Has(key)
			if n%3 == 0 {
				c.Delete(key)
			}
		}(i)
	}
	wg.Wait()

	// No assertion beyond surviving the race detector.
	c.Clear()
}
