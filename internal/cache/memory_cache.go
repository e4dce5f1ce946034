// Package cache provides the process-local TTL cache used to short-circuit
// repeated hint requests. Entries live in memory only and are lost on
// restart; durable reuse is the hint store's job.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is applied by callers that have no reason to pick something
// else. One hour matches how long a student plausibly stays on one problem.
const DefaultTTL = time.Hour

type entry[V any] struct {
	value V
	gen   uint64
	timer *time.Timer
}

// MemoryCache is a concurrency-safe string-keyed cache with per-entry
// expiry. Each Set schedules one expiry callback; the callback is bound to
// the generation of the entry it was scheduled for, so a timer that fires
// late (after the key was re-set) never removes the newer value.
type MemoryCache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	gen     uint64
}

func NewMemoryCache[V any]() *MemoryCache[V] {
	return &MemoryCache[V]{entries: make(map[string]*entry[V])}
}

// Set stores value under key and schedules its removal after ttl.
// Re-setting an existing key replaces the value and reschedules the expiry;
// the previous timer is cancelled, never stacked.
func (c *MemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		old.timer.Stop()
	}

	c.gen++
	e := &entry[V]{value: value, gen: c.gen}
	e.timer = time.AfterFunc(ttl, func() { c.expire(key, e.gen) })
	c.entries[key] = e
}

// expire removes key only if it still holds the generation the timer was
// scheduled for.
func (c *MemoryCache[V]) expire(key string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.gen == gen {
		delete(c.entries, key)
	}
}

// Get returns the cached value for key. Reads never extend the TTL.
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (c *MemoryCache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Delete removes key and cancels its pending expiry. Deleting an absent key
// is a no-op.
func (c *MemoryCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.timer.Stop()
		delete(c.entries, key)
	}
}

// Clear empties the cache and cancels every pending expiry.
func (c *MemoryCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.timer.Stop()
	}
	c.entries = make(map[string]*entry[V])
}

// Len returns the number of live entries.
func (c *MemoryCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
