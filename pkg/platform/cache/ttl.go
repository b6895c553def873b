// Package cache holds a small in-process TTL cache for hot lookups.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL stores values for a fixed duration after they are written.
// Expired entries are dropped lazily on read or by Purge.
type TTL[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source. Tests use it to expire entries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewTTL builds a cache whose entries live for ttl. A ttl <= 0 keeps entries forever.
func NewTTL[K comparable, V any](ttl time.Duration, opts ...Option) *TTL[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[K, V]{
		items: make(map[K]entry[V]),
		ttl:   ttl,
		now:   o.now,
	}
}

// Get returns the cached value when present and not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// re-check: a concurrent Set may have refreshed the entry
		if cur, still := c.items[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *TTL[K, V]) Set(key K, value V) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Purge drops every expired entry and returns how many were removed.
func (c *TTL[K, V]) Purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.items {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, including expired ones not yet purged.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
