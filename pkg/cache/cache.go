// Package cache provides a single-value TTL cache with get-or-recompute
// semantics and an injectable clock, so staleness is deterministic in tests.
package cache

import (
	"context"
	"sync"
	"time"
)

// Loader recomputes the cached value.
type Loader[T any] func(ctx context.Context) (T, error)

// TTL caches one value for a fixed duration.
type TTL[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	value    T
	loadedAt time.Time
	loaded   bool
}

// New returns a TTL cache using the real clock.
func New[T any](ttl time.Duration) *TTL[T] {
	return NewWithClock[T](ttl, time.Now)
}

// NewWithClock returns a TTL cache using the given clock.
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *TTL[T] {
	return &TTL[T]{ttl: ttl, now: now}
}

// Get returns the cached value, recomputing it through load when the entry
// is missing or older than the TTL. A failed load leaves any stale value in
// place and returns the error.
func (c *TTL[T]) Get(ctx context.Context, load Loader[T]) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && c.now().Sub(c.loadedAt) < c.ttl {
		return c.value, nil
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = value
	c.loadedAt = c.now()
	c.loaded = true
	return value, nil
}

// Invalidate drops the cached value.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
}
