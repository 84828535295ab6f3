// Package cache provides the process-wide TTL caches. Entries are checked
// lazily on read and swept periodically; there is no cross-process
// invalidation, so staleness up to the TTL is accepted.
package cache

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks cache performance counters.
type Metrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// TTLCache is a generic concurrent-safe cache with a fixed per-cache TTL.
type TTLCache[T any] struct {
	mu      sync.RWMutex
	items   map[string]entry[T]
	ttl     time.Duration
	name    string
	metrics Metrics
	logger  *zap.Logger
}

type entry[T any] struct {
	value     T
	expiresAt int64
}

// New creates a cache with the given TTL and starts its sweeper.
func New[T any](ttl time.Duration, name string, logger *zap.Logger) *TTLCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &TTLCache[T]{
		items:  make(map[string]entry[T]),
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
	go c.sweep()
	return c
}

// Set stores value under key with the cache's TTL.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl).UnixNano(),
	}
	c.metrics.Sets++

	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl),
	)
}

// Get returns the cached value and whether it exists and is still fresh.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	item, found := c.items[key]
	if !found || time.Now().UnixNano() > item.expiresAt {
		c.metrics.Misses++
		return zero, false
	}

	c.metrics.Hits++
	return item.value, true
}

// Delete removes key from the cache.
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// DeletePrefix removes every key starting with prefix. Used to drop all
// per-viewer variants of one cached object at once.
func (c *TTLCache[T]) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// Clear evicts every entry unconditionally.
func (c *TTLCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry[T])
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// GetMetrics returns a snapshot of the cache counters.
func (c *TTLCache[T]) GetMetrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

// Size returns the number of entries, fresh or not.
func (c *TTLCache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// sweep periodically drops expired entries so the table does not grow
// without bound between reads.
func (c *TTLCache[T]) sweep() {
	ticker := time.NewTicker(c.ttl / 2)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now().UnixNano()
		expired := 0
		for key, item := range c.items {
			if now > item.expiresAt {
				delete(c.items, key)
				expired++
			}
		}
		c.mu.Unlock()

		if expired > 0 {
			c.logger.Debug("Cache sweep",
				zap.String("cache", c.name),
				zap.Int("expired", expired),
			)
		}
	}
}
