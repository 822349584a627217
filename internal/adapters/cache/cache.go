// Package cache is a bounded, expiring in-process cache for trust reports.
package cache

import (
	"time"

	"github.com/gilberto978/bishbash-api/pkg/metrics"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache maps "<endpoint>:<key>" to a value. A nil *Cache is a valid, always-missing cache.
type Cache[V any] struct {
	lru *expirable.LRU[string, V]
}

// New creates a cache holding at most size entries for ttl each.
// size <= 0 returns nil, which disables caching. ttl <= 0 keeps entries until evicted.
func New[V any](size int, ttl time.Duration) *Cache[V] {
	if size <= 0 {
		return nil
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache[V]{lru: expirable.NewLRU[string, V](size, nil, ttl)}
}

// Key joins an endpoint and a normalized lookup key.
func Key(endpoint, key string) string {
	return endpoint + ":" + key
}

// Get returns the cached value and records a hit or miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	v, ok := c.lru.Get(key)
	metrics.RecordCacheLookup(ok)
	return v, ok
}

// Add stores v under key.
func (c *Cache[V]) Add(key string, v V) {
	if c == nil {
		return
	}
	c.lru.Add(key, v)
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}
