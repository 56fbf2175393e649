package data

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultLocalCapacity bounds the local page tier when no capacity is configured.
const DefaultLocalCapacity = 256

// LocalLRU is the in-process tier of the page cache: encoded page objects kept
// for one cache-wide TTL and evicted least recently used first.
// Methods are safe for concurrent use.
type LocalLRU struct {
	cache    *expirable.LRU[string, []byte]
	capacity int
	hits     atomic.Uint64
	misses   atomic.Uint64
	evicts   atomic.Uint64
}

// LocalLRUConfig groups constructor options.
type LocalLRUConfig struct {
	Capacity int           // defaults to DefaultLocalCapacity
	TTL      time.Duration // zero keeps entries until evicted or purged
}

// NewLocalLRU creates a LocalLRU.
func NewLocalLRU(cfg LocalLRUConfig) *LocalLRU {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultLocalCapacity
	}
	return &LocalLRU{
		cache:    expirable.NewLRU[string, []byte](capacity, nil, cfg.TTL),
		capacity: capacity,
	}
}

// Get returns the value for key if present and not expired.
func (c *LocalLRU) Get(key string) ([]byte, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return v, true
}

// Set inserts or replaces key, restarting its TTL.
func (c *LocalLRU) Set(key string, value []byte) {
	if c.cache.Add(key, value) {
		c.evicts.Add(1)
	}
}

// Delete removes key and reports whether it was present.
func (c *LocalLRU) Delete(key string) bool {
	return c.cache.Remove(key)
}

// Purge drops every entry.
func (c *LocalLRU) Purge() {
	c.cache.Purge()
}

// Len returns the number of entries, including expired ones not yet reaped.
func (c *LocalLRU) Len() int {
	return c.cache.Len()
}

// LocalLRUStats are simple counters for observability.
type LocalLRUStats struct {
	Hits, Misses, Evictions uint64
	Size, Capacity          int
}

// Stats returns a snapshot of counters and sizes.
func (c *LocalLRU) Stats() LocalLRUStats {
	return LocalLRUStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
		Size:      c.Len(),
		Capacity:  c.capacity,
	}
}
