// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import "sync"

// Cache is a generic thread-safe LRU cache with a soft limit.
// When an insertion takes the cache past softLimit, the least recently used
// entries are evicted and passed to the eviction callback.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*cacheEntry[K, V]
	lru       *lruList[K]
	softLimit int
	onEvict   func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

type cacheEntry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

type evicted[K comparable, V any] struct {
	key   K
	value V
}

// New creates a cache with the given soft limit.
// A softLimit of 0 means unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return NewWithEvict[K, V](softLimit, nil)
}

// NewWithEvict creates a cache that calls onEvict for every entry removed by
// the soft limit, Delete or Clear. onEvict runs without the cache lock held.
func NewWithEvict[K comparable, V any](softLimit int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*cacheEntry[K, V]),
		lru:       newLRUList[K](),
		softLimit: softLimit,
		onEvict:   onEvict,
	}
}

// Get retrieves a value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.lru.MoveToFront(entry.node)
	return entry.value, true
}

// Set stores a value. A previous value under key is replaced and evicted.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	out := c.store(key, value)
	c.mu.Unlock()
	c.notify(out)
}

// GetOrCreate returns the cached value or creates and stores it.
// create runs under the cache lock, so concurrent callers for any key wait
// for it and a value is created at most once. Errors are returned and
// nothing is stored.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.hits++
		c.lru.MoveToFront(entry.node)
		c.mu.Unlock()
		return entry.value, nil
	}
	c.misses++

	value, err := create()
	if err != nil {
		c.mu.Unlock()
		var zero V
		return zero, err
	}
	out := c.store(key, value)
	c.mu.Unlock()
	c.notify(out)
	return value, nil
}

// Delete removes an entry. Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok {
		c.lru.Remove(entry.node)
		delete(c.entries, key)
	}
	c.mu.Unlock()
	if ok {
		c.notify([]evicted[K, V]{{key, entry.value}})
	}
	return ok
}

// Clear removes all entries and resets statistics.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	out := make([]evicted[K, V], 0, len(c.entries))
	for n := c.lru.Back(); n != nil; n = c.lru.Back() {
		out = append(out, evicted[K, V]{n.key, c.entries[n.key].value})
		c.lru.Remove(n)
	}
	c.entries = make(map[K]*cacheEntry[K, V])
	c.hits, c.misses, c.evictions = 0, 0, 0
	c.mu.Unlock()
	c.notify(out)
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the soft limit of the cache.
func (c *Cache[K, V]) Capacity() int {
	return c.softLimit
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.softLimit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// store inserts or replaces key and applies the soft limit.
// Caller must hold c.mu.
func (c *Cache[K, V]) store(key K, value V) []evicted[K, V] {
	var out []evicted[K, V]
	if old, ok := c.entries[key]; ok {
		out = append(out, evicted[K, V]{key, old.value})
		old.value = value
		c.lru.MoveToFront(old.node)
		return out
	}
	c.entries[key] = &cacheEntry[K, V]{value: value, node: c.lru.PushFront(key)}

	for c.softLimit > 0 && len(c.entries) > c.softLimit {
		n := c.lru.Back()
		out = append(out, evicted[K, V]{n.key, c.entries[n.key].value})
		c.lru.Remove(n)
		delete(c.entries, n.key)
		c.evictions++
	}
	return out
}

func (c *Cache[K, V]) notify(out []evicted[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range out {
		c.onEvict(e.key, e.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the soft limit.
	Capacity int
	// Hits and Misses count lookups by Get and GetOrCreate.
	Hits   uint64
	Misses uint64
	// HitRate is Hits / (Hits + Misses), or 0 before the first lookup.
	HitRate float64
	// Evictions counts entries removed by the soft limit.
	Evictions uint64
}
