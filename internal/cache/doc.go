// Package cache provides a generic thread-safe LRU cache.
//
// Cache[K, V] keeps at most its soft limit of entries and evicts the least
// recently used one when an insertion exceeds it. An eviction callback lets
// owners release resources held by evicted values:
//
//	c := cache.NewWithEvict[string, *Module](64, func(k string, m *Module) {
//		m.Destroy()
//	})
//	m, err := c.GetOrCreate("key", load)
//
// Failed creations are not stored. Cache is safe for concurrent use and must
// not be copied after creation.
package cache
