// Package cache provides a small generic LRU cache.
//
// LRU[K, V] holds at most Capacity entries. Inserting into a full cache
// evicts the least recently used entry and reports it through the optional
// eviction callback.
//
//	c := cache.NewLRU[int, *Page](8)
//	c.Put(3, page)
//	page, ok := c.Get(3)
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
