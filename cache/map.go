// Package cache provides content digests and a bounded in-memory memo map.
package cache

import "sync"

// Map is a concurrency-safe key-value store that evicts the oldest entry once
// capacity is reached. A capacity of zero or less means unbounded.
type Map[K comparable, V any] struct {
	data     map[K]*V
	order    []K
	capacity int
	sync.RWMutex
}

// NewMap creates a map holding at most capacity entries.
func NewMap[K comparable, V any](capacity int) *Map[K, V] {
	return &Map[K, V]{
		data:     make(map[K]*V),
		capacity: capacity,
	}
}

// Get retrieves a value by key.
func (c *Map[K, V]) Get(key K) (*V, bool) {
	c.RLock()
	defer c.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Set stores value under key, evicting the oldest entry when full.
func (c *Map[K, V]) Set(key K, value *V) {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.data[key]; !ok {
		if c.capacity > 0 && len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.data, oldest)
		}
		c.order = append(c.order, key)
	}
	c.data[key] = value
}

// Delete removes key.
func (c *Map[K, V]) Delete(key K) {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.data[key]; !ok {
		return
	}
	delete(c.data, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Size returns the number of entries.
func (c *Map[K, V]) Size() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.data)
}

// Clear empties the map.
func (c *Map[K, V]) Clear() {
	c.Lock()
	defer c.Unlock()
	c.data = make(map[K]*V)
	c.order = nil
}
