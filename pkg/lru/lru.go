// Package lru provides a fixed-capacity least-recently-used cache.
//
// Entries live in a slice arena and are linked by index, most recent first.
// Slots released by Remove are kept on a free list and reused.
package lru

import "sync"

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 1000

const nilIndex int32 = -1

type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next int32
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Len       int    `json:"len"`
	Capacity  int    `json:"capacity"`
}

// HitRatio returns hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is safe for concurrent use. Get updates recency, so every operation
// takes the same exclusive lock.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	index    map[K]int32
	nodes    []node[K, V]
	head     int32 // most recently used
	tail     int32 // least recently used
	free     int32
	stats    Stats
}

// New returns an empty cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		capacity: capacity,
		index:    make(map[K]int32),
		head:     nilIndex,
		tail:     nilIndex,
		free:     nilIndex,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	c.moveToFront(i)
	return c.nodes[i].value, true
}

// Set inserts or replaces the value for key and marks it most recently used.
// Inserting a new key into a full cache evicts the least recently used entry.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[key]; ok {
		c.nodes[i].value = value
		c.moveToFront(i)
		return
	}
	if len(c.index) >= c.capacity {
		c.evict()
	}
	i := c.alloc()
	c.nodes[i].key = key
	c.nodes[i].value = value
	c.pushFront(i)
	c.index[key] = i
}

// Remove drops key from the cache and reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[key]
	if !ok {
		return false
	}
	c.unlink(i)
	delete(c.index, key)
	c.release(i)
	return true
}

// Clear empties the cache. Counters are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.nodes)
	c.nodes = c.nodes[:0]
	clear(c.index)
	c.head, c.tail, c.free = nilIndex, nilIndex, nilIndex
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Cap returns the capacity fixed at construction.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Keys returns the cached keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]K, 0, len(c.index))
	for i := c.head; i != nilIndex; i = c.nodes[i].next {
		keys = append(keys, c.nodes[i].key)
	}
	return keys
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Len = len(c.index)
	s.Capacity = c.capacity
	return s
}

func (c *Cache[K, V]) evict() {
	i := c.tail
	if i == nilIndex {
		return
	}
	c.unlink(i)
	delete(c.index, c.nodes[i].key)
	c.release(i)
	c.stats.Evictions++
}

func (c *Cache[K, V]) alloc() int32 {
	if c.free != nilIndex {
		i := c.free
		c.free = c.nodes[i].next
		c.nodes[i].next = nilIndex
		return i
	}
	c.nodes = append(c.nodes, node[K, V]{prev: nilIndex, next: nilIndex})
	return int32(len(c.nodes) - 1)
}

// release zeroes slot i and puts it on the free list.
func (c *Cache[K, V]) release(i int32) {
	c.nodes[i] = node[K, V]{prev: nilIndex, next: c.free}
	c.free = i
}

func (c *Cache[K, V]) unlink(i int32) {
	n := &c.nodes[i]
	if n.prev != nilIndex {
		c.nodes[n.prev].next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nilIndex {
		c.nodes[n.next].prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nilIndex, nilIndex
}

func (c *Cache[K, V]) pushFront(i int32) {
	n := &c.nodes[i]
	n.prev = nilIndex
	n.next = c.head
	if c.head != nilIndex {
		c.nodes[c.head].prev = i
	}
	c.head = i
	if c.tail == nilIndex {
		c.tail = i
	}
}

func (c *Cache[K, V]) moveToFront(i int32) {
	if c.head == i {
		return
	}
	c.unlink(i)
	c.pushFront(i)
}
