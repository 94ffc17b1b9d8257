// Package cache provides a small bounded LRU cache with per-entry TTL.
//
// Services use it to avoid repeated ownership and aggregate lookups. The
// cache never invalidates itself on writes to the underlying data — every
// mutating path that changes a cached aggregate must Delete the relevant
// key as part of its own unit of work. Keys are built exclusively through
// the helpers in keys.go to keep namespaces collision-free.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a concurrency-safe LRU cache mapping string keys to values of
// type V. The least-recently-used entry is evicted once capacity is
// exceeded; expired entries are dropped on access.
//
// This implementation uses a mutex-guarded map plus an intrusive recency
// list. Reads take the full lock too, since every Get promotes the entry
// to the front of the recency order.
type Cache[V any] struct {
	mu         sync.Mutex
	capacity   int
	defaultTTL time.Duration
	entries    map[string]*list.Element
	order      *list.List // front = most recently used

	now func() time.Time // overridable in tests
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time // zero = never expires
}

// New creates a cache with the given capacity and default TTL.
// A defaultTTL of zero means entries never expire unless a per-entry TTL
// is supplied. Capacity must be at least 1.
func New[V any](capacity int, defaultTTL time.Duration) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[V]{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		entries:    make(map[string]*list.Element, capacity),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get returns the cached value for key, marking it as recently used.
// The ok result is false if the key is absent or its entry has expired.
func (c *Cache[V]) Get(key string) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, found := c.entries[key]
	if !found {
		return value, false
	}
	e := el.Value.(*entry[V])
	if c.expired(e) {
		c.remove(el)
		return value, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores value under key with the cache's default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
// A TTL of zero means the entry never expires.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if el, found := c.entries[key]; found {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = el

	if c.order.Len() > c.capacity {
		c.remove(c.order.Back())
	}
}

// Delete removes the entry for key, if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, found := c.entries[key]; found {
		c.remove(el)
	}
}

// Wrap returns the cached value for key if present and unexpired.
// Otherwise it invokes producer, stores the result under key with the
// default TTL, and returns it. Producer errors are returned without
// caching anything.
//
// Concurrent callers for the same key may each invoke producer; the last
// writer wins. That is acceptable because producers are idempotent reads
// of the underlying store.
func (c *Cache[V]) Wrap(key string, producer func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := producer()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, v)
	return v, nil
}

// Len returns the number of live entries, including any not-yet-collected
// expired ones.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// remove drops an element from both the map and the recency list.
// Caller must hold the lock.
func (c *Cache[V]) remove(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(c.entries, e.key)
	c.order.Remove(el)
}

// expired reports whether an entry's TTL has passed.
// Caller must hold the lock.
func (c *Cache[V]) expired(e *entry[V]) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}
