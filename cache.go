package benchboard

import (
	"sort"
	"sync"
)

// EnvironmentCache provides thread-safe, in-memory access to snapshots of
// data loaded from elsewhere, such as a results bucket or a database.
// Values are replaced wholesale and never mutated in place, so readers that
// retrieved a value keep a consistent view across a reload.
type EnvironmentCache interface {
	// PutNew adds new (key, value) pair to the cache.
	PutNew(string, interface{}) bool
	// Swap replaces the value of the given key, returning the previous
	// value, if any.
	Swap(string, interface{}) (interface{}, bool)
	// Get returns the value of the given key.
	Get(string) (interface{}, bool)
	// Delete removes the given key from the cache.
	Delete(string)
	// Keys returns the cached key names in sorted order.
	Keys() []string
}

type envCache struct {
	mu    sync.RWMutex
	cache map[string]interface{}
}

func newEnvironmentCache() *envCache {
	return &envCache{
		cache: map[string]interface{}{},
	}
}

// PutNew adds a new value to the cache with the given key name, returning true
// on success. If the key already exists, this noops and returns false.
func (c *envCache) PutNew(key string, value interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cache[key]; ok {
		return false
	}

	c.cache[key] = value
	return true
}

// Swap stores value under key regardless of whether the key exists and
// returns the value it replaced.
func (c *envCache) Swap(key string, value interface{}) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.cache[key]
	c.cache[key] = value

	return prev, ok
}

// Get returns the value of key and true if the key exists. Otherwise, nil and
// false are returned.
func (c *envCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.cache[key]
	return value, ok
}

// Delete removes the given key from the cache.
func (c *envCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, key)
}

func (c *envCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.cache))
	for k := range c.cache {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
