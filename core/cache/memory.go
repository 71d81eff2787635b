package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	counter int64
	expires time.Time
}

// memoryCache is an in-process Cache used when redis is not configured and in tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() Cache {
	return &memoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *memoryCache) live(key string) (memoryEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.live(key)
	c.mu.Unlock()
	if !ok || e.value == nil {
		return false, nil
	}
	return true, json.Unmarshal(e.value, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{value: raw}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) DelPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		e = memoryEntry{expires: c.now().Add(window)}
	}
	e.counter++
	c.entries[key] = e
	return e.counter, nil
}

func (c *memoryCache) Close() error { return nil }
