package mocks

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryCache is a JSON round-tripping map that satisfies the service's
// snapshot cache interface.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string][]byte

	GetErr    error
	SetErr    error
	DeleteErr error

	Gets, Sets, Deletes int
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]byte)}
}

// Get decodes the value at key into dest.
func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	if c.GetErr != nil {
		return false, c.GetErr
	}
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

// Set stores value at key.
func (c *MemoryCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets++
	if c.SetErr != nil {
		return c.SetErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deletes++
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	delete(c.items, key)
	return nil
}

// Has reports whether key is cached.
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}
