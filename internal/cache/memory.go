package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// cacheItem keeps serialized bytes so hits behave like a Redis round trip.
type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache with per-key expiry.
type Memory struct {
	mu         sync.RWMutex
	store      map[string]cacheItem
	defaultTTL time.Duration
	stopChan   chan struct{}
	stopOnce   sync.Once
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a Memory cache and starts its cleanup loop.
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Second
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	c := &Memory{
		store:      make(map[string]cacheItem),
		defaultTTL: defaultTTL,
		stopChan:   make(chan struct{}),
	}
	go c.cleanupLoop(cleanupInterval)
	return c
}

// Get implements Cache.
func (c *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	item, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(item.value, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set implements Cache.
func (c *Memory) Set(_ context.Context, key string, val interface{}, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.store[key] = cacheItem{value: data, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Delete implements Cache.
func (c *Memory) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored keys, expired ones included.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Close stops the cleanup loop. It is safe to call more than once.
func (c *Memory) Close() error {
	c.stopOnce.Do(func() { close(c.stopChan) })
	return nil
}

func (c *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Memory) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, item := range c.store {
		if now.After(item.expiresAt) {
			delete(c.store, k)
		}
	}
}
