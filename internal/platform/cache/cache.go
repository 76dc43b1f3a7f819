// Package cache keeps short-lived copies of backend listings.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores JSON-encodable values. Get reports a miss with false and a nil
// error.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// LRUCache is the in-process fallback. Values are stored encoded so callers
// never share memory with the cache.
type LRUCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewLRU holds at most size entries, each for at most ttl. A zero ttl keeps
// entries until evicted.
func NewLRU(size int, ttl time.Duration) *LRUCache {
	if size < 1 {
		size = 1
	}
	return &LRUCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.lru.Remove(key)
		return false, nil
	}
	return true, nil
}

// Set ignores ttl; every entry lives for the cache-wide ttl.
func (c *LRUCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("lru.Set %s: %w", key, err)
	}
	c.lru.Add(key, raw)
	return nil
}

func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *LRUCache) Len() int { return c.lru.Len() }
