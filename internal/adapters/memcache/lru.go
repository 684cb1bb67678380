// Package memcache provides an in-process bounded cache for deployments
// without an external cache. Capacity-bounded LRU with a fixed TTL, so a
// long-lived process cannot grow it without limit.
package memcache

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache implements ports.CacheService on an expirable LRU.
type Cache struct {
	lru *expirable.LRU[string, []byte]
}

// New creates a Cache holding at most size entries for at most ttl.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 4096
	}
	return &Cache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}
	return nil, ErrMiss
}

// Set stores a value. The TTL is fixed at construction; ttlSeconds is
// accepted for interface compatibility and ignored.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.lru.Add(key, value)
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}
