// Package cache provides the key-value store that fronts catalog reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCache marks failures of the cache layer itself (unreachable store,
// unreadable payload). It is never reported as a miss.
var ErrCache = errors.New("cache error")

// MoviesPageTTL is how long a cached movie page stays valid
const MoviesPageTTL = 3600 * time.Second

// Cache stores raw values with an expiration
type Cache interface {
	// Get returns found=false on a miss; err is non-nil only for cache failures.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// MoviesPageKey derives the cache key of one movie page
func MoviesPageKey(page, perPage int) string {
	return fmt.Sprintf("movies:page:%d:per_page:%d", page, perPage)
}

// GetJSON decodes a cached value into dst
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	raw, found, err := c.Get(ctx, key)
	if err != nil {
		return false, wrap("get", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, wrap("decode", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return wrap("encode", key, err)
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		return wrap("set", key, err)
	}
	return nil
}

func wrap(op, key string, err error) error {
	if errors.Is(err, ErrCache) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %w", ErrCache, op, key, err)
}
