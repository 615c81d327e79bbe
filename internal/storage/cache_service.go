package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService provides high-level caching for slow-changing reference data
// (state benchmarks, servicer fee schedules). Model results are never cached;
// they are ephemeral by design.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// CacheKeyType represents different types of cache keys
type CacheKeyType string

const (
	// CacheKeyStateRef is for state benchmark records
	CacheKeyStateRef CacheKeyType = "stateref"
	// CacheKeyServicer is for servicer fee schedules
	CacheKeyServicer CacheKeyType = "servicer"
	// CacheKeyTrade is for trade assumptions
	CacheKeyTrade CacheKeyType = "trade"
)

// GenerateCacheKey generates a cache key for a given type and parameters.
// Format: <type>:<param1>:<param2>:...
func (c *CacheService) GenerateCacheKey(keyType CacheKeyType, params ...string) string {
	normalized := make([]string, len(params))
	for i, param := range params {
		normalized[i] = strings.ToLower(param)
	}

	parts := append([]string{string(keyType)}, normalized...)
	return strings.Join(parts, ":")
}

// GenerateStateRefKey generates a cache key for a state benchmark record
func (c *CacheService) GenerateStateRefKey(stateCode string) string {
	return c.GenerateCacheKey(CacheKeyStateRef, stateCode)
}

// GenerateServicerKey generates a cache key for a servicer fee schedule
func (c *CacheService) GenerateServicerKey(servicerID string) string {
	return c.GenerateCacheKey(CacheKeyServicer, servicerID)
}

// GenerateTradeKey generates a cache key for trade assumptions
func (c *CacheService) GenerateTradeKey(tradeID string) string {
	return c.GenerateCacheKey(CacheKeyTrade, tradeID)
}

// Set stores a value in cache with the configured TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value in cache with a custom TTL
func (c *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redis.Set(ctx, key, data, ttl)
}

// Get retrieves a value from cache and deserializes it. The boolean reports
// whether the key was present; a miss is not an error.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return true, nil
}

// Invalidate removes keys from the cache
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) error {
	return c.redis.Del(ctx, keys...)
}
