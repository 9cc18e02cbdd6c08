package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb redis.Cmdable, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb redis.Cmdable, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb redis.Cmdable, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// RedisCache binds the cache helpers to one client and TTL
type RedisCache struct {
	rdb redis.Cmdable // Redis client
	ttl time.Duration // Entry lifetime
}

// NewRedisCache creates a RedisCache
func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get loads key into dest, reporting whether it was present
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return GetCache(ctx, c.rdb, key, dest)
}

// Set stores value under key with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	return SetCache(ctx, c.rdb, key, value, c.ttl)
}

// Delete removes key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return DeleteCache(ctx, c.rdb, key)
}
