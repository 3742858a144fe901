package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultKeyPrefix = "creolespeak:translate:"

// RedisCache is a Redis-backed translation cache. Entries survive
// process restarts, which suits repeated phrase lookups from the
// browser client.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to Redis at the given URL and probes the
// connection before returning.
func NewRedisCache(redisURL string, ttlSeconds int) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisCacheFromClient(client, ttlSeconds, defaultKeyPrefix), nil
}

// NewRedisCacheFromClient wraps an existing client (used by tests with
// a mock client).
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value. Redis errors are treated as cache misses.
func (c *RedisCache) Get(key string) (string, bool) {
	val, err := c.client.Get(context.Background(), c.keyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(key, value string) error {
	return c.client.Set(context.Background(), c.keyPrefix+key, value, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
