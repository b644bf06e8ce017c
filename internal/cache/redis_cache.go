package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-cart/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// redisCache keeps JSON documents under plain string keys. Lookups are
// counted per key prefix so product hit rates show up on /metrics.
type redisCache struct {
	client     redis.Cmdable
	defaultTTL time.Duration
}

func NewRedisCache(client redis.Cmdable, defaultTTL time.Duration) Cache {
	return &redisCache{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {
	prefix := keyPrefix(key)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheLookup(prefix, metrics.CacheMiss)
		return false, nil
	case err != nil:
		metrics.RecordCacheLookup(prefix, metrics.CacheError)
		return false, fmt.Errorf("failed to get key %s from redis: %w", key, err)
	}

	// a payload that no longer decodes is reported like any other failure;
	// the caller falls through to the store and overwrites it
	if err := json.Unmarshal(data, value); err != nil {
		metrics.RecordCacheLookup(prefix, metrics.CacheError)
		return false, fmt.Errorf("failed to decode cached value for key %s: %w", key, err)
	}

	metrics.RecordCacheLookup(prefix, metrics.CacheHit)
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	return wrapRedisErr(r.client.Set(ctx, key, data, ttl).Err(), "set", key)
}

// Delete unlinks keys so large values are reclaimed off the redis main thread.
func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return wrapRedisErr(r.client.Unlink(ctx, keys...).Err(), "delete", strings.Join(keys, ","))
}

// Close is a no-op; the client is owned by the caller.
func (r *redisCache) Close() error {
	return nil
}

func wrapRedisErr(err error, op, key string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s key %s in redis: %w", op, key, err)
}

func keyPrefix(key string) string {
	prefix, _, found := strings.Cut(key, ":")
	if !found {
		return "none"
	}
	return prefix
}
