package cache

import (
	"context"
	"time"
)

// Cache stores JSON encoded values. Get reports a miss as (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

const ProductKeyPrefix = "product"

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

// ProductKeys lists every key a product may be cached under.
func ProductKeys(id, slug string) []string {
	keys := []string{Key(ProductKeyPrefix, id)}
	if slug != "" {
		keys = append(keys, Key(ProductKeyPrefix, slug))
	}
	return keys
}
