package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront-cart/internal/config"
	"github.com/redis/go-redis/v9"
)

// RateLimitRepository keeps a sliding window of request timestamps per key.
type RateLimitRepository interface {
	// Allow records a hit for key and reports whether it is within the limit,
	// how many hits remain, and the seconds to wait when it is not.
	Allow(ctx context.Context, key string) (bool, int, int, error)
}

type RateLimitOption func(*redisRateLimiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) RateLimitOption {
	return func(r *redisRateLimiter) { r.now = now }
}

type redisRateLimiter struct {
	client *redis.Client
	cfg    config.RateConfig
	now    func() time.Time
}

func NewRedisClient(cfg *config.RedisConnect) (*redis.Client, error) {
	slog.Info("Connecting to Redis", slog.String("url", fmt.Sprintf("redis://%s:<password>@%s:%s", cfg.Username, cfg.Host, cfg.Port)))

	opt, err := redis.ParseURL(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Successfully connected to Redis")
	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg config.RateConfig, opts ...RateLimitOption) RateLimitRepository {
	r := &redisRateLimiter{client: client, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func RateLimitKey(clientID string) string {
	return "ratelimit:" + clientID
}

func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, int, int, error) {
	ts := r.now()
	now := ts.UnixMilli()
	windowMs := r.cfg.WindowSize.Milliseconds()

	// only hits after windowStart are counted
	windowStart := now - windowMs

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: strconv.FormatInt(ts.UnixNano(), 10)})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	hits := count.Val()
	if hits <= r.cfg.MaxRequests {
		return true, int(r.cfg.MaxRequests - hits), 0, nil
	}

	// already over the limit; without the oldest hit, wait a full window
	oldest, err := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).Result()
	if err != nil {
		slog.WarnContext(ctx, "Failed to get oldest rate limit hit", slog.String("key", key), slog.String("error", err.Error()))
		return false, 0, int(r.cfg.WindowSize.Seconds()), nil
	}
	if len(oldest) == 0 {
		return false, 0, int(r.cfg.WindowSize.Seconds()), nil
	}

	waitMs := max(int64(oldest[0].Score)+windowMs-now, 0)
	retryAfter := int((waitMs + 999) / 1000)

	return false, 0, retryAfter, nil
}
