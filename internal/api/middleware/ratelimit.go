package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront-cart/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils/response"
)

type RateLimiter struct {
	repo  repository.RateLimitRepository
	limit int64
}

func NewRateLimiter(repo repository.RateLimitRepository, limit int64) *RateLimiter {
	return &RateLimiter{repo: repo, limit: limit}
}

// Limit counts requests per client IP. Redis failures let the request through.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())
		ip := clientIP(r)

		allowed, remaining, retryAfter, err := l.repo.Allow(r.Context(), repository.RateLimitKey(ip))
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", slog.String("error", err.Error()))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			metrics.RecordRateLimited()
			logger.Warn("Rate limit exceeded", slog.String("client_ip", ip), slog.Int("retry_after", retryAfter))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			response.Error(w, errors.TooManyRequestsError("Too many requests, please try again later").
				WithDetail("retryAfter", retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
