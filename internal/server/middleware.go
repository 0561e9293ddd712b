package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window request limit per client IP, backed
// by Redis INCR/EXPIRE. It fails open: if Redis is unreachable the request
// is served and a warning logged.
type RateLimiter struct {
	client *redis.Client
	window time.Duration
	max    int64
}

// NewRateLimiter creates a limiter allowing max requests per window per
// client IP.
func NewRateLimiter(client *redis.Client, window time.Duration, max int) *RateLimiter {
	return &RateLimiter{client: client, window: window, max: int64(max)}
}

// Middleware wraps next with the rate limit check.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := "ratelimit:" + clientIP(r)

		n, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable, serving request", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if n == 1 {
			// First hit of the window starts the clock.
			if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
				slog.Warn("setting rate limit window", "error", err)
			}
		}

		if n > l.max {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"success": false,
				"message": "Too many requests from this IP, please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the remote address without the port. Proxy headers
// are deliberately ignored; this service is expected to sit behind a
// trusted edge that enforces its own limits.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
