// internal/handlers/middleware/rate_limit_redis.go
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimit implements rate limiting per IP backed by Redis, so
// limits hold across multiple API instances. On Redis failure requests
// pass through rather than blocking traffic.
func RedisRateLimit(client *redis.Client, l *slog.Logger, requests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := fmt.Sprintf("ratelimit:%s", getClientIP(r))

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				l.WarnContext(ctx, "rate_limit_redis_unavailable",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				if err := client.Expire(ctx, key, window).Err(); err != nil {
					l.WarnContext(ctx, "rate_limit_expire_failed",
						slog.String("error", err.Error()))
				}
			}

			if count > int64(requests) {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
