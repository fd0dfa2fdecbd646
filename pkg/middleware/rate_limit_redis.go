package middleware

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/postan/postan-api/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// hit counts one request against key. The window opens on the first hit and
// closes when the key expires. It returns the count so far and the time
// left in the window.
func hit(ctx context.Context, client *redis.Client, key string, window time.Duration) (int64, time.Duration, error) {
	cnt, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if cnt == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return cnt, window, nil
	}
	left, err := client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if left < 0 {
		// a key left without expiry by a failed Expire would never reset
		_ = client.Expire(ctx, key, window).Err()
		left = window
	}
	return cnt, left, nil
}

// RedisRateLimitMiddleware limits every instance sharing client to
// rps*window+burst requests per key and window. A nil client falls back to
// the in-process limiter. Redis errors answer 503.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	if window < time.Second {
		window = time.Second
	}
	limit := int64(rps*window.Seconds()) + int64(burst)

	return func(c *gin.Context) {
		cnt, left, err := hit(c.Request.Context(), client, "rl:"+limitKey(c), window)
		if err != nil {
			logger.Errorf("rate limit: %v", err)
			respond.Abort(c, respond.Unavailable)
			return
		}
		if cnt > limit {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(left.Seconds()))))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			respond.Abort(c, respond.TooMany)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
