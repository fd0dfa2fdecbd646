package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/pkg/metrics"
	"golang.org/x/time/rate"
)

// buckets hands out one token bucket per client key.
type buckets struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	m     map[string]*rate.Limiter
}

func (b *buckets) get(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.m[key]
	if !ok {
		l = rate.NewLimiter(b.rps, b.burst)
		b.m[key] = l
	}
	return l
}

// limitKey prefers the authenticated user, falling back to the client IP.
func limitKey(c *gin.Context) string {
	if id := UserID(c); id != "" {
		return "user:" + id
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimitMiddleware enforces an in-process token bucket per key that
// refills at rps and holds at most burst tokens.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	b := &buckets{rps: rate.Limit(rps), burst: burst, m: map[string]*rate.Limiter{}}
	return func(c *gin.Context) {
		if !b.get(limitKey(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			respond.Abort(c, respond.TooMany)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
