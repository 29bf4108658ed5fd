package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per caller. Buckets live in a bounded
// LRU so idle callers are eventually forgotten.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst, size int) (*RateLimiter, error) {
	if size <= 0 {
		size = 10000
	}
	if burst <= 0 {
		burst = 1
	}
	l, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		limiters: l,
		limit:    rate.Limit(rps),
		burst:    burst,
	}, nil
}

// Allow takes one token from key's bucket.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	limiter, ok := r.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.limiters.Add(key, limiter)
	}
	r.mu.Unlock()
	return limiter.Allow()
}

// Middleware limits by caller id, or by client IP for anonymous requests.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := Caller(c)
		if !ok {
			key = "ip:" + c.ClientIP()
		}
		if !r.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
