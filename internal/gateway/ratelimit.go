package gateway

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shareit/internal/api"
	"shareit/internal/config"
)

// rateLimiter keeps one token bucket per caller. Callers are keyed by
// the identity header when present, otherwise by client IP.
type rateLimiter struct {
	rps      rate.Limit
	burst    int
	limiters sync.Map
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		rps:   rate.Limit(cfg.RPS),
		burst: cfg.Burst,
	}
}

func (rl *rateLimiter) limiterFor(key string) *rate.Limiter {
	if v, ok := rl.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rps, rl.burst))
	return v.(*rate.Limiter)
}

func (rl *rateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(api.HeaderUserID)
		if key == "" {
			key = c.ClientIP()
		}
		if !rl.limiterFor(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
