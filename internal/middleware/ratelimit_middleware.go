package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/models/dto"
)

type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// rateLimiter is a per-client-IP token bucket. Buckets refill at the
// configured per-minute rate and idle entries are dropped lazily.
type rateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	perMinute float64
	burst     float64
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{
		buckets:   make(map[string]*tokenBucket),
		perMinute: float64(perMinute),
		burst:     float64(perMinute),
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		rl.buckets[key] = &tokenBucket{tokens: rl.burst - 1, lastSeen: now}
		rl.sweep(now)
		return true
	}

	elapsed := now.Sub(b.lastSeen).Minutes()
	b.tokens += elapsed * rl.perMinute
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets idle for over ten minutes. Called with the lock
// held, only when a new client shows up.
func (rl *rateLimiter) sweep(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > 10*time.Minute {
			delete(rl.buckets, key)
		}
	}
}

// RateLimit caps requests per client IP. A non-positive limit disables
// the middleware.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newRateLimiter(perMinute)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			detail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "too many requests")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}
