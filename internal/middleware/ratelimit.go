package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter holds one token bucket per client key (user id or IP).
type KeyedRateLimiter struct {
	entries map[string]*rateLimiterEntry
	mu      sync.Mutex
	r       rate.Limit
	burst   int
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedRateLimiter: r is requests per second, burst the bucket size.
func NewKeyedRateLimiter(r rate.Limit, burst int) *KeyedRateLimiter {
	rl := &KeyedRateLimiter{
		entries: make(map[string]*rateLimiterEntry),
		r:       r,
		burst:   burst,
	}
	go rl.cleanup()
	return rl
}

func (rl *KeyedRateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for key, entry := range rl.entries {
			if time.Since(entry.lastSeen) > 3*time.Minute {
				delete(rl.entries, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *KeyedRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.entries[key]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.r, rl.burst)}
		rl.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

var (
	// 20 per minute
	AuthLimiter = NewKeyedRateLimiter(rate.Limit(20.0/60.0), 10)
	// 30 per minute; every run fans out to one Judge0 call per test case
	RunLimiter = NewKeyedRateLimiter(rate.Limit(0.5), 5)
	// 600 per minute
	GeneralLimiter = NewKeyedRateLimiter(rate.Limit(10.0), 50)
	// 12 per minute
	SubmitLimiter = NewKeyedRateLimiter(rate.Limit(12.0/60.0), 4)
)

func clientKey(c *gin.Context) string {
	if id := c.GetString("userId"); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

func tooManyRequests(c *gin.Context) {
	logger.Warn().
		Str("key", clientKey(c)).
		Str("path", c.Request.URL.Path).
		Msg("Rate limit exceeded")

	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":   "Too many requests",
		"message": "Rate limit exceeded. Please slow down.",
	})
	c.Abort()
}

func RateLimitMiddleware(limiter *KeyedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(clientKey(c)) {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// SharedSubmitQuota caps submissions per user across server instances using
// a Redis counter. Fails open when Redis is unreachable.
func SharedSubmitQuota(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := database.CheckRateLimit("submit:"+clientKey(c), limit, window)
		if err != nil {
			logger.Debug().Err(err).Msg("Shared submit quota unavailable")
			c.Next()
			return
		}
		if !allowed {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func AuthRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(AuthLimiter)
}

func RunRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(RunLimiter)
}

func GeneralRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(GeneralLimiter)
}

func SubmitRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(SubmitLimiter)
}
