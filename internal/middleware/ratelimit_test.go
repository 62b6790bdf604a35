package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newLimitedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set("userId", id)
		}
		c.Next()
	})
	r.Use(handlers...)
	r.POST("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r *gin.Engine, user string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/submit", nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestKeyedRateLimiter_PerKey(t *testing.T) {
	limiter := NewKeyedRateLimiter(rate.Limit(0.001), 2)
	r := newLimitedRouter(RateLimitMiddleware(limiter))

	assert.Equal(t, http.StatusOK, post(r, "alice"))
	assert.Equal(t, http.StatusOK, post(r, "alice"))
	assert.Equal(t, http.StatusTooManyRequests, post(r, "alice"))

	// separate bucket for another user
	assert.Equal(t, http.StatusOK, post(r, "bob"))
}

func TestSharedSubmitQuota(t *testing.T) {
	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { database.Redis = nil }()

	r := newLimitedRouter(SharedSubmitQuota(2, time.Minute))

	assert.Equal(t, http.StatusOK, post(r, "alice"))
	assert.Equal(t, http.StatusOK, post(r, "alice"))
	assert.Equal(t, http.StatusTooManyRequests, post(r, "alice"))
	assert.Equal(t, http.StatusOK, post(r, "bob"))

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, post(r, "alice"))
}

func TestSharedSubmitQuota_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { database.Redis = nil }()
	mr.Close()

	r := newLimitedRouter(SharedSubmitQuota(1, time.Minute))
	assert.Equal(t, http.StatusOK, post(r, "alice"))
	assert.Equal(t, http.StatusOK, post(r, "alice"))
}
