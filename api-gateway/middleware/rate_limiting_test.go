package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testLimitConfig(maxRequests int) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests:   maxRequests,
		TimeWindow:    time.Minute,
		BlockDuration: time.Minute,
	}
}

func TestIsAllowedWithinLimit(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	cfg := testLimitConfig(3)

	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
}

func TestIsAllowedBlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	cfg := testLimitConfig(2)

	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
	assert.False(t, rl.isAllowed("global:1.2.3.4", cfg))
	// Blocked stays blocked within the block window.
	assert.False(t, rl.isAllowed("global:1.2.3.4", cfg))

	// Other clients are unaffected.
	assert.True(t, rl.isAllowed("global:5.6.7.8", cfg))
}

func TestIsAllowedUnblocksAfterBlockExpires(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	cfg := testLimitConfig(1)

	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
	assert.False(t, rl.isAllowed("global:1.2.3.4", cfg))

	rl.mutex.Lock()
	rl.store["global:1.2.3.4"].BlockUntil = time.Now().Add(-time.Second)
	rl.mutex.Unlock()

	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
}

func TestIsAllowedResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	cfg := testLimitConfig(2)

	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))

	rl.mutex.Lock()
	rl.store["global:1.2.3.4"].ResetAt = time.Now().Add(-time.Second)
	rl.mutex.Unlock()

	assert.True(t, rl.isAllowed("global:1.2.3.4", cfg))
}

func TestAuthRateLimitConfig(t *testing.T) {
	global := RateLimitConfig{
		MaxRequests:   100,
		TimeWindow:    time.Minute,
		BlockDuration: 15 * time.Minute,
	}

	authCfg := AuthRateLimitConfig(global)
	assert.Equal(t, 10, authCfg.MaxRequests)
	assert.Equal(t, global.TimeWindow, authCfg.TimeWindow)
	assert.Equal(t, 30*time.Minute, authCfg.BlockDuration)

	// Small global budgets never push the auth budget below 5.
	authCfg = AuthRateLimitConfig(testLimitConfig(10))
	assert.Equal(t, 5, authCfg.MaxRequests)
}

func TestRateLimitMiddlewareSeparatesAuthBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(time.Hour)
	global := RateLimitConfig{
		MaxRequests:   50,
		TimeWindow:    time.Minute,
		BlockDuration: time.Minute,
	}

	router := gin.New()
	router.Use(rl.RateLimitMiddleware(global))
	router.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/workspaces", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method, path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "9.9.9.9:1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	// Auth budget is 5. Exhaust it.
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/auth/login"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/api/auth/login"))

	// The global budget is still open for the same IP.
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/workspaces"))
}
