package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"tenanthub-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// RateLimit tracks request counts for a single client
type RateLimit struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// RateLimiter keeps per-IP request counters for the API gateway
type RateLimiter struct {
	store       map[string]*RateLimit
	mutex       sync.Mutex
	cleanupTime time.Duration
}

// RateLimitConfig holds the limits applied to a request class
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// NewRateLimitConfig builds the global limit from environment variables
func NewRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()

	return RateLimitConfig{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
	}
}

// AuthRateLimitConfig returns the stricter limit applied to /api/auth
// endpoints. Login and register are the brute-force surface, so they
// get a fraction of the global budget.
func AuthRateLimitConfig(global RateLimitConfig) RateLimitConfig {
	maxRequests := global.MaxRequests / 10
	if maxRequests < 5 {
		maxRequests = 5
	}
	return RateLimitConfig{
		MaxRequests:   maxRequests,
		TimeWindow:    global.TimeWindow,
		BlockDuration: global.BlockDuration * 2,
	}
}

// NewRateLimiter creates a limiter and starts its cleanup loop
func NewRateLimiter(cleanupTime time.Duration) *RateLimiter {
	limiter := &RateLimiter{
		store:       make(map[string]*RateLimit),
		cleanupTime: cleanupTime,
	}

	go limiter.cleanup()

	return limiter
}

// cleanup drops counters that have been idle for over 24 hours
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTime)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		now := time.Now()
		for key, limit := range rl.store {
			if now.Sub(limit.LastAccess) > 24*time.Hour {
				delete(rl.store, key)
			}
		}
		rl.mutex.Unlock()
	}
}

// isAllowed checks and updates the counter for the given key
func (rl *RateLimiter) isAllowed(key string, config RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	limit, exists := rl.store[key]

	if !exists {
		rl.store[key] = &RateLimit{
			Count:      1,
			ResetAt:    now.Add(config.TimeWindow),
			LastAccess: now,
		}
		return true
	}

	if limit.Blocked {
		if now.Before(limit.BlockUntil) {
			return false
		}
		limit.Blocked = false
		limit.Count = 1
		limit.ResetAt = now.Add(config.TimeWindow)
		limit.LastAccess = now
		return true
	}

	if now.After(limit.ResetAt) {
		limit.Count = 1
		limit.ResetAt = now.Add(config.TimeWindow)
		limit.LastAccess = now
		return true
	}

	if limit.Count >= config.MaxRequests {
		limit.Blocked = true
		limit.BlockUntil = now.Add(config.BlockDuration)
		limit.LastAccess = now
		return false
	}

	limit.Count++
	limit.LastAccess = now
	return true
}

// RateLimitMiddleware applies per-IP limits to all gateway traffic.
// Requests under /api/auth are counted against a separate, stricter
// budget so a credential-stuffing burst cannot hide inside the global
// allowance.
func (rl *RateLimiter) RateLimitMiddleware(global RateLimitConfig) gin.HandlerFunc {
	authConfig := AuthRateLimitConfig(global)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		key := "global:" + clientIP
		limitConfig := global
		if strings.HasPrefix(c.Request.URL.Path, "/api/auth/") {
			key = "auth:" + clientIP
			limitConfig = authConfig
		}

		if !rl.isAllowed(key, limitConfig) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests from this IP. Please try again later.",
				"retry_after": limitConfig.BlockDuration.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
