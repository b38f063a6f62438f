package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// RateLimiter is a sliding-window limiter keyed by client
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string][]time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// A background sweep drops idle clients.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string][]time.Time),
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for key, stamps := range rl.clients {
			kept := stamps[:0]
			for _, s := range stamps {
				if s.After(cutoff) {
					kept = append(kept, s)
				}
			}
			if len(kept) == 0 {
				delete(rl.clients, key)
			} else {
				rl.clients[key] = kept
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether the key may make another request now
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	stamps := rl.clients[key]
	kept := stamps[:0]
	for _, s := range stamps {
		if s.After(cutoff) {
			kept = append(kept, s)
		}
	}

	if len(kept) >= rl.limit {
		rl.clients[key] = kept
		return false
	}

	rl.clients[key] = append(kept, now)
	return true
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByKey limits requests using a custom key function
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(keyFunc(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests"))
			return
		}
		c.Next()
	}
}
