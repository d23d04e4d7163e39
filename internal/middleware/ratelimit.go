package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window in-memory limiter. Good enough for a single
// instance; keyed by user id when authenticated, client IP otherwise.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	r := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}
	go r.evict()
	return r
}

func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	w := r.windows[key]
	if w == nil || now.Sub(w.start) >= r.span {
		r.windows[key] = &window{start: now, count: 1}
		return true
	}
	if w.count >= r.limit {
		return false
	}
	w.count++
	return true
}

func (r *RateLimiter) evict() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		r.mu.Lock()
		cutoff := time.Now().Add(-r.span)
		for k, w := range r.windows {
			if w.start.Before(cutoff) {
				delete(r.windows, k)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimit limits request rates per caller.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if v, ok := c.Get("user_id"); ok {
			if id, ok := v.(uint); ok && id != 0 {
				key = "u:" + strconv.FormatUint(uint64(id), 10)
			}
		}
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
