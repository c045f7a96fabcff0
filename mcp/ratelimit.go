package mcp

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

type rateWindow struct {
	count int
	reset time.Time
}

// RateLimiter counts requests per client in fixed windows. The count resets
// when a window expires, there is no sliding average.
type RateLimiter struct {
	limit     int
	window    time.Duration
	now       func() time.Time
	mu        sync.Mutex
	windows   map[string]*rateWindow
	lastSweep time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: map[string]*rateWindow{},
	}
}

// Allow records one request for key and reports whether it is within the
// quota, how many requests remain and when the window resets.
func (l *RateLimiter) Allow(key string) (bool, int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.reset) {
		w = &rateWindow{reset: now.Add(l.window)}
		l.windows[key] = w
	}
	if w.count >= l.limit {
		return false, 0, w.reset
	}
	w.count++
	return true, l.limit - w.count, w.reset
}

// sweep drops expired windows, at most once per window length.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, w := range l.windows {
		if !now.Before(w.reset) {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}

// Middleware enforces the quota for the client identified by the access key,
// or by its IP when authentication is disabled.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(contextKeyClient)
		if key == "" {
			key = c.ClientIP()
		}

		allowed, remaining, reset := l.Allow(key)
		c.Header(headerRateLimit, strconv.Itoa(l.limit))
		c.Header(headerRateRemaining, strconv.Itoa(remaining))
		c.Header(headerRateReset, strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(math.Ceil(reset.Sub(l.now()).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Rate limit exceeded",
				"retryAfter": retryAfter,
			})
			return
		}
		c.Next()
	}
}
