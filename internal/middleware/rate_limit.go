package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/ttlcache/v3"

	"github.com/poc3/api-backend/internal/models"
)

type fixedWindow struct {
	count   int
	resetAt time.Time
}

// Decision is the outcome of a single Allow call
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// FixedWindowLimiter counts requests per key in fixed windows.
// The first request from a key opens a window of the configured length;
// once limit requests have been counted the key is refused until the window ends.
type FixedWindowLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows *ttlcache.Cache[string, *fixedWindow]
}

// NewFixedWindowLimiter creates a limiter and starts its expiry loop.
// Call Stop to release it.
func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	windows := ttlcache.New[string, *fixedWindow](
		ttlcache.WithTTL[string, *fixedWindow](window),
		ttlcache.WithDisableTouchOnHit[string, *fixedWindow](),
	)
	go windows.Start()

	return &FixedWindowLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: windows,
	}
}

// Limit returns the number of requests allowed per window
func (l *FixedWindowLimiter) Limit() int {
	return l.limit
}

// Stop ends the background expiry loop
func (l *FixedWindowLimiter) Stop() {
	l.windows.Stop()
}

// Allow records a request for key and reports whether it is within the limit
func (l *FixedWindowLimiter) Allow(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	var w *fixedWindow
	if item := l.windows.Get(key); item != nil {
		w = item.Value()
	}

	if w == nil || !now.Before(w.resetAt) {
		w = &fixedWindow{resetAt: now.Add(l.window)}
		l.windows.Set(key, w, l.window)
	}

	if w.count >= l.limit {
		return Decision{Allowed: false, Remaining: 0, RetryAfter: w.resetAt.Sub(now)}
	}

	w.count++
	return Decision{Allowed: true, Remaining: l.limit - w.count, RetryAfter: 0}
}

// RateLimit rejects clients that exceed the limiter with 429 Too Many Requests.
// Clients are keyed by gin's ClientIP, which honours only trusted proxies.
// Paths in exempt are never counted.
func RateLimit(limiter *FixedWindowLimiter, exempt ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		skip[path] = struct{}{}
	}

	limit := strconv.Itoa(limiter.Limit())

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		decision := limiter.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "Too Many Requests",
				Message: fmt.Sprintf("Too many requests from this IP, please try again in %d seconds", retryAfter),
			})
			return
		}

		c.Next()
	}
}
