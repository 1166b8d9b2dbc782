package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the default rate limit per minute
	DefaultRateLimit = 10
	// DefaultBurstSize is the default burst size
	DefaultBurstSize = 3
	// CleanupInterval is the interval for cleaning up stale limiters
	CleanupInterval = 5 * time.Minute
	// LimiterTTL is the time-to-live for inactive limiters
	LimiterTTL = 10 * time.Minute
)

// RateLimiter manages per-client rate limiting, keyed by client IP
type RateLimiter struct {
	limiters          map[string]*limiterEntry
	mu                sync.RWMutex
	requestsPerMinute int
	rateLimit         float64
	burstSize         int
	stopCh            chan struct{}
	stopOnce          sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new RateLimiter with default settings
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig creates a RateLimiter with custom configuration
func NewRateLimiterWithConfig(requestsPerMinute int, burstSize int) *RateLimiter {
	if burstSize <= 0 {
		burstSize = 1
	}
	rl := &RateLimiter{
		limiters:          make(map[string]*limiterEntry),
		requestsPerMinute: requestsPerMinute,
		rateLimit:         float64(requestsPerMinute) / 60.0,
		burstSize:         burstSize,
		stopCh:            make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Allow takes a token for clientID and reports whether the request may proceed
func (r *RateLimiter) Allow(clientID string) bool {
	return r.take(clientID).allowed
}

// quota is the outcome of one take: whether it succeeded, the whole tokens left, how long
// until the next token and how long until the bucket is full again
type quota struct {
	allowed   bool
	remaining int
	nextToken time.Duration
	refill    time.Duration
}

func (r *RateLimiter) take(clientID string) quota {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, exists := r.limiters[clientID]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.rateLimit), r.burstSize)}
		r.limiters[clientID] = entry
	}
	entry.lastSeen = now

	q := quota{allowed: entry.limiter.AllowN(now, 1)}
	tokens := entry.limiter.TokensAt(now)
	if tokens > 0 {
		q.remaining = int(tokens)
	}
	if r.rateLimit > 0 {
		if tokens < 1 {
			q.nextToken = secondsToDuration((1 - tokens) / r.rateLimit)
		}
		q.refill = secondsToDuration((float64(r.burstSize) - tokens) / r.rateLimit)
	}
	return q
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// cleanup drops limiters idle for longer than LimiterTTL
func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			now := time.Now()
			for clientID, entry := range r.limiters {
				if now.Sub(entry.lastSeen) > LimiterTTL {
					delete(r.limiters, clientID)
					log.Debug().Str("client", clientID).Msg("Cleaned up stale rate limiter")
				}
			}
			r.mu.Unlock()
		case <-r.stopCh:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// RateLimitMiddleware returns an Echo middleware that rate limits by client IP
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	limit := strconv.Itoa(rl.requestsPerMinute)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := c.RealIP()
			q := rl.take(clientID)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(q.remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(q.refill).Unix(), 10))
			if q.allowed {
				return next(c)
			}

			retryAfter := int(math.Ceil(q.nextToken.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			log.Warn().
				Str("client", clientID).
				Str("path", c.Request().URL.Path).
				Int("retry_after", retryAfter).
				Msg("Rate limit exceeded")
			return rateLimitError(c, retryAfter)
		}
	}
}
