// Package middleware: per-client token-bucket rate limiting.
//
// Buckets live in process memory and are keyed by session fingerprint when
// the request is authenticated, else by client IP. Idle buckets are evicted
// opportunistically. The limiter guards the upstream nutrition API quota and
// the login endpoint; it is not an authorization mechanism.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc maps a request to its bucket identity.
type keyFunc func(*gin.Context) string

// KeyBySessionOrIP keys authenticated requests by session fingerprint and
// the rest by client IP. The prefixes keep the two namespaces apart.
func KeyBySessionOrIP() keyFunc {
	return func(c *gin.Context) string {
		if s := SessionFrom(c); s != "" {
			return "session:" + s
		}
		return "ip:" + c.ClientIP()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-key token-bucket limiter. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	lookups  uint64
}

// NewRateLimiter returns a limiter refilling rps tokens per second with the
// given burst. rps <= 0 disables limiting; burst <= 0 is coerced to 1.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	lim := rate.Limit(rps)
	if rps <= 0 {
		lim = rate.Inf
	}
	if keyFn == nil {
		keyFn = KeyBySessionOrIP()
	}
	return &RateLimiter{
		rps:      lim,
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
	}
}

// limiterFor returns the bucket for key. Every 5000 lookups it first sweeps
// buckets idle for at least ttl, so a stale bucket is dropped before reuse.
func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= 5000 {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// Handler answers 429 with the JSON error envelope and a Retry-After hint
// once a client's bucket is empty. Mount it after RequireSession on
// authenticated groups so requests are keyed by session.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		r := rl.limiterFor(rl.keyFn(c), time.Now()).Reserve()
		if r.OK() && r.Delay() == 0 {
			c.Next()
			return
		}
		retry := 1
		if r.OK() {
			if secs := int(r.Delay().Seconds()); secs > retry {
				retry = secs
			}
			r.Cancel()
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		abortJSON(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
	}
}
