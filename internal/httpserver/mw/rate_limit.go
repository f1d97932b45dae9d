package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tidymark/internal/utils"
)

// RateLimitConfig tunes the per-IP token bucket limiter.
type RateLimitConfig struct {
	// Burst is the bucket capacity: how many requests a quiet client may
	// fire back to back.
	Burst int
	// RefillPerIPPerMin is the sustained request rate per client.
	RefillPerIPPerMin int
	// MaxEntries caps the bucket map; reaching it forces an idle sweep.
	MaxEntries    int
	SweepInterval time.Duration
	IdleTTL       time.Duration
	TrustProxy    bool
}

func (c *RateLimitConfig) applyDefaults() {
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.RefillPerIPPerMin < 1 {
		c.RefillPerIPPerMin = 1
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
}

// bucket is one client's token state. Its own lock keeps refill math off
// the limiter's map lock.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	refilled time.Time
	seen     time.Time
}

type limiter struct {
	cfg        RateLimitConfig
	perSecond  float64
	capacity   float64
	mu         sync.Mutex
	byClient   map[string]*bucket
	sweptAt    time.Time
	limitValue string
}

func newLimiter(cfg RateLimitConfig) *limiter {
	cfg.applyDefaults()
	return &limiter{
		cfg:        cfg,
		perSecond:  float64(cfg.RefillPerIPPerMin) / 60.0,
		capacity:   float64(cfg.Burst),
		byClient:   make(map[string]*bucket),
		sweptAt:    time.Now(),
		limitValue: strconv.Itoa(cfg.Burst),
	}
}

func (l *limiter) bucketFor(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.MaxEntries > 0 && len(l.byClient) >= l.cfg.MaxEntries {
		l.dropIdleLocked(now)
	}
	b, ok := l.byClient[key]
	if !ok {
		b = &bucket{tokens: l.capacity, refilled: now, seen: now}
		l.byClient[key] = b
	}
	return b
}

// take consumes one token. When the bucket is dry it reports how many
// seconds until the next token materializes.
func (l *limiter) take(key string, now time.Time) (ok bool, remaining, retryAfter int) {
	b := l.bucketFor(key, now)

	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.refilled).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.capacity, b.tokens+elapsed*l.perSecond)
		b.refilled = now
	}
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}

	wait := int(math.Ceil((1 - b.tokens) / l.perSecond))
	if wait < 1 {
		wait = 1
	}
	return false, 0, wait
}

func (l *limiter) dropIdleLocked(now time.Time) {
	for key, b := range l.byClient {
		if now.Sub(b.seen) > l.cfg.IdleTTL {
			delete(l.byClient, key)
		}
	}
	l.sweptAt = now
}

func (l *limiter) maybeSweep(now time.Time) {
	l.mu.Lock()
	if now.Sub(l.sweptAt) >= l.cfg.SweepInterval {
		l.dropIdleLocked(now)
	}
	l.mu.Unlock()
}

// RateLimit applies a per-client-IP token bucket. Rejected requests get
// 429 with Retry-After; accepted ones carry X-RateLimit headers.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			l.maybeSweep(now)

			ok, remaining, retryAfter := l.take(utils.ClientIP(r, l.cfg.TrustProxy), now)
			w.Header().Set("X-RateLimit-Limit", l.limitValue)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
