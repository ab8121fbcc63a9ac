package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"cardsynch/internal/pkg/errors"
	"cardsynch/internal/platform/config"
)

const (
	LimitPublic   = "public"
	LimitAPIRead  = "api_read"
	LimitAPIWrite = "api_write"
)

type RateLimiter struct {
	store  *sync.Map // map[string]*Bucket
	limits map[string]int
}

type Bucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
	// We need to know when it was last accessed to clean it up
	lastAccess time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	limits := map[string]int{
		LimitPublic:   cfg.PublicPerMinute,
		LimitAPIRead:  cfg.APIReadPerMinute,
		LimitAPIWrite: cfg.APIWritePerMinute,
	}
	for name, limit := range limits {
		if limit <= 0 {
			limits[name] = defaultLimits[name]
		}
	}

	rl := &RateLimiter{
		store:  &sync.Map{},
		limits: limits,
	}

	// Start cleanup routine
	go rl.cleanupLoop()

	return rl
}

var defaultLimits = map[string]int{
	LimitPublic:   600,
	LimitAPIRead:  1000,
	LimitAPIWrite: 100,
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.store.Range(func(key, value interface{}) bool {
			bucket := value.(*Bucket)
			bucket.mu.Lock()
			// If not accessed in last 10 minutes, delete it
			if now.Sub(bucket.lastAccess) > 10*time.Minute {
				rl.store.Delete(key)
			}
			bucket.mu.Unlock()
			return true
		})
	}
}

func (rl *RateLimiter) Allow(key string, limit int) bool {
	now := time.Now()

	val, _ := rl.store.LoadOrStore(key, &Bucket{
		tokens:     limit,
		lastRefill: now,
		lastAccess: now,
	})

	bucket := val.(*Bucket)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.lastAccess = now

	// Refill bucket
	elapsed := now.Sub(bucket.lastRefill)

	// Rate is limit / 60 seconds
	refillRate := float64(limit) / 60.0
	refillTokens := int(elapsed.Seconds() * refillRate)

	if refillTokens > 0 {
		if bucket.tokens+refillTokens > limit {
			bucket.tokens = limit
		} else {
			bucket.tokens += refillTokens
		}
		bucket.lastRefill = now
	}

	// Check availability
	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}

	return false
}

// Limit buckets requests per client IP for the named limit class.
func (rl *RateLimiter) Limit(limitType string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := fmt.Sprintf("%s:%s", ip, limitType)

			limit, ok := rl.limits[limitType]
			if !ok {
				limit = 100
			}

			if !rl.Allow(key, limit) {
				w.Header().Set("Retry-After", "60")
				errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
				return
			}

			next(w, r)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
