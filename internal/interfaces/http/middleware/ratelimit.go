package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key. A bucket holds limit
// tokens and refills at limit per window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	limit   int
	every   rate.Limit
	window  time.Duration
	stop    chan struct{}
	once    sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter and starts evicting idle buckets.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	rl := &RateLimiter{
		clients: make(map[string]*bucket),
		limit:   limit,
		every:   rate.Limit(float64(limit) / window.Seconds()),
		window:  window,
		stop:    make(chan struct{}),
	}
	go rl.evict()
	return rl
}

// Stop ends the eviction loop.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) evict() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, b := range rl.clients {
				if now.Sub(b.lastSeen) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.clients[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.clients[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

// Allow reports whether a request from key may proceed and takes a token
// when it may.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.bucket(key).Allow()
}

// Remaining returns the whole tokens left for key.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	b, ok := rl.clients[key]
	rl.mu.Unlock()
	if !ok {
		return rl.limit
	}
	n := int(b.limiter.Tokens())
	if n < 0 {
		return 0
	}
	return n
}

// Limit returns the bucket size.
func (rl *RateLimiter) Limit() int { return rl.limit }

// ClientKey keys limits by company and client address, so each company
// seen from one address gets its own bucket.
func ClientKey(c *gin.Context) string {
	key := c.ClientIP()
	if companyID := c.GetHeader(HeaderCompanyID); companyID != "" {
		key = companyID + ":" + key
	}
	return key
}

// RateLimit returns a rate limiting middleware keyed by ClientKey
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, ClientKey)
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Remaining", "0")
			Abort(c, dto.ErrCodeRateLimited, "Too many requests. Please slow down.")
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}

// AuthRateLimit guards the credential endpoints. Buckets are keyed by
// client address alone and a blocked client is told when one token will
// be back.
func AuthRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	retryAfter := int(math.Ceil(limiter.window.Seconds() / float64(limiter.limit)))
	return func(c *gin.Context) {
		key := "auth:" + c.ClientIP()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			Abort(c, dto.ErrCodeRateLimited, "Too many authentication attempts. Please try again later.")
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
