package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"resumeforge/internal/errors"

	"golang.org/x/time/rate"
)

// RateLimiter enforces per-client request limits. Each client gets its
// own token bucket, keyed by API key when present and by IP otherwise.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry

	limit  rate.Limit
	burst  int
	window time.Duration
	logger *errors.Logger

	allowed atomic.Int64
	limited atomic.Int64

	done      chan struct{}
	closeOnce sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMin requests per
// window with the given burst capacity. Stale client buckets are swept
// in a background goroutine.
func NewRateLimiter(requestsPerMin int, window time.Duration, burst int, logger *errors.Logger) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if burst <= 0 {
		burst = requestsPerMin
	}

	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(float64(requestsPerMin) / window.Seconds()),
		burst:    burst,
		window:   window,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow reports whether the client identified by key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	if entry.limiter.Allow() {
		rl.allowed.Add(1)
		return true
	}
	rl.limited.Add(1)
	return false
}

// Stats returns counters for the stats and health endpoints
func (rl *RateLimiter) Stats() map[string]any {
	rl.mu.Lock()
	active := len(rl.limiters)
	rl.mu.Unlock()

	return map[string]any{
		"enabled":         true,
		"active_clients":  active,
		"requests_passed": rl.allowed.Load(),
		"requests_denied": rl.limited.Load(),
	}
}

// Close stops the background cleanup goroutine
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.done)
	})
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-3 * rl.window)
			rl.mu.Lock()
			for key, entry := range rl.limiters {
				if entry.lastSeen.Before(cutoff) {
					delete(rl.limiters, key)
				}
			}
			remaining := len(rl.limiters)
			rl.mu.Unlock()

			rl.logger.Debug("Rate limiter cleanup completed", "active_clients", remaining)
		}
	}
}

// rateLimitMiddleware rejects requests that exceed the client's budget
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if s.RateLimiter == nil {
			return next
		}

		return func(w http.ResponseWriter, r *http.Request) {
			key := s.rateLimitKey(r)
			if !s.RateLimiter.Allow(key) {
				s.Logger.Warn("Rate limit exceeded",
					"client", key,
					"path", r.URL.Path,
					"method", r.Method)
				w.Header().Set("Retry-After", "60")
				writeErrorResponse(w, "Rate limit exceeded",
					"Too many requests, please retry later", http.StatusTooManyRequests)
				return
			}
			next(w, r)
		}
	}
}

// rateLimitKey derives the bucket key for a request. API keys take
// precedence over IPs so authenticated clients are tracked individually
// regardless of network path.
func (s *Server) rateLimitKey(r *http.Request) string {
	if s.RateLimit != nil && s.RateLimit.ByAPIKey {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				apiKey = token
			}
		}
		if apiKey != "" {
			return "api:" + apiKey
		}
	}
	return "ip:" + getClientIP(r)
}

// getClientIP resolves the originating client address, trusting proxy
// headers before falling back to the raw connection address
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip := parseFirstIP(forwarded); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseFirstIP(forwarded string) string {
	for part := range strings.SplitSeq(forwarded, ",") {
		if ip := strings.TrimSpace(part); ip != "" {
			return ip
		}
	}
	return ""
}
