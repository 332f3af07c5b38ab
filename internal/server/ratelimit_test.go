package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(60, time.Minute, 3, errors.NewLogger(slog.LevelError))
	defer rl.Close()

	assert.True(t, rl.Allow("ip:10.0.0.1"))
	assert.True(t, rl.Allow("ip:10.0.0.1"))
	assert.True(t, rl.Allow("ip:10.0.0.1"))
	assert.False(t, rl.Allow("ip:10.0.0.1"))

	// A different client has its own bucket
	assert.True(t, rl.Allow("ip:10.0.0.2"))
}

func TestRateLimiterStats(t *testing.T) {
	rl := NewRateLimiter(60, time.Minute, 1, errors.NewLogger(slog.LevelError))
	defer rl.Close()

	rl.Allow("ip:10.0.0.1")
	rl.Allow("ip:10.0.0.1")

	stats := rl.Stats()
	assert.Equal(t, 1, stats["active_clients"])
	assert.Equal(t, int64(1), stats["requests_passed"])
	assert.Equal(t, int64(1), stats["requests_denied"])
}

func TestRateLimitMiddlewareRejectsExcess(t *testing.T) {
	s, _ := newTestServer(t, Options{
		RateLimit: &config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 60,
			BurstCapacity:  1,
			ByIP:           true,
			Window:         time.Minute,
		},
	})
	require.NotNil(t, s.RateLimiter)
	defer s.RateLimiter.Close()

	handler := s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitKeyPrefersAPIKey(t *testing.T) {
	s, _ := newTestServer(t, Options{
		RateLimit: &config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 60,
			BurstCapacity:  10,
			ByAPIKey:       true,
			Window:         time.Minute,
		},
	})
	defer s.RateLimiter.Close()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-API-Key", "client-key")
	assert.Equal(t, "api:client-key", s.rateLimitKey(req))

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer bearer-key")
	assert.Equal(t, "api:bearer-key", s.rateLimitKey(req))

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	assert.Equal(t, "ip:10.0.0.1", s.rateLimitKey(req))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "172.16.0.5")
	assert.Equal(t, "172.16.0.5", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 172.16.0.5")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}

func TestParseFirstIP(t *testing.T) {
	assert.Equal(t, "203.0.113.9", parseFirstIP("203.0.113.9"))
	assert.Equal(t, "203.0.113.9", parseFirstIP(" 203.0.113.9 , 10.0.0.1"))
	assert.Equal(t, "", parseFirstIP(" , "))
}
