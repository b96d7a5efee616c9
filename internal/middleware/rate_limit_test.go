package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	client := "203.0.113.7"

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow(client) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be rate limited (exceeded burst)
	if rl.Allow(client) {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentClients(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("198.51.100.1") {
			t.Errorf("Client1 request %d should be allowed", i+1)
		}
	}

	if rl.Allow("198.51.100.1") {
		t.Error("Client1 should be rate limited")
	}

	// Client2 should still have its full burst
	for i := 0; i < 3; i++ {
		if !rl.Allow("198.51.100.2") {
			t.Errorf("Client2 request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_InvalidConfigUsesDefaults(t *testing.T) {
	rl := NewRateLimiterWithConfig(0, -1)
	defer rl.Stop()

	if rl.requestsPerMinute != DefaultRateLimit {
		t.Errorf("requestsPerMinute = %d, want %d", rl.requestsPerMinute, DefaultRateLimit)
	}
	if rl.burstSize != DefaultBurstSize {
		t.Errorf("burstSize = %d, want %d", rl.burstSize, DefaultBurstSize)
	}
}

func TestRateLimiter_EvictStale(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	rl.Allow("192.0.2.1")
	rl.Allow("192.0.2.2")
	if rl.ClientCount() != 2 {
		t.Fatalf("ClientCount() = %d, want 2", rl.ClientCount())
	}

	rl.evictStale(time.Now().Add(LimiterTTL + time.Second))

	if rl.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after eviction, want 0", rl.ClientCount())
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter()
	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware_LimitsPerClient(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 2) // Small burst for testing
	defer rl.Stop()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	newContext := func(ip string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	// First 2 requests should succeed (burst)
	for i := 0; i < 2; i++ {
		c, rec := newContext("203.0.113.10")
		if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
			t.Fatalf("Request %d: Expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "10" {
			t.Errorf("Request %d: Expected X-RateLimit-Limit 10, got %q", i+1, rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	// 3rd request should be rate limited
	c, rec := newContext("203.0.113.10")
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}

	// A different client is unaffected
	c, rec = newContext("203.0.113.11")
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for second client, got %d", rec.Code)
	}
}
