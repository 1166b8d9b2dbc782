package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_TakeCountsDown(t *testing.T) {
	rl := NewRateLimiterWithConfig(6, 3)
	defer rl.Stop()

	for want := 2; want >= 0; want-- {
		q := rl.take("192.0.2.1")
		if !q.allowed {
			t.Fatalf("Expected request to be allowed with %d remaining", want)
		}
		if q.remaining != want {
			t.Errorf("Expected %d remaining, got %d", want, q.remaining)
		}
	}

	q := rl.take("192.0.2.1")
	if q.allowed {
		t.Fatal("Expected request beyond the burst to be refused")
	}
	// 6 per minute is one token every 10s
	if q.nextToken <= 0 || q.nextToken > 10*time.Second {
		t.Errorf("Expected next token within 10s, got %v", q.nextToken)
	}
	if q.refill < 20*time.Second || q.refill > 30*time.Second {
		t.Errorf("Expected a full refill in 20-30s, got %v", q.refill)
	}
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 1)
	defer rl.Stop()

	if !rl.Allow("192.0.2.1") || rl.Allow("192.0.2.1") {
		t.Fatal("Expected exactly one request for the first client")
	}
	if !rl.Allow("198.51.100.7") {
		t.Error("Expected the second client to have its own bucket")
	}
}

func TestRateLimiter_NonPositiveBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 0)
	defer rl.Stop()

	if !rl.Allow("192.0.2.1") {
		t.Error("Expected a burst of at least one")
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter()
	rl.Stop()
	rl.Stop()
}

func serveExport(rl *RateLimiter, ip string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/api/v1/dashboard/:year/export", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}, RateLimitMiddleware(rl))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/2025/export", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitMiddleware_Headers(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 2)
	defer rl.Stop()

	rec := serveExport(rl, "203.0.113.5")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "60" {
		t.Errorf("Expected X-RateLimit-Limit 60, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Errorf("Expected X-RateLimit-Remaining 1, got %q", got)
	}
	reset, err := strconv.ParseInt(rec.Header().Get("X-RateLimit-Reset"), 10, 64)
	if err != nil || reset < time.Now().Unix() {
		t.Errorf("Expected a reset time in the future, got %q", rec.Header().Get("X-RateLimit-Reset"))
	}
	if rec.Header().Get("Retry-After") != "" {
		t.Error("Expected no Retry-After on an allowed request")
	}
}

func TestRateLimitMiddleware_Refuses(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	if rec := serveExport(rl, "203.0.113.5"); rec.Code != http.StatusOK {
		t.Fatalf("Expected first export to pass, got %d", rec.Code)
	}

	rec := serveExport(rl, "203.0.113.5")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Expected Retry-After 1 at one token per second, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("Expected X-RateLimit-Remaining 0, got %q", got)
	}

	var body problemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected problem details body, got %v", err)
	}
	if body.Type != errorTypeRateLimit || body.Status != http.StatusTooManyRequests {
		t.Errorf("Unexpected problem details: %+v", body)
	}

	if rec := serveExport(rl, "203.0.113.6"); rec.Code != http.StatusOK {
		t.Errorf("Expected another client to pass, got %d", rec.Code)
	}
}
