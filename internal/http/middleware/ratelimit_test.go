package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyBySessionOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fn := KeyBySessionOrIP()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "203.0.113.7:5555"
	if got := fn(c); got != "ip:203.0.113.7" {
		t.Fatalf("anonymous key = %q", got)
	}

	c.Set(sessionKey, "f00d")
	if got := fn(c); got != "session:f00d" {
		t.Fatalf("session key = %q", got)
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(1, 0, nil)
	if rl.burst != 1 || rl.keyFn == nil {
		t.Fatalf("burst = %d, keyFn nil = %v", rl.burst, rl.keyFn == nil)
	}
	now := time.Now()
	if rl.limiterFor("k", now) != rl.limiterFor("k", now) {
		t.Fatal("bucket not reused")
	}
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	now := time.Now()

	old := rl.limiterFor("old", now.Add(-rl.ttl))
	rl.lookups = 4999
	fresh := rl.limiterFor("old", now)
	if fresh == old {
		t.Fatal("idle bucket should be evicted before reuse")
	}
	if rl.lookups != 0 || len(rl.visitors) != 1 {
		t.Fatalf("lookups = %d, visitors = %d", rl.lookups, len(rl.visitors))
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.001, 2, func(*gin.Context) string { return "same" })

	r := gin.New()
	r.Use(RequestID(), rl.Handler())
	r.GET("/api/v1/nutrition", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/nutrition", nil)); w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/nutrition", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d; want 429", w.Code)
	}
	if ra := w.Header().Get("Retry-After"); ra == "" || ra == "0" {
		t.Fatalf("Retry-After = %q", ra)
	}
}

func TestRateLimiter_DisabledWhenRPSZero(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0, 1, func(*gin.Context) string { return "k" })
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)); w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
}
