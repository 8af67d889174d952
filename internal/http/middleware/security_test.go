package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func securedEngine(opt SecurityOptions, pre gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(SecurityHeaders(opt))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := securedEngine(SecurityOptions{}, func(c *gin.Context) {
		c.Header(requestIDHeader, "rid-123")
		c.Next()
	})
	h := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil)).Header()

	if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("X-Frame-Options") != "DENY" || h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers: %#v", h)
	}
	for _, k := range []string{"Permissions-Policy", "Cache-Control", "Strict-Transport-Security"} {
		if h.Get(k) != "" {
			t.Errorf("unexpected %s", k)
		}
	}
	if h.Get("Access-Control-Expose-Headers") != requestIDHeader {
		t.Fatalf("expose = %q", h.Get("Access-Control-Expose-Headers"))
	}
}

func TestSecurityHeaders_ExposeMerging(t *testing.T) {
	cases := map[string]string{
		"ETag":               "ETag, X-Request-ID",
		"X-Request-ID, ETag": "X-Request-ID, ETag",
	}
	for existing, want := range cases {
		r := securedEngine(SecurityOptions{}, func(c *gin.Context) {
			c.Header(requestIDHeader, "rid")
			c.Header("Access-Control-Expose-Headers", existing)
			c.Next()
		})
		got := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil)).Header().Get("Access-Control-Expose-Headers")
		if got != want {
			t.Errorf("expose(%q) = %q; want %q", existing, got, want)
		}
	}
}

func TestSecurityHeaders_AllOptions(t *testing.T) {
	r := securedEngine(SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour, NoStore: true, EnablePolicy: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.TLS = &tls.ConnectionState{}
	h := serve(r, req).Header()

	if h.Get("X-Permitted-Cross-Domain-Policies") != "none" || h.Get("Permissions-Policy") == "" {
		t.Fatalf("policy headers: %#v", h)
	}
	if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" || h.Get("Expires") != "0" {
		t.Fatalf("cache headers: %#v", h)
	}
	if got := h.Get("Strict-Transport-Security"); got != "max-age=86400; includeSubDomains; preload" {
		t.Fatalf("HSTS = %q", got)
	}
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	r := securedEngine(SecurityOptions{EnableHSTS: true}, nil)

	if got := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil)).Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS over plain HTTP: %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Forwarded-Proto", "HTTPS")
	if got := serve(r, req).Header().Get("Strict-Transport-Security"); got != "max-age=15552000; includeSubDomains; preload" {
		t.Fatalf("HSTS via proxy = %q", got)
	}
}
