package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_MasksHeadersAndQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Header(requestIDHeader, "rid-resp")
		c.Next()
	})
	r.Use(RedactingLogger(RedactOptions{
		MaskHeaders: []string{"X-Api-Key"},
		MaskQuery:   []string{"token"},
	}))
	r.GET("/meals/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "token=s3cret&note=" + url.QueryEscape("mail a.b@example.com")
	req := httptest.NewRequest(http.MethodGet, "/meals/123e4567-e89b-12d3-a456-426614174000?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "nutri_auth=topsecret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-Custom", "call 555-123-4567 id=123e4567-e89b-12d3-a456-426614174000")
	req.Header.Set(requestIDHeader, "rid-req")
	serve(r, req)

	var entry struct {
		Level     string            `json:"level"`
		Path      string            `json:"path"`
		Query     string            `json:"query"`
		RequestID string            `json:"request_id"`
		Headers   map[string]string `json:"headers"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log not json: %v\n%s", err, buf.String())
	}
	if entry.Level != "info" || entry.Path != "/meals/:id" || entry.RequestID != "rid-resp" {
		t.Fatalf("entry = %+v", entry)
	}

	vals, err := url.ParseQuery(entry.Query)
	if err != nil {
		t.Fatalf("query %q: %v", entry.Query, err)
	}
	if vals.Get("token") != redacted || vals.Get("note") != "mail [REDACTED:email]" {
		t.Fatalf("query = %v", vals)
	}

	for _, h := range []string{"Authorization", "Cookie", "X-Api-Key"} {
		if entry.Headers[h] != redacted {
			t.Errorf("%s = %q; want masked", h, entry.Headers[h])
		}
	}
	if got := entry.Headers["X-Custom"]; got != "call [REDACTED:phone] id=[REDACTED:id]" {
		t.Errorf("X-Custom = %q", got)
	}
	if strings.Contains(buf.String(), "topsecret") || strings.Contains(buf.String(), "s3cret") {
		t.Fatalf("secret leaked: %s", buf.String())
	}
}

func TestRedactingLogger_LevelsAndRequestIDFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/warn", nil)
	req.Header.Set(requestIDHeader, "rid-warn")
	serve(r, req)
	req = httptest.NewRequest(http.MethodGet, "/error", nil)
	req.Header.Set(requestIDHeader, "rid-err")
	serve(r, req)

	logs := buf.String()
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"request_id":"rid-warn"`) {
		t.Fatalf("warn entry missing: %s", logs)
	}
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, `"request_id":"rid-err"`) {
		t.Fatalf("error entry missing: %s", logs)
	}
}

func TestScrubQuery_Unparsable(t *testing.T) {
	got := scrubQuery("a=%zz&mail=x@y.io", map[string]struct{}{"a": {}})
	if got != "a=%zz&mail=[REDACTED:email]" {
		t.Fatalf("scrubQuery = %q", got)
	}
}
