package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteLabelsAndFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/meals/:id", func(c *gin.Context) { c.String(http.StatusOK, "{}") })
	r.DELETE("/meals/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	baseRoute := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/meals/:id", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404"))
	baseDel := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/meals/:id", "204"))

	serve(r, httptest.NewRequest(http.MethodGet, "/meals/abc", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/meals/def", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	serve(r, httptest.NewRequest(http.MethodDelete, "/meals/abc", nil))

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/meals/:id", "200")); got != baseRoute+2 {
		t.Fatalf("route counter = %v; want %v", got, baseRoute+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404")); got != baseMiss+1 {
		t.Fatalf("fallback counter = %v; want %v", got, baseMiss+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/meals/:id", "204")); got != baseDel+1 {
		t.Fatalf("delete counter = %v; want %v", got, baseDel+1)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight = %v", got)
	}
}

func TestMetrics_SessionRejections(t *testing.T) {
	r := protected(stubVerifier{valid: "good"})
	missing := testutil.ToFloat64(sessionRejects.WithLabelValues("missing"))
	invalid := testutil.ToFloat64(sessionRejects.WithLabelValues("invalid"))

	serve(r, httptest.NewRequest(http.MethodGet, "/meals", nil))
	req := httptest.NewRequest(http.MethodGet, "/meals", nil)
	req.Header.Set("Authorization", "Bearer stale")
	serve(r, req)
	req = httptest.NewRequest(http.MethodGet, "/meals", nil)
	req.Header.Set("Authorization", "Bearer good")
	serve(r, req)

	if got := testutil.ToFloat64(sessionRejects.WithLabelValues("missing")); got != missing+1 {
		t.Fatalf("missing = %v; want %v", got, missing+1)
	}
	if got := testutil.ToFloat64(sessionRejects.WithLabelValues("invalid")); got != invalid+1 {
		t.Fatalf("invalid = %v; want %v", got, invalid+1)
	}
}
