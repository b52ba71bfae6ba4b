package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRouteAndUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/recipes/:id", func(c *gin.Context) { c.String(http.StatusOK, "soup") })
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	baseRoute := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/recipes/:id", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedPath, "404"))
	baseEcho := testutil.ToFloat64(httpReqs.WithLabelValues("POST", "/echo", "204"))

	for _, p := range []string{"/recipes/1", "/recipes/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":1}`)))

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/recipes/:id", "200")) - baseRoute; got != 2 {
		t.Fatalf("route counter delta = %v; want 2", got)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedPath, "404")) - baseMiss; got != 1 {
		t.Fatalf("unmatched counter delta = %v; want 1", got)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("POST", "/echo", "204")) - baseEcho; got != 1 {
		t.Fatalf("echo counter delta = %v; want 1", got)
	}
	if v := testutil.ToFloat64(httpInflight); v != 0 {
		t.Fatalf("inflight = %v; want 0", v)
	}
	if n := testutil.CollectAndCount(httpReqSize); n == 0 {
		t.Fatalf("request size histogram has no series")
	}
}
