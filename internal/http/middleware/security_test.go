package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func serveSecurity(t *testing.T, opt SecurityOptions, path string, mutate func(*http.Request)) http.Header {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header(requestIDHeader, "rid-1"); c.Next() })
	r.Use(SecurityHeaders(opt))
	r.GET("/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header()
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	h := serveSecurity(t, SecurityOptions{}, "/x", nil)
	if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("X-Frame-Options") != "DENY" || h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline missing: %v", h)
	}
	for _, k := range []string{"Permissions-Policy", "Cache-Control", "Strict-Transport-Security", "Content-Security-Policy"} {
		if h.Get(k) != "" {
			t.Fatalf("unexpected %s: %q", k, h.Get(k))
		}
	}
	if h.Get("Access-Control-Expose-Headers") != "X-Request-ID" {
		t.Fatalf("expose = %q", h.Get("Access-Control-Expose-Headers"))
	}
}

func TestSecurityHeaders_Optional(t *testing.T) {
	opt := SecurityOptions{
		EnableHSTS:      true,
		HSTSMaxAge:      time.Hour,
		NoStore:         true,
		EnablePolicy:    true,
		CSP:             "default-src 'none'",
		CSPSkipPrefixes: []string{"/swagger/"},
	}

	h := serveSecurity(t, opt, "/api", func(r *http.Request) { r.TLS = &tls.ConnectionState{} })
	if h.Get("Strict-Transport-Security") != "max-age=3600; includeSubDomains; preload" {
		t.Fatalf("hsts = %q", h.Get("Strict-Transport-Security"))
	}
	if h.Get("Cache-Control") != "no-store" || h.Get("Permissions-Policy") == "" {
		t.Fatalf("optional headers missing: %v", h)
	}
	if h.Get("Content-Security-Policy") != "default-src 'none'" {
		t.Fatalf("csp = %q", h.Get("Content-Security-Policy"))
	}

	// Plain HTTP never gets HSTS; forwarded HTTPS does.
	if h := serveSecurity(t, opt, "/api", nil); h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS on plain http")
	}
	if h := serveSecurity(t, opt, "/api", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") }); h.Get("Strict-Transport-Security") == "" {
		t.Fatalf("HSTS missing behind TLS proxy")
	}
	if h := serveSecurity(t, opt, "/swagger/index.html", nil); h.Get("Content-Security-Policy") != "" {
		t.Fatalf("CSP should skip swagger")
	}
}

func TestSecurityHeaders_DefaultMaxAge(t *testing.T) {
	h := serveSecurity(t, SecurityOptions{EnableHSTS: true}, "/", func(r *http.Request) { r.TLS = &tls.ConnectionState{} })
	if h.Get("Strict-Transport-Security") != "max-age=15552000; includeSubDomains; preload" {
		t.Fatalf("hsts = %q", h.Get("Strict-Transport-Security"))
	}
}

func TestExposeHeader_Appends(t *testing.T) {
	h := http.Header{}
	h.Set("Access-Control-Expose-Headers", "Content-Length")
	exposeHeader(h, "X-Request-ID")
	exposeHeader(h, "X-Request-ID")
	if got := h.Get("Access-Control-Expose-Headers"); got != "Content-Length, X-Request-ID" {
		t.Fatalf("expose = %q", got)
	}
}
