package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type lookupCall struct {
	user, scope, key string
}

func idemRouter(lookup IdempotencyLookup, seen *struct {
	key    string
	replay bool
	bypass bool
}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{MaxLen: 16}, lookup))
	h := func(c *gin.Context) {
		seen.key, _ = GetIdempotencyKey(c)
		seen.replay = IsReplay(c)
		seen.bypass = IsRateBypass(c)
		c.Status(http.StatusCreated)
	}
	r.POST("/recipes/:id/comments", h)
	r.GET("/recipes", h)
	return r
}

func TestIdempotencyValidator_ValidKeyAndReplay(t *testing.T) {
	var calls []lookupCall
	lookup := func(_ context.Context, user, scope, key string, _ time.Time) (bool, error) {
		calls = append(calls, lookupCall{user, scope, key})
		return key == "seen-key", nil
	}
	var seen struct {
		key    string
		replay bool
		bypass bool
	}
	r := idemRouter(lookup, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recipes/r1/comments", nil)
	req.Header.Set(HeaderIdempotencyKey, "fresh-key")
	req.Header.Set(HeaderUserID, "alice")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated || seen.key != "fresh-key" || seen.replay || seen.bypass {
		t.Fatalf("fresh: code=%d seen=%+v", w.Code, seen)
	}
	if len(calls) != 1 || calls[0] != (lookupCall{"alice", "POST /recipes/r1/comments", "fresh-key"}) {
		t.Fatalf("lookup calls = %+v", calls)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/recipes/r1/comments", nil)
	req.Header.Set(HeaderIdempotencyKey, "seen-key")
	r.ServeHTTP(w, req)
	if !seen.replay || !seen.bypass {
		t.Fatalf("replay not flagged: %+v", seen)
	}
	if calls[1].user != AnonymousUser {
		t.Fatalf("anonymous user = %q", calls[1].user)
	}
}

func TestIdempotencyValidator_RejectsBadKeys(t *testing.T) {
	var seen struct {
		key    string
		replay bool
		bypass bool
	}
	r := idemRouter(nil, &seen)
	for _, key := range []string{"has space", "semi;colon", strings.Repeat("a", 17)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/recipes/r1/comments", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: code=%d body=%s", key, w.Code, w.Body.String())
		}
	}
}

func TestIdempotencyValidator_IgnoresNonPostAndMissing(t *testing.T) {
	var seen struct {
		key    string
		replay bool
		bypass bool
	}
	r := idemRouter(func(context.Context, string, string, string, time.Time) (bool, error) {
		t.Fatalf("lookup must not run")
		return false, nil
	}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set(HeaderIdempotencyKey, "bad key but GET")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated || seen.key != "" {
		t.Fatalf("GET should pass untouched: %d %+v", w.Code, seen)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes/r1/comments", nil))
	if w.Code != http.StatusCreated || seen.key != "" {
		t.Fatalf("missing key should pass: %d %+v", w.Code, seen)
	}
}
