package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/imagehost"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

type fakeUploader struct {
	got imagehost.Image
	url string
	err error
}

func (f *fakeUploader) Upload(_ context.Context, img imagehost.Image) (string, error) {
	f.got = img
	return f.url, f.err
}

type testEnv struct {
	db       *gorm.DB
	h        *Handlers
	r        *gin.Engine
	uploader *fakeUploader
}

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newEnv wires the real services over a fresh database, the way the router
// does, with a fake image host.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t)
	up := &fakeUploader{url: "https://img.example.com/recipes/x.png"}

	h := New(
		services.NewRecipeService(db, repo.RecipeStore{}),
		services.NewCommentService(db, repo.CommentStore{}, repo.RecipeStore{}),
		&services.FavoriteService{DB: db},
		&services.RatingService{DB: db},
		services.NewUploadService(up, nil, 1<<10),
	)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header("X-Request-ID", "rid-test"); c.Next() })
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	h.Register(r.Group("/api/v1"))
	return &testEnv{db: db, h: h, r: r, uploader: up}
}

// do sends a JSON request as user (empty means anonymous).
func (e *testEnv) do(method, path, user string, body any, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = bytes.NewBufferString(s)
		} else {
			b, _ := json.Marshal(body)
			rd = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, "/api/v1"+path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T from %q: %v", v, w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d; want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	expectStatus(t, w, status)
	er := decode[ErrorResponse](t, w)
	if er.Code != code {
		t.Fatalf("code = %q; want %q (message %q)", er.Code, code, er.Message)
	}
	if er.RequestID != "rid-test" {
		t.Fatalf("request_id = %q", er.RequestID)
	}
	return er
}

func recipeBody() map[string]any {
	return map[string]any{
		"title":       "Tomato soup",
		"description": "Warm and **simple**",
		"ingredients": []string{"tomatoes", "salt"},
		"steps":       []string{"chop", "boil"},
		"category":    "soup",
		"prep_time":   10,
		"cook_time":   20,
		"difficulty":  "easy",
	}
}

// createRecipe posts a valid recipe as owner and returns its id.
func (e *testEnv) createRecipe(t *testing.T, owner string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/recipes", owner, recipeBody())
	expectStatus(t, w, http.StatusCreated)
	return decode[RecipeResponse](t, w).ID
}
