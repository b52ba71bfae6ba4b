package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

func TestCreateRecipe_PendingWithRenderedDescription(t *testing.T) {
	e := newEnv(t)
	body := recipeBody()
	body["category"] = "Main-Course"
	body["difficulty"] = "HARD"
	body["title"] = "<b>Stew</b>"

	w := e.do(http.MethodPost, "/recipes", "alice", body)
	expectStatus(t, w, http.StatusCreated)
	got := decode[RecipeResponse](t, w)

	if got.ID == "" || got.UserID != "alice" || got.Status != domain.StatusPending {
		t.Fatalf("unexpected recipe: %+v", got.Recipe)
	}
	if got.Category != domain.CategoryMainCourse || got.Difficulty != domain.DifficultyHard {
		t.Fatalf("enums not normalised: %q %q", got.Category, got.Difficulty)
	}
	if got.Title != "Stew" {
		t.Fatalf("title not stripped: %q", got.Title)
	}
	if !strings.Contains(got.DescriptionHTML, "<strong>simple</strong>") {
		t.Fatalf("description_html = %q", got.DescriptionHTML)
	}
	if got.TotalTime != 30 || got.AverageRating != 0 || got.TotalFavorites != 0 {
		t.Fatalf("derived fields wrong: %+v", got)
	}
}

func TestCreateRecipe_Rejections(t *testing.T) {
	e := newEnv(t)

	expectError(t, e.do(http.MethodPost, "/recipes", "alice", "{not json"), http.StatusBadRequest, ErrCodeBadRequest)

	body := recipeBody()
	body["title"] = ""
	body["category"] = "breakfast"
	body["prep_time"] = 0
	er := expectError(t, e.do(http.MethodPost, "/recipes", "alice", body), http.StatusBadRequest, ErrCodeInvalidInput)
	for _, f := range []string{"title", "category", "prep_time"} {
		if er.Details[f] == "" {
			t.Fatalf("details missing %q: %v", f, er.Details)
		}
	}
}

func TestCreateRecipe_IdempotentReplay(t *testing.T) {
	e := newEnv(t)
	key := "create-soup-1"

	first := e.do(http.MethodPost, "/recipes", "alice", recipeBody(), "Idempotency-Key", key)
	expectStatus(t, first, http.StatusCreated)
	second := e.do(http.MethodPost, "/recipes", "alice", recipeBody(), "Idempotency-Key", key)
	expectStatus(t, second, http.StatusCreated)

	if second.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("second response was not a replay")
	}
	if decode[RecipeResponse](t, first).ID != decode[RecipeResponse](t, second).ID {
		t.Fatalf("replay returned a different recipe")
	}

	// Another user with the same key gets a fresh recipe.
	third := e.do(http.MethodPost, "/recipes", "bob", recipeBody(), "Idempotency-Key", key)
	if third.Header().Get("Idempotency-Replayed") != "" {
		t.Fatalf("key leaked across users")
	}

	var n int64
	e.db.Model(&domain.Recipe{}).Count(&n)
	if n != 2 {
		t.Fatalf("recipes stored = %d; want 2", n)
	}
}

func TestGetRecipe(t *testing.T) {
	e := newEnv(t)
	id := e.createRecipe(t, "alice")

	w := e.do(http.MethodGet, "/recipes/"+id, "", nil)
	expectStatus(t, w, http.StatusOK)
	if decode[RecipeResponse](t, w).ID != id {
		t.Fatalf("wrong recipe")
	}
	expectError(t, e.do(http.MethodGet, "/recipes/missing", "", nil), http.StatusNotFound, ErrCodeNotFound)
}

func TestListRecipes_FiltersPaginationAndETag(t *testing.T) {
	e := newEnv(t)
	a1 := e.createRecipe(t, "alice")
	e.createRecipe(t, "alice")
	e.createRecipe(t, "bob")
	expectStatus(t, e.do(http.MethodPut, "/recipes/"+a1+"/approve", "", nil), http.StatusOK)

	w := e.do(http.MethodGet, "/recipes?user_id=alice&page_size=1", "", nil)
	expectStatus(t, w, http.StatusOK)
	page := decode[ListRecipesResponse](t, w)
	if len(page.Recipes) != 1 || page.Pagination.Total != 2 || !page.Pagination.HasNext || page.Pagination.TotalPages != 2 {
		t.Fatalf("page = %+v", page.Pagination)
	}

	w = e.do(http.MethodGet, "/recipes?status=APPROVED", "", nil)
	page = decode[ListRecipesResponse](t, w)
	if len(page.Recipes) != 1 || page.Recipes[0].ID != a1 {
		t.Fatalf("status filter: %+v", page.Recipes)
	}

	etag := w.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"recipes:`) {
		t.Fatalf("ETag = %q", etag)
	}
	w = e.do(http.MethodGet, "/recipes?status=APPROVED", "", nil, "If-None-Match", etag)
	expectStatus(t, w, http.StatusNotModified)

	expectError(t, e.do(http.MethodGet, "/recipes?status=draft", "", nil), http.StatusBadRequest, ErrCodeBadRequest)
	expectError(t, e.do(http.MethodGet, "/recipes?category=breakfast", "", nil), http.StatusBadRequest, ErrCodeBadRequest)

	w = e.do(http.MethodGet, "/recipes?category=dessert", "", nil)
	if got := decode[ListRecipesResponse](t, w); got.Recipes == nil || len(got.Recipes) != 0 {
		t.Fatalf("empty list should be [], got %s", w.Body.String())
	}
}

func TestListRecipes_ETagChangesWithCounters(t *testing.T) {
	e := newEnv(t)
	id := e.createRecipe(t, "alice")

	list := func() string {
		t.Helper()
		w := e.do(http.MethodGet, "/recipes", "", nil)
		expectStatus(t, w, http.StatusOK)
		return w.Header().Get("ETag")
	}
	revalidate := func(etag string) int {
		t.Helper()
		return e.do(http.MethodGet, "/recipes", "", nil, "If-None-Match", etag).Code
	}

	etag := list()
	expectStatus(t, e.do(http.MethodPost, "/recipes/"+id+"/favorite", "bob", nil), http.StatusCreated)
	if code := revalidate(etag); code != http.StatusOK {
		t.Fatalf("after favorite add, revalidation = %d, want 200", code)
	}

	etag = list()
	expectStatus(t, e.do(http.MethodPut, "/recipes/"+id+"/rating", "bob", map[string]int{"stars": 5}), http.StatusOK)
	if code := revalidate(etag); code != http.StatusOK {
		t.Fatalf("after rating, revalidation = %d, want 200", code)
	}

	etag = list()
	expectStatus(t, e.do(http.MethodDelete, "/recipes/"+id+"/favorite", "bob", nil), http.StatusNoContent)
	if code := revalidate(etag); code != http.StatusOK {
		t.Fatalf("after favorite remove, revalidation = %d, want 200", code)
	}

	w := e.do(http.MethodGet, "/recipes", "", nil)
	got := decode[ListRecipesResponse](t, w)
	if len(got.Recipes) != 1 || got.Recipes[0].TotalFavorites != 0 || got.Recipes[0].AverageRating != 5 {
		t.Fatalf("counters = %+v", got.Recipes)
	}
}

func TestUpdateRecipe_PartialAndInvalid(t *testing.T) {
	e := newEnv(t)
	id := e.createRecipe(t, "alice")

	w := e.do(http.MethodPut, "/recipes/"+id, "alice", map[string]any{"title": "Better soup", "cook_time": 35, "category": "Soup"})
	expectStatus(t, w, http.StatusOK)
	got := decode[RecipeResponse](t, w)
	if got.Title != "Better soup" || got.CookTime != 35 || got.PrepTime != 10 || got.TotalTime != 45 {
		t.Fatalf("patch not merged: %+v", got.Recipe)
	}

	expectError(t, e.do(http.MethodPut, "/recipes/"+id, "alice", map[string]any{"prep_time": 0}), http.StatusBadRequest, ErrCodeInvalidInput)
	expectError(t, e.do(http.MethodPut, "/recipes/missing", "alice", map[string]any{"title": "x"}), http.StatusNotFound, ErrCodeNotFound)
	expectError(t, e.do(http.MethodPut, "/recipes/"+id, "alice", "[]"), http.StatusBadRequest, ErrCodeBadRequest)
}

func TestModerationAndDelete(t *testing.T) {
	e := newEnv(t)
	id := e.createRecipe(t, "alice")

	w := e.do(http.MethodPut, "/recipes/"+id+"/reject", "", nil)
	expectStatus(t, w, http.StatusOK)
	if decode[RecipeResponse](t, w).Status != domain.StatusRejected {
		t.Fatalf("not rejected")
	}
	w = e.do(http.MethodPut, "/recipes/"+id+"/approve", "", nil)
	if decode[RecipeResponse](t, w).Status != domain.StatusApproved {
		t.Fatalf("not approved")
	}
	expectError(t, e.do(http.MethodPut, "/recipes/nope/approve", "", nil), http.StatusNotFound, ErrCodeNotFound)

	expectStatus(t, e.do(http.MethodDelete, "/recipes/"+id, "alice", nil), http.StatusNoContent)
	expectError(t, e.do(http.MethodDelete, "/recipes/"+id, "alice", nil), http.StatusNotFound, ErrCodeNotFound)
}
