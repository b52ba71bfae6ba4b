// Recipe HTTP handlers.
//
// This file exposes REST endpoints for recipes:
//   - POST   /recipes               (create, Idempotency-Key aware)
//   - GET    /recipes               (filtered list, paginated, ETag support)
//   - GET    /recipes/{id}          (single recipe with rendered description)
//   - PUT    /recipes/{id}          (partial update)
//   - PUT    /recipes/{id}/approve  (moderation)
//   - PUT    /recipes/{id}/reject   (moderation)
//   - DELETE /recipes/{id}
//
// It also holds the service contracts and the Handlers wiring shared by the
// comment, favorite, rating and upload endpoints.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/content"
	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/services"
	"github.com/tbourn/go-recipe-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RecipeService defines the recipe operations consumed by the handlers.
type RecipeService interface {
	Create(ctx context.Context, userID string, in services.RecipeInput) (*domain.Recipe, error)
	Get(ctx context.Context, id string) (*domain.Recipe, error)
	ListPage(ctx context.Context, f repo.RecipeFilter, page, pageSize int) ([]domain.Recipe, int64, error)
	Update(ctx context.Context, id string, patch domain.RecipePatch) (*domain.Recipe, error)
	Approve(ctx context.Context, id string) (*domain.Recipe, error)
	Reject(ctx context.Context, id string) (*domain.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// CommentService defines the comment operations consumed by the handlers.
type CommentService interface {
	Create(ctx context.Context, userID, recipeID, text string, parentID *string) (*domain.Comment, error)
	Get(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, userID, id, text string) (*domain.Comment, error)
	Delete(ctx context.Context, userID, id string, deleteReplies bool) (int64, error)
	ListByRecipe(ctx context.Context, recipeID string) ([]domain.Comment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Comment, error)
	Replies(ctx context.Context, commentID string) ([]domain.Comment, error)
	Tree(ctx context.Context, recipeID string) ([]domain.CommentThread, error)
}

// FavoriteService defines the favorite operations consumed by the handlers.
type FavoriteService interface {
	Add(ctx context.Context, userID, recipeID string) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, recipeID string) error
	IsFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
}

// RatingService defines the rating operations consumed by the handlers.
type RatingService interface {
	Upsert(ctx context.Context, userID, recipeID string, stars int) (*domain.Rating, error)
	Update(ctx context.Context, userID, ratingID string, stars int) (*domain.Rating, error)
	Delete(ctx context.Context, userID, ratingID string) error
	GetForUser(ctx context.Context, userID, recipeID string) (*domain.Rating, error)
	ListByRecipe(ctx context.Context, recipeID string) ([]domain.Rating, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Rating, error)
}

// UploadService defines the image upload passthrough.
type UploadService interface {
	UploadRecipeImage(ctx context.Context, filename string, r io.Reader, size int64) (string, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends only on the service
// interfaces above.
type Handlers struct {
	recipes   RecipeService
	comments  CommentService
	favorites FavoriteService
	ratings   RatingService
	uploads   UploadService

	// IdempotencyTTL is how long a stored create result can be replayed.
	IdempotencyTTL time.Duration
}

// New constructs Handlers bound to the given services.
func New(recipes RecipeService, comments CommentService, favorites FavoriteService, ratings RatingService, uploads UploadService) *Handlers {
	return &Handlers{
		recipes:        recipes,
		comments:       comments,
		favorites:      favorites,
		ratings:        ratings,
		uploads:        uploads,
		IdempotencyTTL: 24 * time.Hour,
	}
}

//
// DTOs
//

// CreateRecipeRequest is the JSON payload for creating a recipe. Category and
// difficulty are matched case-insensitively.
type CreateRecipeRequest struct {
	Title       string   `json:"title" example:"Tomato soup"`
	Description string   `json:"description" example:"A *warm* classic."`
	ImageURL    string   `json:"image_url" example:"https://ik.imagekit.io/demo/recipes/soup.jpg"`
	Ingredients []string `json:"ingredients" example:"tomatoes,salt"`
	Steps       []string `json:"steps" example:"chop,boil"`
	Category    string   `json:"category" enums:"main-course,dessert,appetizer,soup,salad" example:"soup"`
	PrepTime    int      `json:"prep_time" minimum:"1" example:"10"`
	CookTime    int      `json:"cook_time" minimum:"1" example:"20"`
	Difficulty  string   `json:"difficulty" enums:"easy,medium,hard" example:"easy"`
}

// UpdateRecipeRequest is a partial update; omitted fields are left as is.
type UpdateRecipeRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	Category    *string  `json:"category,omitempty"`
	PrepTime    *int     `json:"prep_time,omitempty"`
	CookTime    *int     `json:"cook_time,omitempty"`
	Difficulty  *string  `json:"difficulty,omitempty"`
}

// RecipeResponse is a recipe with its description rendered to HTML.
type RecipeResponse struct {
	domain.Recipe
	DescriptionHTML string `json:"description_html"`
	TotalTime       int    `json:"total_time" example:"30"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListRecipesResponse wraps a page of recipes and pagination information.
type ListRecipesResponse struct {
	Recipes    []domain.Recipe `json:"recipes"`
	Pagination Pagination      `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.ParsePage(c.Query("page"), c.Query("page_size"))
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

func toRecipeResponse(r *domain.Recipe) RecipeResponse {
	return RecipeResponse{
		Recipe:          *r,
		DescriptionHTML: content.RenderMarkdown(r.Description),
		TotalTime:       r.TotalTime(),
	}
}

// normalizeCategory folds known spellings ("Main-Course") to the canonical
// value and passes anything else through for the validator to reject.
func normalizeCategory(s string) domain.Category {
	if v, ok := domain.ParseCategory(s); ok {
		return v
	}
	return domain.Category(s)
}

func normalizeDifficulty(s string) domain.Difficulty {
	if v, ok := domain.ParseDifficulty(s); ok {
		return v
	}
	return domain.Difficulty(s)
}

func (r UpdateRecipeRequest) patch() domain.RecipePatch {
	p := domain.RecipePatch{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
	}
	if r.Category != nil {
		v := normalizeCategory(*r.Category)
		p.Category = &v
	}
	if r.Difficulty != nil {
		v := normalizeDifficulty(*r.Difficulty)
		p.Difficulty = &v
	}
	return p
}

// recipeFilter reads status, category and user_id from the query string.
func recipeFilter(c *gin.Context) (repo.RecipeFilter, error) {
	var f repo.RecipeFilter
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		v, ok := domain.ParseStatus(s)
		if !ok {
			return f, fmt.Errorf("unknown status %q", s)
		}
		f.Status = v
	}
	if s := strings.TrimSpace(c.Query("category")); s != "" {
		v, ok := domain.ParseCategory(s)
		if !ok {
			return f, fmt.Errorf("unknown category %q", s)
		}
		f.Category = v
	}
	f.UserID = strings.TrimSpace(c.Query("user_id"))
	return f, nil
}

func (h *Handlers) recipeDB() *gorm.DB {
	if svc, ok := h.recipes.(*services.RecipeService); ok {
		return svc.DB
	}
	return nil
}

func (h *Handlers) commentDB() *gorm.DB {
	if svc, ok := h.comments.(*services.CommentService); ok {
		return svc.DB
	}
	return nil
}

// replayIdempotent answers with the resource created by an earlier request
// carrying the same Idempotency-Key. It reports whether it wrote a response.
func (h *Handlers) replayIdempotent(c *gin.Context, db *gorm.DB, load func(ctx context.Context, id string) (any, error)) bool {
	key, has := middleware.GetIdempotencyKey(c)
	if !has || db == nil {
		return false
	}
	ctx := c.Request.Context()
	rec, err := repo.GetIdempotency(ctx, db, middleware.UserID(c), middleware.IdempotencyScope(c), key, time.Now().UTC())
	if err != nil {
		return false
	}
	prev, err := load(ctx, rec.ResourceID)
	if err != nil {
		return false
	}
	c.Header("Idempotency-Replayed", "true")
	ok(c, rec.Status, prev)
	return true
}

// rememberIdempotent records resourceID under the request's key (best effort).
func (h *Handlers) rememberIdempotent(c *gin.Context, db *gorm.DB, resourceID string) {
	key, has := middleware.GetIdempotencyKey(c)
	if !has || db == nil {
		return
	}
	ttl := h.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	_, err := repo.CreateIdempotency(c.Request.Context(), db, middleware.UserID(c), middleware.IdempotencyScope(c),
		key, resourceID, http.StatusCreated, ttl)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("store idempotency record")
	}
}

//
// Handlers
//

// CreateRecipe godoc
// @ID          createRecipe
// @Summary     Create a recipe
// @Description Creates a recipe owned by the caller. New recipes start pending with zeroed counters.
// @Description Supports idempotency via the Idempotency-Key header (same key → same recipe).
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.CreateRecipeRequest  true  "Recipe payload"
//
// @Success     201  {object}  handlers.RecipeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes [post]
func (h *Handlers) CreateRecipe(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	db := h.recipeDB()
	if h.replayIdempotent(c, db, func(ctx context.Context, id string) (any, error) {
		r, err := h.recipes.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return toRecipeResponse(r), nil
	}) {
		return
	}

	r, err := h.recipes.Create(c.Request.Context(), middleware.UserID(c), services.RecipeInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Category:    normalizeCategory(req.Category),
		PrepTime:    req.PrepTime,
		CookTime:    req.CookTime,
		Difficulty:  normalizeDifficulty(req.Difficulty),
	})
	if err != nil {
		writeError(c, err, ErrCodeCreateFailed)
		return
	}

	h.rememberIdempotent(c, db, r.ID)
	ok(c, http.StatusCreated, toRecipeResponse(r))
}

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List recipes (paginated)
// @Description Returns recipes newest first, optionally filtered. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Recipes
// @Produce     json
//
// @Param       status     query  string  false "Moderation status"  Enums(pending, approved, rejected)
// @Param       category   query  string  false "Category"           Enums(main-course, dessert, appetizer, soup, salad)
// @Param       user_id    query  string  false "Owner"
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListRecipesResponse
// @Success     304  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad filter"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	f, err := recipeFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if db := h.recipeDB(); db != nil {
		count, maxTS, err := repo.RecipesStats(ctx, db, f)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			etag := fmt.Sprintf(`W/"recipes:%s:%s:%s:%d:%d:%d:%d"`,
				f.Status, f.Category, f.UserID, page, pageSize, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.recipes.ListPage(ctx, f, page, pageSize)
	if err != nil {
		writeError(c, err, ErrCodeListFailed)
		return
	}
	if items == nil {
		items = []domain.Recipe{}
	}
	ok(c, http.StatusOK, ListRecipesResponse{
		Recipes:    items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get a recipe
// @Tags        Recipes
// @Produce     json
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     200  {object}  handlers.RecipeResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	r, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, toRecipeResponse(r))
}

// UpdateRecipe godoc
// @ID          updateRecipe
// @Summary     Update a recipe
// @Description Merges the supplied fields into the recipe. Owner, status and counters cannot change here.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Recipe ID"  format(uuid)
// @Param       body  body  handlers.UpdateRecipeRequest  true  "Fields to change"
// @Success     200  {object}  handlers.RecipeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id} [put]
func (h *Handlers) UpdateRecipe(c *gin.Context) {
	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	r, err := h.recipes.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, toRecipeResponse(r))
}

// ApproveRecipe godoc
// @ID          approveRecipe
// @Summary     Approve a recipe
// @Tags        Recipes
// @Produce     json
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     200  {object}  handlers.RecipeResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id}/approve [put]
func (h *Handlers) ApproveRecipe(c *gin.Context) {
	r, err := h.recipes.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, toRecipeResponse(r))
}

// RejectRecipe godoc
// @ID          rejectRecipe
// @Summary     Reject a recipe
// @Tags        Recipes
// @Produce     json
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     200  {object}  handlers.RecipeResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id}/reject [put]
func (h *Handlers) RejectRecipe(c *gin.Context) {
	r, err := h.recipes.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, toRecipeResponse(r))
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Removes the recipe with its comments, favorites and ratings.
// @Tags        Recipes
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     204  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	if err := h.recipes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "")
		return
	}
	noContent(c)
}
