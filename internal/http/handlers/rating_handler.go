// Rating HTTP handlers.
//
// Endpoints:
//   - PUT    /recipes/{id}/rating   (create or replace the caller's rating)
//   - GET    /recipes/{id}/rating   (the caller's rating, 404 if none)
//   - GET    /recipes/{id}/ratings
//   - PUT    /ratings/{id}          (author only)
//   - DELETE /ratings/{id}          (author only)
//   - GET    /users/{id}/ratings
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
)

// RateRequest carries a star value. The range check happens in the service.
type RateRequest struct {
	Stars *int `json:"stars" example:"4"`
}

// RatingsResponse wraps a list of ratings.
type RatingsResponse struct {
	Ratings []domain.Rating `json:"ratings"`
}

func bindStars(c *gin.Context) (int, bool) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return 0, false
	}
	if req.Stars == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "stars is required")
		return 0, false
	}
	return *req.Stars, true
}

func ratingsOrEmpty(in []domain.Rating) []domain.Rating {
	if in == nil {
		return []domain.Rating{}
	}
	return in
}

// RateRecipe godoc
// @ID          rateRecipe
// @Summary     Rate a recipe
// @Description Creates the caller's rating or replaces its stars, then recomputes the recipe average.
// @Tags        Ratings
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id    path  string  true  "Recipe ID"  format(uuid)
// @Param       body  body  handlers.RateRequest  true  "Stars (1-5)"
// @Success     200  {object}  domain.Rating
// @Failure     400  {object}  handlers.ErrorResponse  "Stars out of range"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id}/rating [put]
func (h *Handlers) RateRecipe(c *gin.Context) {
	stars, valid := bindStars(c)
	if !valid {
		return
	}
	r, err := h.ratings.Upsert(c.Request.Context(), middleware.UserID(c), c.Param("id"), stars)
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, r)
}

// GetMyRating godoc
// @ID          getMyRating
// @Summary     The caller's rating for a recipe
// @Tags        Ratings
// @Produce     json
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     200  {object}  domain.Rating
// @Failure     404  {object}  handlers.ErrorResponse  "No rating"
// @Router      /recipes/{id}/rating [get]
func (h *Handlers) GetMyRating(c *gin.Context) {
	r, err := h.ratings.GetForUser(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, r)
}

// ListRecipeRatings godoc
// @ID          listRecipeRatings
// @Summary     Every rating of a recipe
// @Tags        Ratings
// @Produce     json
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     200  {object}  handlers.RatingsResponse
// @Router      /recipes/{id}/ratings [get]
func (h *Handlers) ListRecipeRatings(c *gin.Context) {
	items, err := h.ratings.ListByRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, RatingsResponse{Ratings: ratingsOrEmpty(items)})
}

// UpdateRating godoc
// @ID          updateRating
// @Summary     Change a rating
// @Tags        Ratings
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Rating ID"  format(uuid)
// @Param       body  body  handlers.RateRequest  true  "Stars (1-5)"
// @Success     200  {object}  domain.Rating
// @Failure     400  {object}  handlers.ErrorResponse  "Stars out of range"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse  "Rating not found"
// @Router      /ratings/{id} [put]
func (h *Handlers) UpdateRating(c *gin.Context) {
	stars, valid := bindStars(c)
	if !valid {
		return
	}
	r, err := h.ratings.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), stars)
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, r)
}

// DeleteRating godoc
// @ID          deleteRating
// @Summary     Delete a rating
// @Tags        Ratings
// @Param       id   path  string  true  "Rating ID"  format(uuid)
// @Success     204  "No Content"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse  "Rating not found"
// @Router      /ratings/{id} [delete]
func (h *Handlers) DeleteRating(c *gin.Context) {
	if err := h.ratings.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err, "")
		return
	}
	noContent(c)
}

// ListUserRatings godoc
// @ID          listUserRatings
// @Summary     Ratings left by a user
// @Tags        Ratings
// @Produce     json
// @Param       id   path  string  true  "User ID"
// @Success     200  {object}  handlers.RatingsResponse
// @Router      /users/{id}/ratings [get]
func (h *Handlers) ListUserRatings(c *gin.Context) {
	items, err := h.ratings.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, RatingsResponse{Ratings: ratingsOrEmpty(items)})
}
