// Favorite HTTP handlers.
//
// Endpoints act on the caller's favorite for a recipe:
//   - POST   /recipes/{id}/favorite  (409 when already saved)
//   - DELETE /recipes/{id}/favorite  (404 when not saved)
//   - GET    /recipes/{id}/favorite  (check)
//   - GET    /users/{id}/favorites
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
)

// FavoriteStatusResponse reports whether the caller saved a recipe.
type FavoriteStatusResponse struct {
	RecipeID   string `json:"recipe_id"`
	IsFavorite bool   `json:"is_favorite"`
}

// FavoritesResponse wraps a user's favorites.
type FavoritesResponse struct {
	Favorites []domain.Favorite `json:"favorites"`
}

// AddFavorite godoc
// @ID          addFavorite
// @Summary     Save a recipe to favorites
// @Tags        Favorites
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     201  {object}  domain.Favorite
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already in favorites"
// @Router      /recipes/{id}/favorite [post]
func (h *Handlers) AddFavorite(c *gin.Context) {
	f, err := h.favorites.Add(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, f)
}

// RemoveFavorite godoc
// @ID          removeFavorite
// @Summary     Remove a recipe from favorites
// @Tags        Favorites
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     204  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Favorite not found"
// @Router      /recipes/{id}/favorite [delete]
func (h *Handlers) RemoveFavorite(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err, "")
		return
	}
	noContent(c)
}

// CheckFavorite godoc
// @ID          checkFavorite
// @Summary     Whether the caller saved a recipe
// @Tags        Favorites
// @Produce     json
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     200  {object}  handlers.FavoriteStatusResponse
// @Router      /recipes/{id}/favorite [get]
func (h *Handlers) CheckFavorite(c *gin.Context) {
	recipeID := c.Param("id")
	fav, err := h.favorites.IsFavorite(c.Request.Context(), middleware.UserID(c), recipeID)
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, FavoriteStatusResponse{RecipeID: recipeID, IsFavorite: fav})
}

// ListUserFavorites godoc
// @ID          listUserFavorites
// @Summary     A user's favorites, newest first
// @Tags        Favorites
// @Produce     json
// @Param       id   path  string  true  "User ID"
// @Success     200  {object}  handlers.FavoritesResponse
// @Router      /users/{id}/favorites [get]
func (h *Handlers) ListUserFavorites(c *gin.Context) {
	items, err := h.favorites.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrCodeListFailed)
		return
	}
	if items == nil {
		items = []domain.Favorite{}
	}
	ok(c, http.StatusOK, FavoritesResponse{Favorites: items})
}
