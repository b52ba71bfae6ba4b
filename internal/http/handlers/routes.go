package handlers

import "github.com/gin-gonic/gin"

// Register mounts every API endpoint on api.
func (h *Handlers) Register(api gin.IRoutes) {
	// Recipes
	api.POST("/recipes", h.CreateRecipe)
	api.GET("/recipes", h.ListRecipes)
	api.GET("/recipes/:id", h.GetRecipe)
	api.PUT("/recipes/:id", h.UpdateRecipe)
	api.PUT("/recipes/:id/approve", h.ApproveRecipe)
	api.PUT("/recipes/:id/reject", h.RejectRecipe)
	api.DELETE("/recipes/:id", h.DeleteRecipe)

	// Comments
	api.GET("/recipes/:id/comments", h.ListRecipeComments)
	api.GET("/recipes/:id/comments/tree", h.CommentTree)
	api.POST("/recipes/:id/comments", h.CreateComment)
	api.GET("/comments/:id/replies", h.ListReplies)
	api.PUT("/comments/:id", h.UpdateComment)
	api.DELETE("/comments/:id", h.DeleteComment)

	// Favorites
	api.POST("/recipes/:id/favorite", h.AddFavorite)
	api.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
	api.GET("/recipes/:id/favorite", h.CheckFavorite)

	// Ratings
	api.PUT("/recipes/:id/rating", h.RateRecipe)
	api.GET("/recipes/:id/rating", h.GetMyRating)
	api.GET("/recipes/:id/ratings", h.ListRecipeRatings)
	api.PUT("/ratings/:id", h.UpdateRating)
	api.DELETE("/ratings/:id", h.DeleteRating)

	// Per-user lists
	api.GET("/users/:id/comments", h.ListUserComments)
	api.GET("/users/:id/favorites", h.ListUserFavorites)
	api.GET("/users/:id/ratings", h.ListUserRatings)

	// Uploads
	api.POST("/uploads/recipe-image", h.UploadRecipeImage)
}
