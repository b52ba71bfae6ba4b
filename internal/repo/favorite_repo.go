// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Favorite model.
//
// Duplicate favorites (same user_id, recipe_id) rely on the database unique
// index and surface as a raw DB error; the service layer translates that
// into services.ErrDuplicateFavorite.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// CreateFavorite inserts a favorite for (userID, recipeID).
func CreateFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) (*domain.Favorite, error) {
	f := &domain.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// GetFavorite returns the favorite for the pair or ErrNotFound.
func GetFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) (*domain.Favorite, error) {
	var f domain.Favorite
	err := db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFavoritesByUser returns a user's favorites, most recent first.
func ListFavoritesByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Favorite, error) {
	var out []domain.Favorite
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// CountFavoritesByRecipe counts the favorites currently stored for a recipe.
func CountFavoritesByRecipe(ctx context.Context, db *gorm.DB, recipeID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Favorite{}).Where("recipe_id = ?", recipeID).Count(&n).Error
	return n, err
}

// DeleteFavorite removes the pair, reporting whether a row was deleted.
func DeleteFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) (bool, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.Favorite{})
	return res.RowsAffected > 0, res.Error
}
