package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// CreateRating inserts a rating. The (user_id, recipe_id) pair is unique.
func CreateRating(ctx context.Context, db *gorm.DB, userID, recipeID string, stars int) (*domain.Rating, error) {
	now := time.Now().UTC()
	r := &domain.Rating{
		ID:        uuid.NewString(),
		RecipeID:  recipeID,
		UserID:    userID,
		Stars:     stars,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRating loads a rating by id, or returns ErrNotFound.
func GetRating(ctx context.Context, db *gorm.DB, id string) (*domain.Rating, error) {
	var r domain.Rating
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// FindRating returns the rating userID left on recipeID, or ErrNotFound.
func FindRating(ctx context.Context, db *gorm.DB, userID, recipeID string) (*domain.Rating, error) {
	var r domain.Rating
	err := db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRatingsByRecipe returns the ratings of a recipe, oldest first.
func ListRatingsByRecipe(ctx context.Context, db *gorm.DB, recipeID string) ([]domain.Rating, error) {
	var out []domain.Rating
	err := db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListRatingsByUser returns the ratings userID left, newest first.
func ListRatingsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Rating, error) {
	var out []domain.Rating
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// UpdateRatingStars replaces stars and updated_at. Returns ErrNotFound when
// no row matched.
func UpdateRatingStars(ctx context.Context, db *gorm.DB, id string, stars int, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"stars": stars, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRating removes a rating by id, reporting whether it existed.
func DeleteRating(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Rating{})
	return res.RowsAffected > 0, res.Error
}
