// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a recipe is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Counter updates (IncrementFavorites, DecrementFavorites, SetRatingStats)
// are single UPDATE statements so they compose with a surrounding
// transaction and never read-modify-write in Go. They also bump updated_at,
// which feeds the list ETag.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// RecipeFilter narrows ListRecipesPage/CountRecipes. Empty fields match all.
type RecipeFilter struct {
	UserID   string
	Status   domain.Status
	Category domain.Category
}

func (f RecipeFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

// CreateRecipe inserts r. A missing ID is filled with a UUID and zero
// timestamps are set to now (UTC).
func CreateRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	return db.WithContext(ctx).Create(r).Error
}

// GetRecipe fetches a single recipe by ID or returns ErrNotFound.
func GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	var r domain.Recipe
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// RecipeExists reports whether a recipe with id is stored.
func RecipeExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}

// ListRecipesPage returns recipes matching f, newest first.
// A non-positive limit returns every match.
func ListRecipesPage(ctx context.Context, db *gorm.DB, f RecipeFilter, offset, limit int) ([]domain.Recipe, error) {
	var out []domain.Recipe
	q := f.apply(db.WithContext(ctx).Model(&domain.Recipe{})).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountRecipes returns how many recipes match f.
func CountRecipes(ctx context.Context, db *gorm.DB, f RecipeFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Recipe{})).Count(&total).Error
	return total, err
}

// ListRecipeIDs returns every recipe id in insertion-independent order.
func ListRecipeIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Model(&domain.Recipe{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// SaveRecipe writes the editable columns of r. Counters, owner and
// created_at are never touched here. Returns ErrNotFound if no row matched.
func SaveRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	res := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", r.ID).
		Select("title", "description", "image_url", "ingredients", "steps",
			"category", "prep_time", "cook_time", "difficulty", "status", "updated_at").
		Updates(r)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecipe removes the recipe by id. It reports false when nothing was
// deleted. Dependent comments, favorites and ratings go with it through the
// ON DELETE CASCADE foreign keys.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Recipe{})
	return res.RowsAffected > 0, res.Error
}

// IncrementFavorites atomically adds one to total_favorites.
func IncrementFavorites(ctx context.Context, db *gorm.DB, recipeID string) error {
	return db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumns(map[string]any{
			"total_favorites": gorm.Expr("total_favorites + 1"),
			"updated_at":      time.Now().UTC(),
		}).Error
}

// DecrementFavorites atomically subtracts one from total_favorites, but
// only while it is positive, so the counter never goes below zero.
func DecrementFavorites(ctx context.Context, db *gorm.DB, recipeID string) error {
	return db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ? AND total_favorites > 0", recipeID).
		UpdateColumns(map[string]any{
			"total_favorites": gorm.Expr("total_favorites - 1"),
			"updated_at":      time.Now().UTC(),
		}).Error
}

// SetRatingStats stores the recomputed average and rating count.
func SetRatingStats(ctx context.Context, db *gorm.DB, recipeID string, avg float64, total int) error {
	return db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumns(map[string]any{
			"average_rating": avg,
			"total_ratings":  total,
			"updated_at":     time.Now().UTC(),
		}).Error
}

// SetFavoriteCount overwrites total_favorites. Used by the stats repair job.
func SetFavoriteCount(ctx context.Context, db *gorm.DB, recipeID string, total int) error {
	return db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumns(map[string]any{
			"total_favorites": total,
			"updated_at":      time.Now().UTC(),
		}).Error
}
