// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// RecipesStats returns the number of recipes matching f and the greatest
// UpdatedAt among them. When nothing matches, count is 0 and maxUpdatedAt
// is nil.
//
// Return values:
//   - count:        total recipes for the filter
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func RecipesStats(ctx context.Context, db *gorm.DB, f RecipeFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	q := f.apply(db.WithContext(ctx).Model(&domain.Recipe{}))

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	q = f.apply(db.WithContext(ctx).Model(&domain.Recipe{}))
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// RatingSummary is the aggregate over a recipe's current ratings.
type RatingSummary struct {
	Count int
	Sum   int
}

// Average is Sum/Count, or 0 when there are no ratings.
func (s RatingSummary) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// SummarizeRatings rescans every rating of recipeID.
func SummarizeRatings(ctx context.Context, db *gorm.DB, recipeID string) (RatingSummary, error) {
	var stars []int
	err := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("recipe_id = ?", recipeID).
		Pluck("stars", &stars).Error
	if err != nil {
		return RatingSummary{}, err
	}
	s := RatingSummary{Count: len(stars)}
	for _, v := range stars {
		s.Sum += v
	}
	return s, nil
}
