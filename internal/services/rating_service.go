// Package services – RatingService
//
// This file implements RatingService. Every rating write (upsert, update,
// delete) recomputes the recipe's average from a full rescan of its ratings
// and stores it with total_ratings inside the same transaction.
//
// On SQLite the transaction serialises writers. On PostgreSQL at READ
// COMMITTED two concurrent writes for one recipe can each recompute from a
// snapshot that misses the other's row; the next write to that recipe
// repairs the figures, as does `recipectl migrate-stats`.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/observability"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// RatingService implements the rating use-cases.
type RatingService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (s *RatingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Upsert records userID's stars for recipeID, replacing an earlier rating
// by the same user.
//
// Errors:
//   - ErrInvalidStars when stars is outside 1..5 (checked first).
//   - ErrRecipeNotFound when the recipe does not exist.
//   - ErrDuplicateRating if a concurrent request created the same pair.
func (s *RatingService) Upsert(ctx context.Context, userID, recipeID string, stars int) (*domain.Rating, error) {
	ctx, span := otel.Tracer("services/RatingService").Start(ctx, "Upsert",
		trace.WithAttributes(
			attribute.String("recipe.id", recipeID),
			attribute.String("user.id", userID),
			attribute.Int("rating.stars", stars),
		))
	defer span.End()

	if err := domain.ValidateStars(stars); err != nil {
		return nil, ErrInvalidStars
	}

	var out *domain.Rating
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := repo.RecipeExists(ctx, tx, recipeID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrRecipeNotFound
		}

		existing, err := repo.FindRating(ctx, tx, userID, recipeID)
		switch {
		case err == nil:
			now := s.now()
			if err := existing.SetStars(stars, now); err != nil {
				return ErrInvalidStars
			}
			if err := repo.UpdateRatingStars(ctx, tx, existing.ID, stars, now); err != nil {
				return err
			}
			out = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, err := repo.CreateRating(ctx, tx, userID, recipeID, stars)
			if err != nil {
				if repo.IsUniqueViolation(err) {
					return ErrDuplicateRating
				}
				return err
			}
			out = created
		default:
			return err
		}
		_, err = s.recompute(ctx, tx, recipeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes the stars of ratingID. Existence is checked before
// ownership.
func (s *RatingService) Update(ctx context.Context, userID, ratingID string, stars int) (*domain.Rating, error) {
	var out *domain.Rating
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.owned(ctx, tx, userID, ratingID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := r.SetStars(stars, now); err != nil {
			return ErrInvalidStars
		}
		if err := repo.UpdateRatingStars(ctx, tx, r.ID, stars, now); err != nil {
			return err
		}
		out = r
		_, err = s.recompute(ctx, tx, r.RecipeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes ratingID and recomputes the average of the recipe it
// belonged to.
func (s *RatingService) Delete(ctx context.Context, userID, ratingID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.owned(ctx, tx, userID, ratingID)
		if err != nil {
			return err
		}
		recipeID := r.RecipeID
		deleted, err := repo.DeleteRating(ctx, tx, r.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrRatingNotFound
		}
		_, err = s.recompute(ctx, tx, recipeID)
		return err
	})
}

func (s *RatingService) owned(ctx context.Context, db *gorm.DB, userID, ratingID string) (*domain.Rating, error) {
	r, err := repo.GetRating(ctx, db, ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	if !r.BelongsToUser(userID) {
		return nil, ErrForbiddenRating
	}
	return r, nil
}

// recompute rescans the recipe's ratings and stores average and count.
func (s *RatingService) recompute(ctx context.Context, tx *gorm.DB, recipeID string) (float64, error) {
	sum, err := repo.SummarizeRatings(ctx, tx, recipeID)
	if err != nil {
		return 0, err
	}
	avg := sum.Average()
	if err := repo.SetRatingStats(ctx, tx, recipeID, avg, sum.Count); err != nil {
		return 0, err
	}
	observability.RatingRecomputes.Inc()
	zerolog.Ctx(ctx).Debug().
		Str("recipe_id", recipeID).
		Float64("average", avg).
		Int("count", sum.Count).
		Msg("rating average recomputed")
	return avg, nil
}

// GetForUser returns the rating userID left on recipeID.
func (s *RatingService) GetForUser(ctx context.Context, userID, recipeID string) (*domain.Rating, error) {
	r, err := repo.FindRating(ctx, s.DB, userID, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListByRecipe returns every rating on recipeID.
func (s *RatingService) ListByRecipe(ctx context.Context, recipeID string) ([]domain.Rating, error) {
	return repo.ListRatingsByRecipe(ctx, s.DB, recipeID)
}

// ListByUser returns every rating userID left.
func (s *RatingService) ListByUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	return repo.ListRatingsByUser(ctx, s.DB, userID)
}
