// Package services – FavoriteService
//
// This file implements FavoriteService. Adding or removing a favorite and
// adjusting the recipe's total_favorites counter happen in one transaction;
// the (user_id, recipe_id) unique index backs up the duplicate check so two
// racing adds cannot both count.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/observability"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// FavoriteService implements the favorite use-cases. It opens its own
// transaction per mutating call.
type FavoriteService struct {
	DB *gorm.DB
}

// Add saves recipeID to userID's favorites and increments the counter.
//
// Errors:
//   - ErrRecipeNotFound when the recipe does not exist.
//   - ErrDuplicateFavorite when the pair already exists; the counter is
//     left untouched.
func (s *FavoriteService) Add(ctx context.Context, userID, recipeID string) (*domain.Favorite, error) {
	ctx, span := otel.Tracer("services/FavoriteService").Start(ctx, "Add",
		trace.WithAttributes(
			attribute.String("recipe.id", recipeID),
			attribute.String("user.id", userID),
		))
	defer span.End()

	var fav *domain.Favorite
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := repo.RecipeExists(ctx, tx, recipeID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrRecipeNotFound
		}

		if _, err := repo.GetFavorite(ctx, tx, userID, recipeID); err == nil {
			return ErrDuplicateFavorite
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		fav, err = repo.CreateFavorite(ctx, tx, userID, recipeID)
		if err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrDuplicateFavorite
			}
			return err
		}
		return repo.IncrementFavorites(ctx, tx, recipeID)
	})
	if err != nil {
		return nil, err
	}

	observability.FavoriteChanges.WithLabelValues("add").Inc()
	zerolog.Ctx(ctx).Debug().Str("recipe_id", recipeID).Str("user_id", userID).Msg("favorite added")
	return fav, nil
}

// Remove deletes the favorite and decrements the counter, never below zero.
// It returns ErrFavoriteNotFound when the pair does not exist.
func (s *FavoriteService) Remove(ctx context.Context, userID, recipeID string) error {
	ctx, span := otel.Tracer("services/FavoriteService").Start(ctx, "Remove",
		trace.WithAttributes(
			attribute.String("recipe.id", recipeID),
			attribute.String("user.id", userID),
		))
	defer span.End()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := repo.DeleteFavorite(ctx, tx, userID, recipeID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrFavoriteNotFound
		}
		return repo.DecrementFavorites(ctx, tx, recipeID)
	})
	if err != nil {
		return err
	}

	observability.FavoriteChanges.WithLabelValues("remove").Inc()
	zerolog.Ctx(ctx).Debug().Str("recipe_id", recipeID).Str("user_id", userID).Msg("favorite removed")
	return nil
}

// IsFavorite reports whether userID has saved recipeID.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	_, err := repo.GetFavorite(ctx, s.DB, userID, recipeID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// ListByUser returns userID's favorites, most recent first.
func (s *FavoriteService) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	return repo.ListFavoritesByUser(ctx, s.DB, userID)
}
