package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// StatsReport summarises a RepairAll run.
type StatsReport struct {
	Processed int
	Failed    int
	Errors    []error
}

// StatsService rebuilds the denormalised recipe counters from the
// favorites and ratings tables.
type StatsService struct {
	DB *gorm.DB
}

// RepairAll recounts favorites and ratings for every recipe and rewrites
// total_favorites, total_ratings and average_rating. A failure on one
// recipe is recorded and the run continues.
func (s *StatsService) RepairAll(ctx context.Context) (StatsReport, error) {
	ids, err := repo.ListRecipeIDs(ctx, s.DB)
	if err != nil {
		return StatsReport{}, err
	}
	var rep StatsReport
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := s.Repair(ctx, id); err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Errorf("recipe %s: %w", id, err))
			log.Warn().Err(err).Str("recipe_id", id).Msg("stats repair failed")
			continue
		}
		rep.Processed++
	}
	return rep, nil
}

// Repair rewrites the counters of a single recipe in one transaction.
func (s *StatsService) Repair(ctx context.Context, recipeID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		favs, err := repo.CountFavoritesByRecipe(ctx, tx, recipeID)
		if err != nil {
			return err
		}
		if err := repo.SetFavoriteCount(ctx, tx, recipeID, int(favs)); err != nil {
			return err
		}
		sum, err := repo.SummarizeRatings(ctx, tx, recipeID)
		if err != nil {
			return err
		}
		return repo.SetRatingStats(ctx, tx, recipeID, sum.Average(), sum.Count)
	})
}
