package services

import (
	"context"
	"testing"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

func TestStatsService_RepairAll_RewritesDriftedCounters(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()

	a := mustRecipe(t, db, "owner")
	b := mustRecipe(t, db, "owner")

	// Rows written behind the services' back, counters left stale.
	for _, u := range []string{"u1", "u2"} {
		if _, err := repo.CreateFavorite(ctx, db, u, a.ID); err != nil {
			t.Fatalf("favorite: %v", err)
		}
	}
	for u, stars := range map[string]int{"u1": 5, "u2": 4} {
		if _, err := repo.CreateRating(ctx, db, u, a.ID, stars); err != nil {
			t.Fatalf("rating: %v", err)
		}
	}
	if err := db.Model(&domain.Recipe{}).Where("id = ?", b.ID).
		Updates(map[string]any{"total_favorites": 7, "average_rating": 3.3, "total_ratings": 2}).Error; err != nil {
		t.Fatalf("drift: %v", err)
	}

	rep, err := (&StatsService{DB: db}).RepairAll(ctx)
	if err != nil {
		t.Fatalf("RepairAll: %v", err)
	}
	if rep.Processed != 2 || rep.Failed != 0 {
		t.Fatalf("report = %+v", rep)
	}

	got := reloadRecipe(t, db, a.ID)
	if got.TotalFavorites != 2 || got.TotalRatings != 2 || got.AverageRating != 4.5 {
		t.Fatalf("a = fav %d ratings %d avg %v", got.TotalFavorites, got.TotalRatings, got.AverageRating)
	}
	got = reloadRecipe(t, db, b.ID)
	if got.TotalFavorites != 0 || got.TotalRatings != 0 || got.AverageRating != 0 {
		t.Fatalf("b = fav %d ratings %d avg %v", got.TotalFavorites, got.TotalRatings, got.AverageRating)
	}
}

func TestStatsService_RepairAll_CancelledContext(t *testing.T) {
	db := newSvcDB(t)
	mustRecipe(t, db, "owner")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&StatsService{DB: db}).RepairAll(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
