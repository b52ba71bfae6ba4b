package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func validInput() RecipeInput {
	return RecipeInput{
		Title:       "Tomato soup",
		Description: "Warm and **simple**",
		Ingredients: []string{"tomatoes", "salt"},
		Steps:       []string{"chop", "boil"},
		Category:    domain.CategorySoup,
		PrepTime:    10,
		CookTime:    20,
		Difficulty:  domain.DifficultyEasy,
	}
}

func mustRecipe(t *testing.T, db *gorm.DB, owner string) *domain.Recipe {
	t.Helper()
	r, err := NewRecipeService(db, repo.RecipeStore{}).Create(context.Background(), owner, validInput())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	return r
}

func reloadRecipe(t *testing.T, db *gorm.DB, id string) *domain.Recipe {
	t.Helper()
	r, err := repo.GetRecipe(context.Background(), db, id)
	if err != nil {
		t.Fatalf("reload recipe: %v", err)
	}
	return r
}

func ptr[T any](v T) *T { return &v }
