package repo

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// newTestDB opens a private in-memory database and migrates the given models.
func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// newFullDB migrates every table.
func newFullDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func seedRecipe(t *testing.T, db *gorm.DB, id, userID string, status domain.Status, cat domain.Category, at time.Time) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		ID:          id,
		Title:       "Recipe " + id,
		Description: "desc",
		Ingredients: []string{"a"},
		Steps:       []string{"b"},
		Category:    cat,
		PrepTime:    1,
		CookTime:    1,
		Difficulty:  domain.DifficultyEasy,
		UserID:      userID,
		Status:      status,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed recipe %s: %v", id, err)
	}
	return r
}
