// Package services – RecipeService
//
// This file implements RecipeService, which owns the recipe lifecycle:
// creation (always pending, counters zeroed), reads and filtered listing,
// partial updates, moderation transitions and deletion. Inputs are cleaned
// of markup and validated before they reach the repository.
package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/content"
	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/utils"
)

// RecipeRepo defines the repository contract required by RecipeService.
type RecipeRepo interface {
	CreateRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error
	GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error)
	ListRecipesPage(ctx context.Context, db *gorm.DB, f repo.RecipeFilter, offset, limit int) ([]domain.Recipe, error)
	CountRecipes(ctx context.Context, db *gorm.DB, f repo.RecipeFilter) (int64, error)
	SaveRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error
	DeleteRecipe(ctx context.Context, db *gorm.DB, id string) (bool, error)
}

// RecipeInput is the caller-supplied part of a new recipe.
type RecipeInput struct {
	Title       string
	Description string
	ImageURL    string
	Ingredients []string
	Steps       []string
	Category    domain.Category
	PrepTime    int
	CookTime    int
	Difficulty  domain.Difficulty
}

// RecipeService provides recipe use-cases.
type RecipeService struct {
	// DB is the GORM handle used for persistence.
	DB   *gorm.DB
	Repo RecipeRepo

	Validator *Validator
	// Now is the clock; defaults to time.Now in UTC.
	Now func() time.Time
}

// NewRecipeService constructs a RecipeService backed by r.
func NewRecipeService(db *gorm.DB, r RecipeRepo) *RecipeService {
	return &RecipeService{
		DB:        db,
		Repo:      r,
		Validator: NewValidator(),
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *RecipeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *RecipeService) validate(r *domain.Recipe) error {
	if s.Validator == nil {
		s.Validator = NewValidator()
	}
	return s.Validator.Struct(r)
}

// Create stores a new recipe owned by userID. Status is forced to pending
// and every counter starts at zero regardless of the input.
func (s *RecipeService) Create(ctx context.Context, userID string, in RecipeInput) (*domain.Recipe, error) {
	ctx, span := otel.Tracer("services/RecipeService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	now := s.now()
	r := &domain.Recipe{
		Title:       content.StripTags(in.Title),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Ingredients: content.StripAll(in.Ingredients),
		Steps:       content.StripAll(in.Steps),
		Category:    in.Category,
		PrepTime:    in.PrepTime,
		CookTime:    in.CookTime,
		Difficulty:  in.Difficulty,
		UserID:      userID,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.validate(r); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateRecipe(ctx, s.DB, r); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("recipe.id", r.ID))
	return r, nil
}

// Get returns the recipe or ErrRecipeNotFound.
func (s *RecipeService) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	r, err := s.Repo.GetRecipe(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// List returns every recipe matching f, newest first.
func (s *RecipeService) List(ctx context.Context, f repo.RecipeFilter) ([]domain.Recipe, error) {
	return s.Repo.ListRecipesPage(ctx, s.DB, f, 0, 0)
}

// ListAll returns every recipe.
func (s *RecipeService) ListAll(ctx context.Context) ([]domain.Recipe, error) {
	return s.List(ctx, repo.RecipeFilter{})
}

// ListByUser returns the recipes owned by userID.
func (s *RecipeService) ListByUser(ctx context.Context, userID string) ([]domain.Recipe, error) {
	return s.List(ctx, repo.RecipeFilter{UserID: userID})
}

// ListByStatus returns the recipes in the given moderation state.
func (s *RecipeService) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Recipe, error) {
	return s.List(ctx, repo.RecipeFilter{Status: status})
}

// ListByCategory returns the recipes in category.
func (s *RecipeService) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Recipe, error) {
	return s.List(ctx, repo.RecipeFilter{Category: category})
}

// ListPage returns a page of recipes matching f and the total match count.
// page and pageSize are clamped with utils.ClampPage.
func (s *RecipeService) ListPage(ctx context.Context, f repo.RecipeFilter, page, pageSize int) ([]domain.Recipe, int64, error) {
	page, pageSize = utils.ClampPage(page, pageSize)
	total, err := s.Repo.CountRecipes(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Recipe{}, 0, nil
	}
	items, err := s.Repo.ListRecipesPage(ctx, s.DB, f, utils.Offset(page, pageSize), pageSize)
	return items, total, err
}

// Update merges patch into the stored recipe and revalidates it. ID, owner,
// status, counters and CreatedAt cannot change through this path.
func (s *RecipeService) Update(ctx context.Context, id string, patch domain.RecipePatch) (*domain.Recipe, error) {
	ctx, span := otel.Tracer("services/RecipeService").Start(ctx, "Update",
		trace.WithAttributes(attribute.String("recipe.id", id)))
	defer span.End()

	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		v := content.StripTags(*patch.Title)
		patch.Title = &v
	}
	patch.Ingredients = content.StripAll(patch.Ingredients)
	patch.Steps = content.StripAll(patch.Steps)

	r.ApplyPatch(patch, s.now())
	if err := s.validate(r); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRecipe(ctx, s.DB, r); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// Approve marks the recipe approved.
func (s *RecipeService) Approve(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.transition(ctx, id, (*domain.Recipe).Approve)
}

// Reject marks the recipe rejected.
func (s *RecipeService) Reject(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.transition(ctx, id, (*domain.Recipe).Reject)
}

func (s *RecipeService) transition(ctx context.Context, id string, apply func(*domain.Recipe, time.Time)) (*domain.Recipe, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(r, s.now())
	if err := s.Repo.SaveRecipe(ctx, s.DB, r); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// Delete removes the recipe and, through the foreign keys, its comments,
// favorites and ratings.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.DeleteRecipe(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecipeNotFound
	}
	return nil
}
