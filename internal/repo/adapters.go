package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// RecipeStore exposes the recipe functions as methods so services can
// depend on an interface and tests can swap in fakes.
type RecipeStore struct{}

func (RecipeStore) CreateRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	return CreateRecipe(ctx, db, r)
}

func (RecipeStore) GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	return GetRecipe(ctx, db, id)
}

func (RecipeStore) RecipeExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return RecipeExists(ctx, db, id)
}

func (RecipeStore) ListRecipesPage(ctx context.Context, db *gorm.DB, f RecipeFilter, offset, limit int) ([]domain.Recipe, error) {
	return ListRecipesPage(ctx, db, f, offset, limit)
}

func (RecipeStore) CountRecipes(ctx context.Context, db *gorm.DB, f RecipeFilter) (int64, error) {
	return CountRecipes(ctx, db, f)
}

func (RecipeStore) SaveRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	return SaveRecipe(ctx, db, r)
}

func (RecipeStore) DeleteRecipe(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return DeleteRecipe(ctx, db, id)
}

// CommentStore is the method-set form of the comment functions.
type CommentStore struct{}

func (CommentStore) CreateComment(ctx context.Context, db *gorm.DB, recipeID, userID, text string, parentID *string) (*domain.Comment, error) {
	return CreateComment(ctx, db, recipeID, userID, text, parentID)
}

func (CommentStore) GetComment(ctx context.Context, db *gorm.DB, id string) (*domain.Comment, error) {
	return GetComment(ctx, db, id)
}

func (CommentStore) ListCommentsByRecipe(ctx context.Context, db *gorm.DB, recipeID string) ([]domain.Comment, error) {
	return ListCommentsByRecipe(ctx, db, recipeID)
}

func (CommentStore) ListCommentsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Comment, error) {
	return ListCommentsByUser(ctx, db, userID)
}

func (CommentStore) ListReplies(ctx context.Context, db *gorm.DB, parentIDs []string) ([]domain.Comment, error) {
	return ListReplies(ctx, db, parentIDs)
}

func (CommentStore) UpdateCommentText(ctx context.Context, db *gorm.DB, id, text string, at time.Time) error {
	return UpdateCommentText(ctx, db, id, text, at)
}

func (CommentStore) DeleteComments(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	return DeleteComments(ctx, db, ids)
}

func (CommentStore) DeleteComment(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return DeleteComment(ctx, db, id)
}
