package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// CreateComment inserts a comment or reply. parentID nil means top-level.
func CreateComment(ctx context.Context, db *gorm.DB, recipeID, userID, text string, parentID *string) (*domain.Comment, error) {
	now := time.Now().UTC()
	c := &domain.Comment{
		ID:              uuid.NewString(),
		RecipeID:        recipeID,
		UserID:          userID,
		Text:            text,
		ParentCommentID: parentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetComment loads a comment by id, or returns ErrNotFound.
func GetComment(ctx context.Context, db *gorm.DB, id string) (*domain.Comment, error) {
	var c domain.Comment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCommentsByRecipe returns the flat comment list of a recipe, oldest first.
// Tree assembly depends on this order.
func ListCommentsByRecipe(ctx context.Context, db *gorm.DB, recipeID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListCommentsByUser returns the comments userID wrote, newest first.
func ListCommentsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// ListReplies returns the direct replies of every id in parentIDs.
func ListReplies(ctx context.Context, db *gorm.DB, parentIDs []string) ([]domain.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("parent_comment_id IN ?", parentIDs).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// UpdateCommentText sets the text and updated_at. Returns ErrNotFound if no
// row matched.
func UpdateCommentText(ctx context.Context, db *gorm.DB, id, text string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"text": text, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteComments removes every comment in ids in one statement and returns
// how many rows went away.
func DeleteComments(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Comment{})
	return res.RowsAffected, res.Error
}

// DeleteComment removes one comment, reporting whether it existed.
func DeleteComment(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	return res.RowsAffected > 0, res.Error
}
