// Package services – CommentService
//
// This file implements CommentService: creating comments and bounded-depth
// replies, editing and deleting them (author only), and reading them flat,
// per user, as direct replies or as an assembled reply tree.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/content"
	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/observability"
)

// CommentRepo defines the repository contract required by CommentService.
type CommentRepo interface {
	CreateComment(ctx context.Context, db *gorm.DB, recipeID, userID, text string, parentID *string) (*domain.Comment, error)
	GetComment(ctx context.Context, db *gorm.DB, id string) (*domain.Comment, error)
	ListCommentsByRecipe(ctx context.Context, db *gorm.DB, recipeID string) ([]domain.Comment, error)
	ListCommentsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Comment, error)
	ListReplies(ctx context.Context, db *gorm.DB, parentIDs []string) ([]domain.Comment, error)
	UpdateCommentText(ctx context.Context, db *gorm.DB, id, text string, at time.Time) error
	DeleteComments(ctx context.Context, db *gorm.DB, ids []string) (int64, error)
	DeleteComment(ctx context.Context, db *gorm.DB, id string) (bool, error)
}

// RecipeChecker answers whether a recipe exists.
type RecipeChecker interface {
	RecipeExists(ctx context.Context, db *gorm.DB, id string) (bool, error)
}

// CommentService provides comment use-cases.
type CommentService struct {
	DB      *gorm.DB
	Repo    CommentRepo
	Recipes RecipeChecker

	// MaxDepth bounds the ancestor chain a reply may attach to.
	MaxDepth int
	// MaxTextRunes caps comment length after sanitising.
	MaxTextRunes int

	Now func() time.Time
}

// NewCommentService constructs a CommentService with the default limits.
func NewCommentService(db *gorm.DB, r CommentRepo, recipes RecipeChecker) *CommentService {
	return &CommentService{
		DB:           db,
		Repo:         r,
		Recipes:      recipes,
		MaxDepth:     domain.MaxCommentDepth,
		MaxTextRunes: 2000,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *CommentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *CommentService) maxDepth() int {
	if s.MaxDepth > 0 {
		return s.MaxDepth
	}
	return domain.MaxCommentDepth
}

// cleanText strips markup and enforces non-empty and length limits.
func (s *CommentService) cleanText(raw string) (string, error) {
	text := content.StripTags(raw)
	if text == "" {
		return "", invalidField("text", "is required")
	}
	if s.MaxTextRunes > 0 && utf8.RuneCountInString(text) > s.MaxTextRunes {
		return "", invalidField("text", fmt.Sprintf("must not exceed %d characters", s.MaxTextRunes))
	}
	return text, nil
}

// Create adds a comment to recipeID. A non-empty parentID makes it a reply,
// which requires the parent to exist on the same recipe and to sit less
// than MaxDepth levels deep.
func (s *CommentService) Create(ctx context.Context, userID, recipeID, text string, parentID *string) (*domain.Comment, error) {
	ctx, span := otel.Tracer("services/CommentService").Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("recipe.id", recipeID),
			attribute.String("user.id", userID),
		))
	defer span.End()

	text, err := s.cleanText(text)
	if err != nil {
		return nil, err
	}

	exists, err := s.Recipes.RecipeExists(ctx, s.DB, recipeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRecipeNotFound
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		parent, err := s.Repo.GetComment(ctx, s.DB, *parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.RecipeID != recipeID {
			return nil, ErrParentMismatch
		}
		depth, err := s.Depth(ctx, parent)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("comment.parent_depth", depth))
		if depth >= s.maxDepth() {
			return nil, ErrMaxDepthExceeded
		}
	}

	return s.Repo.CreateComment(ctx, s.DB, recipeID, userID, text, parentID)
}

// Depth counts c and its ancestors, following parent links until a
// top-level comment or a missing ancestor. The walk stops once MaxDepth is
// reached, so it terminates even if the links form a cycle.
func (s *CommentService) Depth(ctx context.Context, c *domain.Comment) (int, error) {
	depth := 1
	cur := c
	for cur.IsReply() && depth < s.maxDepth() {
		next, err := s.Repo.GetComment(ctx, s.DB, *cur.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return 0, err
		}
		depth++
		cur = next
	}
	return depth, nil
}

// Get returns the comment or ErrCommentNotFound.
func (s *CommentService) Get(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := s.Repo.GetComment(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}

// owned loads the comment and checks authorship, in that order.
func (s *CommentService) owned(ctx context.Context, userID, id string) (*domain.Comment, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.BelongsToUser(userID) {
		return nil, ErrForbiddenComment
	}
	return c, nil
}

// Update replaces the comment text. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, userID, id, text string) (*domain.Comment, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	text, err = s.cleanText(text)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.Repo.UpdateCommentText(ctx, s.DB, id, text, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	c.UpdateText(text, now)
	return c, nil
}

// Delete removes a comment the caller wrote. With deleteReplies every
// descendant is removed first, collected breadth-first one level at a time.
// The two statements are not atomic; a failure after the first leaves the
// descendants gone and the target in place. It returns the number of
// comments removed.
func (s *CommentService) Delete(ctx context.Context, userID, id string, deleteReplies bool) (int64, error) {
	ctx, span := otel.Tracer("services/CommentService").Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("comment.id", id),
			attribute.Bool("comment.delete_replies", deleteReplies),
		))
	defer span.End()

	if _, err := s.owned(ctx, userID, id); err != nil {
		return 0, err
	}

	var removed int64
	if deleteReplies {
		ids, err := s.descendants(ctx, id)
		if err != nil {
			return 0, err
		}
		if len(ids) > 0 {
			n, err := s.Repo.DeleteComments(ctx, s.DB, ids)
			if err != nil {
				return 0, err
			}
			removed += n
		}
	}

	deleted, err := s.Repo.DeleteComment(ctx, s.DB, id)
	if err != nil {
		return removed, err
	}
	if deleted {
		removed++
	}
	observability.CommentsDeleted.Add(float64(removed))
	zerolog.Ctx(ctx).Debug().
		Str("comment_id", id).
		Bool("delete_replies", deleteReplies).
		Int64("removed", removed).
		Msg("comment deleted")
	span.SetAttributes(attribute.Int64("comment.removed", removed))
	return removed, nil
}

// descendants returns the ids of every reply below rootID.
func (s *CommentService) descendants(ctx context.Context, rootID string) ([]string, error) {
	seen := map[string]bool{rootID: true}
	frontier := []string{rootID}
	var out []string
	for len(frontier) > 0 {
		children, err := s.Repo.ListReplies(ctx, s.DB, frontier)
		if err != nil {
			return nil, err
		}
		var next []string
		for _, c := range children {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c.ID)
			next = append(next, c.ID)
		}
		frontier = next
	}
	return out, nil
}

// ListByRecipe returns a recipe's comments, oldest first.
func (s *CommentService) ListByRecipe(ctx context.Context, recipeID string) ([]domain.Comment, error) {
	return s.Repo.ListCommentsByRecipe(ctx, s.DB, recipeID)
}

// ListByUser returns the comments userID wrote, newest first.
func (s *CommentService) ListByUser(ctx context.Context, userID string) ([]domain.Comment, error) {
	return s.Repo.ListCommentsByUser(ctx, s.DB, userID)
}

// Replies returns the direct replies to commentID.
func (s *CommentService) Replies(ctx context.Context, commentID string) ([]domain.Comment, error) {
	return s.Repo.ListReplies(ctx, s.DB, []string{commentID})
}

// Tree returns the recipe's comments nested into reply threads.
func (s *CommentService) Tree(ctx context.Context, recipeID string) ([]domain.CommentThread, error) {
	flat, err := s.Repo.ListCommentsByRecipe(ctx, s.DB, recipeID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(flat), nil
}
