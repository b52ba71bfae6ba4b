// Package services defines the business logic for recipes, comments,
// favorites, ratings and image uploads. This file centralizes the
// service-level error values so they can be returned consistently by service
// methods and mapped to HTTP results by the handlers.
//
// The sentinels are grouped by the outcome they represent: not found,
// forbidden, conflict and bad request.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// Not found.
var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrParentNotFound   = errors.New("parent comment not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrRatingNotFound   = errors.New("rating not found")
)

// Forbidden.
var (
	// ErrForbiddenComment is returned when a user edits or deletes a comment
	// they did not write.
	ErrForbiddenComment = errors.New("you can only modify your own comments")

	// ErrForbiddenRating is returned when a user edits or deletes a rating
	// they did not leave.
	ErrForbiddenRating = errors.New("you can only modify your own ratings")
)

// Conflict.
var (
	ErrDuplicateFavorite = errors.New("recipe already in favorites")
	ErrDuplicateRating   = errors.New("rating already exists")
)

// Bad request.
var (
	// ErrInvalidInput wraps field-level validation failures (see ValidationError).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStars aliases the domain range error so callers need only
	// import services.
	ErrInvalidStars = domain.ErrStarsOutOfRange

	// ErrMaxDepthExceeded is returned when a reply would nest deeper than
	// domain.MaxCommentDepth.
	ErrMaxDepthExceeded = fmt.Errorf("maximum comment nesting depth (%d) exceeded", domain.MaxCommentDepth)

	// ErrParentMismatch is returned when a reply names a parent that belongs
	// to a different recipe.
	ErrParentMismatch = errors.New("parent comment belongs to a different recipe")

	// ErrEmptyFile is returned when an upload carries no bytes.
	ErrEmptyFile = errors.New("no file provided")

	// ErrFileTooLarge is returned when an upload exceeds the configured cap.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedType is returned when the sniffed MIME type is not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ErrUploadUnavailable is returned when no image host is configured.
var ErrUploadUnavailable = errors.New("image uploads are not configured")

// ValidationError carries per-field messages. errors.Is(err, ErrInvalidInput)
// holds for every ValidationError.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// invalidField builds a single-field ValidationError.
func invalidField(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
