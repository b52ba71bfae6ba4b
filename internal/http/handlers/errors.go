// Package handlers defines the HTTP-layer error codes and the mapping from
// service errors to responses.
//
// Codes are lowercase snake_case. Generic codes mirror the HTTP status; the
// domain-specific ones name failures the status alone cannot convey.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/imagehost"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidInput      = "invalid_input"
	ErrCodeCreateFailed      = "create_failed"
	ErrCodeListFailed        = "list_failed"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
	ErrCodeUploadUnavailable = "upload_unavailable"
	ErrCodeUploadFailed      = "upload_failed"
)

var (
	notFoundErrs = []error{
		services.ErrRecipeNotFound,
		services.ErrCommentNotFound,
		services.ErrParentNotFound,
		services.ErrFavoriteNotFound,
		services.ErrRatingNotFound,
	}
	forbiddenErrs = []error{
		services.ErrForbiddenComment,
		services.ErrForbiddenRating,
	}
	conflictErrs = []error{
		services.ErrDuplicateFavorite,
		services.ErrDuplicateRating,
	}
	badRequestErrs = []error{
		services.ErrInvalidStars,
		services.ErrMaxDepthExceeded,
		services.ErrParentMismatch,
		services.ErrEmptyFile,
		services.ErrFileTooLarge,
		services.ErrUnsupportedType,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps a service error onto the envelope. Unknown errors become
// 500 with fallbackCode.
func writeError(c *gin.Context, err error, fallbackCode string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		failDetails(c, http.StatusBadRequest, ErrCodeInvalidInput, services.ErrInvalidInput.Error(), verr.Fields)
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
	case isAny(err, notFoundErrs):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case isAny(err, forbiddenErrs):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case isAny(err, conflictErrs):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case isAny(err, badRequestErrs):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrUploadUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeUploadUnavailable, err.Error())
	case errors.Is(err, imagehost.ErrUpstream):
		fail(c, http.StatusBadGateway, ErrCodeUploadFailed, "image host rejected the upload")
	default:
		if fallbackCode == "" {
			fallbackCode = ErrCodeInternal
		}
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}
