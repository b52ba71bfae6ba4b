// Comment HTTP handlers.
//
// Endpoints:
//   - GET    /recipes/{id}/comments       (flat, oldest first)
//   - GET    /recipes/{id}/comments/tree  (nested replies)
//   - POST   /recipes/{id}/comments       (comment or reply, Idempotency-Key aware)
//   - GET    /comments/{id}/replies
//   - PUT    /comments/{id}
//   - DELETE /comments/{id}?delete_replies=true|false
//   - GET    /users/{id}/comments
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
)

// CreateCommentRequest is the JSON payload for a comment or reply.
type CreateCommentRequest struct {
	Text string `json:"text" example:"Lovely with fresh basil."`
	// ParentCommentID makes the comment a reply. Empty means top-level.
	ParentCommentID *string `json:"parent_comment_id,omitempty" example:"6f1c2d0e-8a4b-4c1e-9f7d-2b3a4c5d6e7f"`
}

// UpdateCommentRequest is the JSON payload for editing a comment.
type UpdateCommentRequest struct {
	Text string `json:"text" example:"Lovely with fresh basil and olive oil."`
}

// CommentsResponse wraps a flat list of comments.
type CommentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

// CommentTreeResponse wraps the top-level threads of a recipe.
type CommentTreeResponse struct {
	Comments []domain.CommentThread `json:"comments"`
}

// DeleteCommentResponse reports how many comments were removed.
type DeleteCommentResponse struct {
	Deleted int64 `json:"deleted" example:"3"`
}

func commentsOrEmpty(in []domain.Comment) []domain.Comment {
	if in == nil {
		return []domain.Comment{}
	}
	return in
}

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a recipe
// @Description Adds a comment, or a reply when parent_comment_id is set. Replies nest at most three levels.
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Param       X-User-ID        header  string  false "User ID (demo header)"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       id    path  string  true  "Recipe ID"  format(uuid)
// @Param       body  body  handlers.CreateCommentRequest  true  "Comment payload"
// @Success     201  {object}  domain.Comment
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input, depth exceeded or parent on another recipe"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe or parent not found"
// @Router      /recipes/{id}/comments [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	db := h.commentDB()
	if h.replayIdempotent(c, db, func(ctx context.Context, id string) (any, error) {
		return h.comments.Get(ctx, id)
	}) {
		return
	}

	cm, err := h.comments.Create(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Text, req.ParentCommentID)
	if err != nil {
		writeError(c, err, ErrCodeCreateFailed)
		return
	}
	h.rememberIdempotent(c, db, cm.ID)
	ok(c, http.StatusCreated, cm)
}

// ListRecipeComments godoc
// @ID          listRecipeComments
// @Summary     List a recipe's comments
// @Tags        Comments
// @Produce     json
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     200  {object}  handlers.CommentsResponse
// @Router      /recipes/{id}/comments [get]
func (h *Handlers) ListRecipeComments(c *gin.Context) {
	items, err := h.comments.ListByRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, CommentsResponse{Comments: commentsOrEmpty(items)})
}

// CommentTree godoc
// @ID          commentTree
// @Summary     A recipe's comments as reply threads
// @Description Replies whose parent no longer exists are not included.
// @Tags        Comments
// @Produce     json
// @Param       id   path  string  true  "Recipe ID"  format(uuid)
// @Success     200  {object}  handlers.CommentTreeResponse
// @Router      /recipes/{id}/comments/tree [get]
func (h *Handlers) CommentTree(c *gin.Context) {
	threads, err := h.comments.Tree(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrCodeListFailed)
		return
	}
	if threads == nil {
		threads = []domain.CommentThread{}
	}
	ok(c, http.StatusOK, CommentTreeResponse{Comments: threads})
}

// ListReplies godoc
// @ID          listReplies
// @Summary     Direct replies to a comment
// @Tags        Comments
// @Produce     json
// @Param       id   path  string  true  "Comment ID"  format(uuid)
// @Success     200  {object}  handlers.CommentsResponse
// @Router      /comments/{id}/replies [get]
func (h *Handlers) ListReplies(c *gin.Context) {
	items, err := h.comments.Replies(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, CommentsResponse{Comments: commentsOrEmpty(items)})
}

// UpdateComment godoc
// @ID          updateComment
// @Summary     Edit a comment
// @Description Only the author may edit.
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Comment ID"  format(uuid)
// @Param       body  body  handlers.UpdateCommentRequest  true  "New text"
// @Success     200  {object}  domain.Comment
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse  "Comment not found"
// @Router      /comments/{id} [put]
func (h *Handlers) UpdateComment(c *gin.Context) {
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cm, err := h.comments.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Text)
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, cm)
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Description Only the author may delete. With delete_replies (default true) every nested reply goes too.
// @Tags        Comments
// @Produce     json
// @Param       id              path   string  true   "Comment ID"  format(uuid)
// @Param       delete_replies  query  bool    false  "Also delete nested replies"  default(true)
// @Success     200  {object}  handlers.DeleteCommentResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad delete_replies value"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse  "Comment not found"
// @Router      /comments/{id} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	deleteReplies := true
	if raw := c.Query("delete_replies"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "delete_replies must be true or false")
			return
		}
		deleteReplies = v
	}
	n, err := h.comments.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"), deleteReplies)
	if err != nil {
		writeError(c, err, "")
		return
	}
	ok(c, http.StatusOK, DeleteCommentResponse{Deleted: n})
}

// ListUserComments godoc
// @ID          listUserComments
// @Summary     Comments written by a user
// @Tags        Comments
// @Produce     json
// @Param       id   path  string  true  "User ID"
// @Success     200  {object}  handlers.CommentsResponse
// @Router      /users/{id}/comments [get]
func (h *Handlers) ListUserComments(c *gin.Context) {
	items, err := h.comments.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, CommentsResponse{Comments: commentsOrEmpty(items)})
}
