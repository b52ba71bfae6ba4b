package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

func TestCommentRepo_CRUD(t *testing.T) {
	db := newFullDB(t)
	ctx := context.Background()
	seedRecipe(t, db, "r1", "owner", domain.StatusApproved, domain.CategorySoup, time.Now().UTC())

	a, err := CreateComment(ctx, db, "r1", "u1", "first", nil)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	b, _ := CreateComment(ctx, db, "r1", "u2", "reply", &a.ID)
	c, _ := CreateComment(ctx, db, "r1", "u1", "nested", &b.ID)

	flat, err := ListCommentsByRecipe(ctx, db, "r1")
	if err != nil || len(flat) != 3 {
		t.Fatalf("ListCommentsByRecipe = %d, %v", len(flat), err)
	}

	replies, err := ListReplies(ctx, db, []string{a.ID})
	if err != nil || len(replies) != 1 || replies[0].ID != b.ID {
		t.Fatalf("ListReplies(a) = %+v, %v", replies, err)
	}
	if none, err := ListReplies(ctx, db, nil); err != nil || none != nil {
		t.Fatalf("ListReplies(nil) = %v, %v", none, err)
	}

	mine, _ := ListCommentsByUser(ctx, db, "u1")
	if len(mine) != 2 {
		t.Fatalf("ListCommentsByUser(u1) = %d; want 2", len(mine))
	}

	at := time.Now().UTC().Add(time.Minute)
	if err := UpdateCommentText(ctx, db, a.ID, "edited", at); err != nil {
		t.Fatalf("UpdateCommentText: %v", err)
	}
	got, _ := GetComment(ctx, db, a.ID)
	if got.Text != "edited" {
		t.Fatalf("text = %q", got.Text)
	}
	if err := UpdateCommentText(ctx, db, "missing", "x", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateCommentText(missing) = %v", err)
	}

	n, err := DeleteComments(ctx, db, []string{b.ID, c.ID})
	if err != nil || n != 2 {
		t.Fatalf("DeleteComments = %d, %v", n, err)
	}
	ok, err := DeleteComment(ctx, db, a.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteComment = %v, %v", ok, err)
	}
	if _, err := GetComment(ctx, db, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetComment after delete = %v", err)
	}
}

func TestComment_ParentHasNoForeignKey(t *testing.T) {
	db := newFullDB(t)
	ctx := context.Background()
	seedRecipe(t, db, "r1", "owner", domain.StatusApproved, domain.CategorySoup, time.Now().UTC())

	a, _ := CreateComment(ctx, db, "r1", "u1", "parent", nil)
	b, _ := CreateComment(ctx, db, "r1", "u1", "child", &a.ID)

	if _, err := DeleteComment(ctx, db, a.ID); err != nil {
		t.Fatalf("DeleteComment(parent): %v", err)
	}
	orphan, err := GetComment(ctx, db, b.ID)
	if err != nil || orphan.ParentCommentID == nil || *orphan.ParentCommentID != a.ID {
		t.Fatalf("reply should survive with dangling parent, got %+v, %v", orphan, err)
	}
}
