package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

func newCommentSvc(t *testing.T) (*CommentService, *domain.Recipe) {
	t.Helper()
	db := newSvcDB(t)
	r := mustRecipe(t, db, "chef")
	return NewCommentService(db, repo.CommentStore{}, repo.RecipeStore{}), r
}

func mustComment(t *testing.T, s *CommentService, userID, recipeID, text string, parent *domain.Comment) *domain.Comment {
	t.Helper()
	var pid *string
	if parent != nil {
		pid = &parent.ID
	}
	c, err := s.Create(context.Background(), userID, recipeID, text, pid)
	if err != nil {
		t.Fatalf("create comment %q: %v", text, err)
	}
	return c
}

func TestCommentService_Create_TopLevelAndReply(t *testing.T) {
	s, r := newCommentSvc(t)
	top := mustComment(t, s, "u1", r.ID, "<script>x</script>Lovely", nil)
	if top.Text != "Lovely" || !top.IsTopLevel() {
		t.Fatalf("top = %+v", top)
	}
	empty := ""
	alsoTop, err := s.Create(context.Background(), "u1", r.ID, "also top", &empty)
	if err != nil || !alsoTop.IsTopLevel() {
		t.Fatalf("empty parent id should be top-level: %+v %v", alsoTop, err)
	}
	reply := mustComment(t, s, "u2", r.ID, "thanks", top)
	if reply.ParentCommentID == nil || *reply.ParentCommentID != top.ID {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestCommentService_Create_Errors(t *testing.T) {
	s, r := newCommentSvc(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "u1", r.ID, "   ", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank text: want ErrInvalidInput, got %v", err)
	}
	if _, err := s.Create(ctx, "u1", r.ID, strings.Repeat("a", 2001), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("long text: want ErrInvalidInput, got %v", err)
	}
	if _, err := s.Create(ctx, "u1", "missing", "hi", nil); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("want ErrRecipeNotFound, got %v", err)
	}
	if _, err := s.Create(ctx, "u1", r.ID, "hi", ptr("nope")); !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("want ErrParentNotFound, got %v", err)
	}

	other := mustRecipe(t, s.DB, "chef")
	onOther := mustComment(t, s, "u1", other.ID, "elsewhere", nil)
	if _, err := s.Create(ctx, "u1", r.ID, "hi", &onOther.ID); !errors.Is(err, ErrParentMismatch) {
		t.Fatalf("want ErrParentMismatch, got %v", err)
	}
}

func TestCommentService_DepthBound(t *testing.T) {
	s, r := newCommentSvc(t)
	l1 := mustComment(t, s, "u1", r.ID, "level 1", nil)
	l2 := mustComment(t, s, "u2", r.ID, "level 2", l1)
	l3 := mustComment(t, s, "u3", r.ID, "level 3", l2)

	if d, err := s.Depth(context.Background(), l3); err != nil || d != 3 {
		t.Fatalf("Depth(l3) = %d, %v", d, err)
	}
	_, err := s.Create(context.Background(), "u4", r.ID, "level 4", &l3.ID)
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("want ErrMaxDepthExceeded, got %v", err)
	}
	// Replying to a shallower node is still fine.
	mustComment(t, s, "u4", r.ID, "sibling of level 3", l2)
}

func TestCommentService_Depth_StopsAtMissingAncestor(t *testing.T) {
	s, r := newCommentSvc(t)
	l1 := mustComment(t, s, "u1", r.ID, "root", nil)
	l2 := mustComment(t, s, "u1", r.ID, "child", l1)
	l3 := mustComment(t, s, "u1", r.ID, "grandchild", l2)

	// Single delete of the root leaves l2 with a dangling parent.
	if _, err := s.Delete(context.Background(), "u1", l1.ID, false); err != nil {
		t.Fatalf("delete root: %v", err)
	}
	if d, err := s.Depth(context.Background(), l3); err != nil || d != 2 {
		t.Fatalf("Depth after orphaning = %d, %v; want 2", d, err)
	}
	mustComment(t, s, "u1", r.ID, "now allowed", l3)
}

func TestCommentService_Update_OwnershipAndExistence(t *testing.T) {
	s, r := newCommentSvc(t)
	c := mustComment(t, s, "author", r.ID, "first", nil)
	later := time.Now().UTC().Add(time.Hour)
	s.Now = func() time.Time { return later }
	ctx := context.Background()

	if _, err := s.Update(ctx, "author", "missing", "x"); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("want ErrCommentNotFound, got %v", err)
	}
	// Ownership is checked before the text.
	if _, err := s.Update(ctx, "intruder", c.ID, ""); !errors.Is(err, ErrForbiddenComment) {
		t.Fatalf("want ErrForbiddenComment, got %v", err)
	}
	if _, err := s.Update(ctx, "author", c.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
	got, err := s.Update(ctx, "author", c.ID, "edited")
	if err != nil || got.Text != "edited" || !got.UpdatedAt.Equal(later) {
		t.Fatalf("Update = %+v, %v", got, err)
	}
	stored, _ := s.Get(ctx, c.ID)
	if stored.Text != "edited" {
		t.Fatalf("stored text = %q", stored.Text)
	}
}

func TestCommentService_Delete_CascadeVsSingle(t *testing.T) {
	ctx := context.Background()

	t.Run("cascade", func(t *testing.T) {
		s, r := newCommentSvc(t)
		a := mustComment(t, s, "u1", r.ID, "A", nil)
		b := mustComment(t, s, "u2", r.ID, "B", a)
		mustComment(t, s, "u3", r.ID, "C", b)
		mustComment(t, s, "u3", r.ID, "D", a)
		keep := mustComment(t, s, "u4", r.ID, "E", nil)

		n, err := s.Delete(ctx, "u1", a.ID, true)
		if err != nil || n != 4 {
			t.Fatalf("Delete = %d, %v; want 4", n, err)
		}
		left, _ := s.ListByRecipe(ctx, r.ID)
		if len(left) != 1 || left[0].ID != keep.ID {
			t.Fatalf("left = %+v", left)
		}
	})

	t.Run("single", func(t *testing.T) {
		s, r := newCommentSvc(t)
		a := mustComment(t, s, "u1", r.ID, "A", nil)
		b := mustComment(t, s, "u2", r.ID, "B", a)

		n, err := s.Delete(ctx, "u1", a.ID, false)
		if err != nil || n != 1 {
			t.Fatalf("Delete = %d, %v; want 1", n, err)
		}
		left, _ := s.ListByRecipe(ctx, r.ID)
		if len(left) != 1 || left[0].ID != b.ID || left[0].ParentCommentID == nil || *left[0].ParentCommentID != a.ID {
			t.Fatalf("reply should survive with dangling parent: %+v", left)
		}
		tree, _ := s.Tree(ctx, r.ID)
		if len(tree) != 0 {
			t.Fatalf("orphans must not appear in the tree: %+v", tree)
		}
	})

	t.Run("existence then ownership", func(t *testing.T) {
		s, r := newCommentSvc(t)
		a := mustComment(t, s, "u1", r.ID, "A", nil)
		if _, err := s.Delete(ctx, "u1", "missing", true); !errors.Is(err, ErrCommentNotFound) {
			t.Fatalf("want ErrCommentNotFound, got %v", err)
		}
		if _, err := s.Delete(ctx, "u2", a.ID, true); !errors.Is(err, ErrForbiddenComment) {
			t.Fatalf("want ErrForbiddenComment, got %v", err)
		}
	})
}

func TestCommentService_Reads(t *testing.T) {
	s, r := newCommentSvc(t)
	ctx := context.Background()
	a := mustComment(t, s, "u1", r.ID, "A", nil)
	mustComment(t, s, "u2", r.ID, "B", a)
	mustComment(t, s, "u1", r.ID, "C", a)

	replies, err := s.Replies(ctx, a.ID)
	if err != nil || len(replies) != 2 {
		t.Fatalf("Replies = %d, %v", len(replies), err)
	}
	mine, err := s.ListByUser(ctx, "u1")
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListByUser = %d, %v", len(mine), err)
	}
	tree, err := s.Tree(ctx, r.ID)
	if err != nil || len(tree) != 1 || len(tree[0].Replies) != 2 {
		t.Fatalf("Tree = %+v, %v", tree, err)
	}
}
