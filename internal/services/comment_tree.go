package services

import "github.com/tbourn/go-recipe-backend/internal/domain"

// BuildCommentTree nests a flat comment list into threads.
//
// Top-level comments keep their input order and so do the replies under
// each parent. Replies whose parent is not in the list (for example after a
// single delete) are not reachable from any root and are left out. Each id
// is expanded at most once, so corrupted parent links cannot loop.
func BuildCommentTree(flat []domain.Comment) []domain.CommentThread {
	children := make(map[string][]domain.Comment)
	var roots []domain.Comment
	for _, c := range flat {
		if c.IsTopLevel() {
			roots = append(roots, c)
			continue
		}
		p := *c.ParentCommentID
		children[p] = append(children[p], c)
	}

	seen := make(map[string]bool, len(flat))
	var build func(c domain.Comment) domain.CommentThread
	build = func(c domain.Comment) domain.CommentThread {
		seen[c.ID] = true
		node := domain.CommentThread{Comment: c, Replies: []domain.CommentThread{}}
		for _, child := range children[c.ID] {
			if seen[child.ID] {
				continue
			}
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	out := make([]domain.CommentThread, 0, len(roots))
	for _, r := range roots {
		if seen[r.ID] {
			continue
		}
		out = append(out, build(r))
	}
	return out
}
