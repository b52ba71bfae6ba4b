// Package domain defines the persistence models for recipes, comments,
// favorites and ratings. These types are mapped with GORM and carry the
// per-entity invariants (star range, ownership, status transitions) used by
// the service layer.
package domain

import (
	"errors"
	"time"
)

const (
	// MinStars and MaxStars bound a rating (inclusive).
	MinStars = 1
	MaxStars = 5

	// MaxCommentDepth is the longest ancestor chain a new reply may hang from.
	MaxCommentDepth = 3
)

// ErrStarsOutOfRange is returned when a rating falls outside [MinStars, MaxStars].
var ErrStarsOutOfRange = errors.New("rating must be between 1 and 5 stars")

// Recipe is a user-submitted recipe. Status always starts as pending and only
// changes through Approve/Reject. AverageRating, TotalFavorites and
// TotalRatings are maintained by the services and are never negative.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner of the recipe; immutable after creation.
//   - Ingredients / Steps: ordered lists stored as JSON text.
//   - PrepTime / CookTime: minutes, at least 1.
//   - AverageRating: mean of all current stars, 0 when unrated.
type Recipe struct {
	ID             string     `json:"id"              gorm:"type:char(36);primaryKey"`
	Title          string     `json:"title"           gorm:"type:varchar(200);not null"                 validate:"required,max=200"`
	Description    string     `json:"description"     gorm:"type:text;not null"                         validate:"required,max=10000"`
	ImageURL       string     `json:"image_url"       gorm:"type:varchar(1024)"                         validate:"omitempty,url,max=1024"`
	Ingredients    []string   `json:"ingredients"     gorm:"serializer:json;type:text;not null"         validate:"required,min=1,dive,required,max=500"`
	Steps          []string   `json:"steps"           gorm:"serializer:json;type:text;not null"         validate:"required,min=1,dive,required,max=2000"`
	Category       Category   `json:"category"        gorm:"type:varchar(32);not null;index:idx_recipes_category" validate:"required,oneof=main-course dessert appetizer soup salad"`
	PrepTime       int        `json:"prep_time"       gorm:"not null"                                   validate:"min=1"`
	CookTime       int        `json:"cook_time"       gorm:"not null"                                   validate:"min=1"`
	Difficulty     Difficulty `json:"difficulty"      gorm:"type:varchar(16);not null"                  validate:"required,oneof=easy medium hard"`
	UserID         string     `json:"user_id"         gorm:"type:varchar(64);not null;index:idx_recipes_user" validate:"required,max=64"`
	AverageRating  float64    `json:"average_rating"  gorm:"not null;default:0"`
	TotalFavorites int        `json:"total_favorites" gorm:"not null;default:0;check:total_favorites >= 0"`
	TotalRatings   int        `json:"total_ratings"   gorm:"not null;default:0;check:total_ratings >= 0"`
	Status         Status     `json:"status"          gorm:"type:varchar(16);not null;default:'pending';index:idx_recipes_status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// TotalTime is preparation plus cooking time in minutes.
func (r *Recipe) TotalTime() int { return r.PrepTime + r.CookTime }

// Approve moves the recipe to approved.
func (r *Recipe) Approve(now time.Time) {
	r.Status = StatusApproved
	r.UpdatedAt = now
}

// Reject moves the recipe to rejected.
func (r *Recipe) Reject(now time.Time) {
	r.Status = StatusRejected
	r.UpdatedAt = now
}

// RecipePatch carries a partial update. Nil fields are left untouched.
// ID, owner, status, counters and CreatedAt are intentionally absent.
type RecipePatch struct {
	Title       *string
	Description *string
	ImageURL    *string
	Ingredients []string
	Steps       []string
	Category    *Category
	PrepTime    *int
	CookTime    *int
	Difficulty  *Difficulty
}

// ApplyPatch merges p into r and touches UpdatedAt.
func (r *Recipe) ApplyPatch(p RecipePatch, now time.Time) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.ImageURL != nil {
		r.ImageURL = *p.ImageURL
	}
	if p.Ingredients != nil {
		r.Ingredients = p.Ingredients
	}
	if p.Steps != nil {
		r.Steps = p.Steps
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.PrepTime != nil {
		r.PrepTime = *p.PrepTime
	}
	if p.CookTime != nil {
		r.CookTime = *p.CookTime
	}
	if p.Difficulty != nil {
		r.Difficulty = *p.Difficulty
	}
	r.UpdatedAt = now
}

// Comment is a user's comment on a recipe. A nil ParentCommentID marks a
// top-level comment; otherwise the comment is a reply.
//
// ParentCommentID has no foreign key on purpose: deleting a single comment
// leaves its replies pointing at a parent that no longer exists.
type Comment struct {
	ID              string    `json:"id"                gorm:"type:char(36);primaryKey"`
	RecipeID        string    `json:"recipe_id"         gorm:"type:char(36);not null;index:idx_recipe_comments,priority:1"`
	UserID          string    `json:"user_id"           gorm:"type:varchar(64);not null;index:idx_user_comments"`
	Text            string    `json:"text"              gorm:"type:text;not null"`
	ParentCommentID *string   `json:"parent_comment_id" gorm:"type:char(36);index:idx_comment_parent"`
	CreatedAt       time.Time `json:"created_at"        gorm:"index:idx_recipe_comments,priority:2"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Recipe is the commented recipe. Comments are cascade-deleted with it.
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// IsTopLevel reports whether the comment has no parent.
func (c *Comment) IsTopLevel() bool { return c.ParentCommentID == nil }

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool { return c.ParentCommentID != nil }

// BelongsToUser reports whether userID authored the comment.
func (c *Comment) BelongsToUser(userID string) bool { return c.UserID == userID }

// UpdateText replaces the text and touches UpdatedAt.
func (c *Comment) UpdateText(text string, now time.Time) {
	c.Text = text
	c.UpdatedAt = now
}

// CommentThread is a comment together with its nested replies. It is a view
// rebuilt per request from the flat comment list; nothing stores it.
type CommentThread struct {
	Comment
	Replies []CommentThread `json:"replies"`
}

// Favorite records that a user saved a recipe. At most one per
// (user_id, recipe_id), enforced by a unique index.
type Favorite struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index;uniqueIndex:ux_favorites_user_recipe"`
	RecipeID  string    `json:"recipe_id"  gorm:"type:char(36);not null;index;uniqueIndex:ux_favorites_user_recipe"`
	CreatedAt time.Time `json:"created_at"`

	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Favorite.
func (Favorite) TableName() string { return "favorites" }

// Rating is a user's 1–5 star rating of a recipe. Exactly one per
// (user_id, recipe_id).
type Rating struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	RecipeID  string    `json:"recipe_id"  gorm:"type:char(36);not null;index;uniqueIndex:ux_ratings_user_recipe"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index;uniqueIndex:ux_ratings_user_recipe"`
	Stars     int       `json:"stars"      gorm:"not null;check:stars BETWEEN 1 AND 5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Rating.
func (Rating) TableName() string { return "ratings" }

// ValidateStars returns ErrStarsOutOfRange unless stars is within [MinStars, MaxStars].
func ValidateStars(stars int) error {
	if stars < MinStars || stars > MaxStars {
		return ErrStarsOutOfRange
	}
	return nil
}

// SetStars revalidates and replaces the stars, touching UpdatedAt.
func (r *Rating) SetStars(stars int, now time.Time) error {
	if err := ValidateStars(stars); err != nil {
		return err
	}
	r.Stars = stars
	r.UpdatedAt = now
	return nil
}

// BelongsToUser reports whether userID left the rating.
func (r *Rating) BelongsToUser(userID string) bool { return r.UserID == userID }
