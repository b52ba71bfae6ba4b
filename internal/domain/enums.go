package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category classifies a recipe.
type Category string

const (
	CategoryMainCourse Category = "main-course"
	CategoryDessert    Category = "dessert"
	CategoryAppetizer  Category = "appetizer"
	CategorySoup       Category = "soup"
	CategorySalad      Category = "salad"
)

// Categories lists every accepted Category.
var Categories = []Category{CategoryMainCourse, CategoryDessert, CategoryAppetizer, CategorySoup, CategorySalad}

// Difficulty grades how hard a recipe is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every accepted Difficulty.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Status is the moderation state of a recipe.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists every accepted Status.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ParseCategory case-folds s and matches it against Categories.
func ParseCategory(s string) (Category, bool) { return parseEnum(s, Categories) }

// ParseDifficulty case-folds s and matches it against Difficulties.
func ParseDifficulty(s string) (Difficulty, bool) { return parseEnum(s, Difficulties) }

// ParseStatus case-folds s and matches it against Statuses.
func ParseStatus(s string) (Status, bool) { return parseEnum(s, Statuses) }

// parseEnum folds with a fresh Caser per call; Casers are stateful and not
// safe for concurrent use.
func parseEnum[T ~string](s string, allowed []T) (T, bool) {
	folded := cases.Fold().String(strings.TrimSpace(s))
	for _, v := range allowed {
		if string(v) == folded {
			return v, true
		}
	}
	var zero T
	return zero, false
}
