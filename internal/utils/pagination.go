// Package utils holds the paging arithmetic shared by the recipe list
// handler and RecipeService.
package utils

import "strconv"

// Paging bounds for list endpoints.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault parses s as an int, returning def when s is empty or not a
// number. Surrounding spaces are not trimmed.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPage bounds page to >= 1 and size to [1, MaxPageSize]. A zero or
// negative size falls back to DefaultPageSize.
func ClampPage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// ParsePage reads raw page and page_size query values and clamps them.
func ParsePage(rawPage, rawSize string) (page, size int) {
	return ClampPage(AtoiDefault(rawPage, DefaultPage), AtoiDefault(rawSize, DefaultPageSize))
}

// Offset is the number of rows skipped before page.
func Offset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	return (page - 1) * size
}

// TotalPages is ceil(total/size); zero rows give zero pages.
func TotalPages(total int64, size int) int {
	if total <= 0 || size < 1 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
