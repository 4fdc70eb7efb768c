package model

import (
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	reviewModel "bookreview-backend/internal/domains/review/model"
)

// Pagination and search limits
const (
	DefaultPage        = 1
	DefaultListLimit   = 10
	DefaultReviewLimit = 5
	MaxPageLimit       = 100
	SearchResultLimit  = 20

	// MaxPage keeps (page-1)*limit inside int for any allowed limit.
	MaxPage = math.MaxInt / MaxPageLimit
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateBookRequest is the body of POST /books.
type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Genre = strings.TrimSpace(r.Genre)
	r.Description = strings.TrimSpace(r.Description)
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, 200),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.RuneLength(1, 200),
		),
		validation.Field(&r.Genre,
			validation.Required.Error("genre is required"),
			validation.RuneLength(1, 100),
		),
		validation.Field(&r.Description, validation.RuneLength(0, 5000)),
	)
}

// ListBooksRequest is the query of GET /books.
type ListBooksRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Author string `form:"author"`
	Genre  string `form:"genre"`
}

func (r ListBooksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page,
			validation.Required.Error("page must be at least 1"),
			validation.Min(1).Error("page must be at least 1"),
			validation.Max(MaxPage).Error("page is too large"),
		),
		validation.Field(&r.Limit,
			validation.Required.Error("limit must be at least 1"),
			validation.Min(1).Error("limit must be at least 1"),
			validation.Max(MaxPageLimit).Error("limit must be at most 100"),
		),
	)
}

// Filter converts the request into a repository filter.
func (r ListBooksRequest) Filter() BookFilter {
	return BookFilter{
		Author: strings.TrimSpace(r.Author),
		Genre:  strings.TrimSpace(r.Genre),
		Offset: (r.Page - 1) * r.Limit,
		Limit:  r.Limit,
	}
}

// BookDetailRequest is the query of GET /books/:id.
type BookDetailRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=5"`
}

// Offset is the number of reviews skipped before the requested page.
func (r BookDetailRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

func (r BookDetailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page,
			validation.Required.Error("page must be at least 1"),
			validation.Min(1).Error("page must be at least 1"),
			validation.Max(MaxPage).Error("page is too large"),
		),
		validation.Field(&r.Limit,
			validation.Required.Error("limit must be at least 1"),
			validation.Min(1).Error("limit must be at least 1"),
			validation.Max(MaxPageLimit).Error("limit must be at most 100"),
		),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ListBooksResponse - total counts every book matching the filter, ignoring pagination.
type ListBooksResponse struct {
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Books []Book `json:"books"`
}

type SearchBooksResponse struct {
	Count   int    `json:"count"`
	Results []Book `json:"results"`
}

// ReviewPage is one page of a book's reviews.
type ReviewPage struct {
	Total int                          `json:"total"`
	Page  int                          `json:"page"`
	Limit int                          `json:"limit"`
	Data  []reviewModel.ReviewWithUser `json:"data"`
}

// BookDetailResponse - AverageRating is nil (JSON null) when the book has no reviews.
type BookDetailResponse struct {
	Book          *Book      `json:"book"`
	AverageRating *string    `json:"averageRating"`
	Reviews       ReviewPage `json:"reviews"`
}
