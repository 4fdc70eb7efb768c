package service

import (
	"context"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/shared"
)

// ServiceInterface - catalog operations
type ServiceInterface interface {
	AddBook(ctx context.Context, principal *shared.Principal, req model.CreateBookRequest) (*model.Book, error)
	ListBooks(ctx context.Context, req model.ListBooksRequest) (*model.ListBooksResponse, error)
	SearchBooks(ctx context.Context, query string) (*model.SearchBooksResponse, error)
}

// DetailServiceInterface - the book detail page: book, average rating and one page of reviews
type DetailServiceInterface interface {
	GetBookDetails(ctx context.Context, bookID string, req model.BookDetailRequest) (*model.BookDetailResponse, error)
}
