package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
)

// BookRepository - data access for the catalog. All listings are ordered
// newest first, ties broken by id descending.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// List returns one page of books matching filter and the total match count.
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)

	// Search matches title or author; an empty query matches every book.
	Search(ctx context.Context, query string, limit int) ([]model.Book, error)
}
