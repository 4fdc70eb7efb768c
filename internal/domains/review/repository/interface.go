package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// Create inserts review in one atomic step. A second review for the same
	// (book, user) fails with model.ErrAlreadyReviewed; an unknown book with
	// model.ErrBookNotFound.
	Create(ctx context.Context, review *model.Review) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// Update persists rating, comment and updatedAt.
	Update(ctx context.Context, review *model.Review) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListByBook returns one page of a book's reviews, newest first, with
	// authors resolved, plus the book's total review count.
	ListByBook(ctx context.Context, bookID uuid.UUID, offset, limit int) ([]model.ReviewWithUser, int, error)

	// GetBookStatistics aggregates count and rating sum over every review of a book.
	GetBookStatistics(ctx context.Context, bookID uuid.UUID) (model.RatingStatistics, error)
}
