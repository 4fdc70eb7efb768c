package service

import (
	"context"

	"github.com/google/uuid"

	bookModel "bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/shared"
)

// =====================================================
// REVIEW SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// AddReview records the caller's single review of a book.
	AddReview(ctx context.Context, principal *shared.Principal, bookID string, req model.CreateReviewRequest) (*model.Review, error)

	// UpdateReview changes the provided fields of the caller's own review.
	UpdateReview(ctx context.Context, principal *shared.Principal, reviewID string, req model.UpdateReviewRequest) (*model.Review, error)

	// DeleteReview removes the caller's own review.
	DeleteReview(ctx context.Context, principal *shared.Principal, reviewID string) (*model.DeleteReviewResponse, error)
}

// BookReader is the part of the catalog the review service needs.
type BookReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*bookModel.Book, error)
}
