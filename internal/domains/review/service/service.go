package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	bookModel "bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/repository"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/apperror"
	"bookreview-backend/internal/shared/utils"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	books      BookReader
	timeout    time.Duration
	now        func() time.Time
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	books BookReader,
	timeout time.Duration,
) ServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		books:      books,
		timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *reviewService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// =====================================================
// ADD REVIEW
// =====================================================

func (s *reviewService) AddReview(
	ctx context.Context,
	principal *shared.Principal,
	bookID string,
	req model.CreateReviewRequest,
) (*model.Review, error) {
	if principal == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	id, ok := utils.ParseID(bookID)
	if !ok {
		return nil, apperror.NotFound(model.MsgBookNotFound)
	}

	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if _, err := s.books.GetByID(ctx, id); err != nil {
		if errors.Is(err, bookModel.ErrBookNotFound) {
			return nil, apperror.NotFound(model.MsgBookNotFound)
		}
		return nil, apperror.StoreUnavailable("get book", err)
	}

	now := s.now()
	review := &model.Review{
		ID:        uuid.New(),
		BookID:    id,
		UserID:    principal.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique (book, user) index decides races; no existence pre-check.
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyReviewed):
			return nil, apperror.Conflict(model.MsgAlreadyReviewed, err)
		case errors.Is(err, model.ErrBookNotFound):
			return nil, apperror.NotFound(model.MsgBookNotFound)
		}
		return nil, apperror.StoreUnavailable("create review", err)
	}

	log.Info().
		Str("review_id", review.ID.String()).
		Str("book_id", review.BookID.String()).
		Str("user_id", review.UserID.String()).
		Msg("Review created")

	return review, nil
}

// =====================================================
// UPDATE REVIEW
// =====================================================

func (s *reviewService) UpdateReview(
	ctx context.Context,
	principal *shared.Principal,
	reviewID string,
	req model.UpdateReviewRequest,
) (*model.Review, error) {
	if principal == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	review, err := s.loadOwned(ctx, principal, reviewID)
	if err != nil {
		return nil, err
	}

	req.Apply(review)
	review.UpdatedAt = s.now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, apperror.NotFound(model.MsgReviewNotFound)
		}
		return nil, apperror.StoreUnavailable("update review", err)
	}

	return review, nil
}

// =====================================================
// DELETE REVIEW
// =====================================================

func (s *reviewService) DeleteReview(
	ctx context.Context,
	principal *shared.Principal,
	reviewID string,
) (*model.DeleteReviewResponse, error) {
	if principal == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	review, err := s.loadOwned(ctx, principal, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, apperror.NotFound(model.MsgReviewNotFound)
		}
		return nil, apperror.StoreUnavailable("delete review", err)
	}

	log.Info().
		Str("review_id", review.ID.String()).
		Str("user_id", principal.UserID.String()).
		Msg("Review deleted")

	return &model.DeleteReviewResponse{Message: model.MsgReviewDeleted}, nil
}

// loadOwned fetches a review and checks the caller may modify it.
func (s *reviewService) loadOwned(ctx context.Context, principal *shared.Principal, reviewID string) (*model.Review, error) {
	id, ok := utils.ParseID(reviewID)
	if !ok {
		return nil, apperror.NotFound(model.MsgReviewNotFound)
	}

	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, apperror.NotFound(model.MsgReviewNotFound)
		}
		return nil, apperror.StoreUnavailable("get review", err)
	}

	if !model.CanModify(principal, review) {
		return nil, apperror.Forbidden(model.MsgNotOwner)
	}
	return review, nil
}
