package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/repository"
	reviewModel "bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/shared/apperror"
	"bookreview-backend/internal/shared/utils"
)

// ReviewReader is the part of the review store the detail page reads.
type ReviewReader interface {
	ListByBook(ctx context.Context, bookID uuid.UUID, offset, limit int) ([]reviewModel.ReviewWithUser, int, error)
	GetBookStatistics(ctx context.Context, bookID uuid.UUID) (reviewModel.RatingStatistics, error)
}

type DetailService struct {
	books   repository.BookRepository
	reviews ReviewReader
	timeout time.Duration
}

func NewDetailService(books repository.BookRepository, reviews ReviewReader, timeout time.Duration) DetailServiceInterface {
	return &DetailService{
		books:   books,
		reviews: reviews,
		timeout: timeout,
	}
}

// GetBookDetails reads the book first, then the review page and the rating
// statistics in parallel. The reads are not a snapshot.
func (s *DetailService) GetBookDetails(ctx context.Context, bookID string, req model.BookDetailRequest) (*model.BookDetailResponse, error) {
	id, ok := utils.ParseID(bookID)
	if !ok {
		return nil, apperror.NotFound(model.MsgBookNotFound)
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}

	ctx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, apperror.NotFound(model.MsgBookNotFound)
		}
		return nil, apperror.StoreUnavailable("get book", err)
	}

	var (
		page  []reviewModel.ReviewWithUser
		total int
		stats reviewModel.RatingStatistics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, total, err = s.reviews.ListByBook(gctx, id, req.Offset(), req.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.reviews.GetBookStatistics(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.StoreUnavailable("load reviews", err)
	}
	if page == nil {
		page = []reviewModel.ReviewWithUser{}
	}

	return &model.BookDetailResponse{
		Book:          book,
		AverageRating: AverageRating(stats),
		Reviews: model.ReviewPage{
			Total: total,
			Page:  req.Page,
			Limit: req.Limit,
			Data:  page,
		},
	}, nil
}

// AverageRating is sum/count rounded half up to two decimals, or nil when
// there are no reviews.
func AverageRating(stats reviewModel.RatingStatistics) *string {
	if stats.Count == 0 {
		return nil
	}
	avg := decimal.NewFromInt(stats.Sum).
		Div(decimal.NewFromInt(stats.Count)).
		StringFixed(2)
	return &avg
}
