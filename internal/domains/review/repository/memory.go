package repository

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
	userModel "bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/infrastructure/memstore"
)

const indexReviewsBookUser = "reviews_book_user_key"

func bookUserKey(bookID, userID uuid.UUID) string {
	return bookID.String() + "/" + userID.String()
}

type memoryReviewRepository struct {
	db *memstore.DB
}

func NewMemoryReviewRepository(db *memstore.DB) ReviewRepository {
	return &memoryReviewRepository{db: db}
}

func (r *memoryReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.Write(ctx, func(tx *memstore.Tx) error {
		if !tx.Exists(memstore.TableBooks, review.BookID) {
			return model.ErrBookNotFound
		}
		if !tx.Claim(indexReviewsBookUser, bookUserKey(review.BookID, review.UserID), review.ID) {
			return model.ErrAlreadyReviewed
		}
		tx.Put(memstore.TableReviews, review.ID, *review)
		return nil
	})
}

func (r *memoryReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var found *model.Review
	err := r.db.Read(ctx, func(tx *memstore.Tx) error {
		rv, ok := memstore.Get[model.Review](tx, memstore.TableReviews, id)
		if !ok {
			return model.ErrReviewNotFound
		}
		found = &rv
		return nil
	})
	return found, err
}

func (r *memoryReviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.Write(ctx, func(tx *memstore.Tx) error {
		current, ok := memstore.Get[model.Review](tx, memstore.TableReviews, review.ID)
		if !ok {
			return model.ErrReviewNotFound
		}
		current.Rating = review.Rating
		current.Comment = review.Comment
		current.UpdatedAt = review.UpdatedAt
		tx.Put(memstore.TableReviews, current.ID, current)
		return nil
	})
}

func (r *memoryReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.Write(ctx, func(tx *memstore.Tx) error {
		current, ok := memstore.Get[model.Review](tx, memstore.TableReviews, id)
		if !ok {
			return model.ErrReviewNotFound
		}
		tx.Delete(memstore.TableReviews, id)
		tx.Release(indexReviewsBookUser, bookUserKey(current.BookID, current.UserID))
		return nil
	})
}

func (r *memoryReviewRepository) ListByBook(
	ctx context.Context,
	bookID uuid.UUID,
	offset, limit int,
) ([]model.ReviewWithUser, int, error) {
	var (
		out   []model.ReviewWithUser
		total int
	)
	err := r.db.Read(ctx, func(tx *memstore.Tx) error {
		reviews := memstore.Scan(tx, memstore.TableReviews, func(rv model.Review) bool {
			return rv.BookID == bookID
		})
		total = len(reviews)

		slices.SortFunc(reviews, func(a, b model.Review) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return bytes.Compare(b.ID[:], a.ID[:])
		})

		out = []model.ReviewWithUser{}
		if offset < 0 || offset >= total {
			return nil
		}
		for _, rv := range reviews[offset:min(offset+limit, total)] {
			author := model.UserInfo{ID: rv.UserID}
			if u, ok := memstore.Get[userModel.User](tx, memstore.TableUsers, rv.UserID); ok {
				author.Name = u.Name
			}
			out = append(out, model.ReviewWithUser{
				ID:        rv.ID,
				BookID:    rv.BookID,
				User:      author,
				Rating:    rv.Rating,
				Comment:   rv.Comment,
				CreatedAt: rv.CreatedAt,
				UpdatedAt: rv.UpdatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *memoryReviewRepository) GetBookStatistics(ctx context.Context, bookID uuid.UUID) (model.RatingStatistics, error) {
	var stats model.RatingStatistics
	err := r.db.Read(ctx, func(tx *memstore.Tx) error {
		for _, rv := range memstore.Scan(tx, memstore.TableReviews, func(rv model.Review) bool {
			return rv.BookID == bookID
		}) {
			stats.Count++
			stats.Sum += int64(rv.Rating)
		}
		return nil
	})
	return stats, err
}
