package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bookModel "bookreview-backend/internal/domains/book/model"
	bookRepository "bookreview-backend/internal/domains/book/repository"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/repository"
	userModel "bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/infrastructure/memstore"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/apperror"
)

type testEnv struct {
	svc   ServiceInterface
	repo  repository.ReviewRepository
	book  *bookModel.Book
	alice *shared.Principal
	bob   *shared.Principal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := memstore.New()
	books := bookRepository.NewMemoryRepository(db)
	reviews := repository.NewMemoryReviewRepository(db)

	alice := &shared.Principal{UserID: uuid.New(), Name: "Alice"}
	require.NoError(t, db.Write(context.Background(), func(tx *memstore.Tx) error {
		tx.Put(memstore.TableUsers, alice.UserID, userModel.User{ID: alice.UserID, Name: alice.Name})
		return nil
	}))

	book := &bookModel.Book{
		ID:        uuid.New(),
		Title:     "Dune",
		Author:    "Frank Herbert",
		Genre:     "Sci-Fi",
		CreatedBy: alice.UserID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, books.Create(context.Background(), book))

	return &testEnv{
		svc:   NewReviewService(reviews, books, time.Second),
		repo:  reviews,
		book:  book,
		alice: alice,
		bob:   &shared.Principal{UserID: uuid.New(), Name: "Bob"},
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestAddReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	review, err := env.svc.AddReview(ctx, env.alice, env.book.ID.String(), model.CreateReviewRequest{Rating: 4, Comment: "Great"})
	require.NoError(t, err)
	assert.Equal(t, env.book.ID, review.BookID)
	assert.Equal(t, env.alice.UserID, review.UserID)
	assert.Equal(t, 4, review.Rating)
	assert.False(t, review.CreatedAt.IsZero())

	t.Run("second review by same user conflicts", func(t *testing.T) {
		_, err := env.svc.AddReview(ctx, env.alice, env.book.ID.String(), model.CreateReviewRequest{Rating: 1})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("another user may review", func(t *testing.T) {
		_, err := env.svc.AddReview(ctx, env.bob, env.book.ID.String(), model.CreateReviewRequest{Rating: 2})
		assert.NoError(t, err)
	})
}

func TestAddReviewErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	valid := model.CreateReviewRequest{Rating: 3}

	tests := []struct {
		name      string
		principal *shared.Principal
		bookID    string
		req       model.CreateReviewRequest
		want      error
	}{
		{"no principal", nil, env.book.ID.String(), valid, apperror.ErrUnauthorized},
		{"malformed book id", env.alice, "not-an-id", valid, apperror.ErrNotFound},
		{"unknown book", env.alice, uuid.NewString(), valid, apperror.ErrNotFound},
		{"rating too low", env.alice, env.book.ID.String(), model.CreateReviewRequest{Rating: 0}, apperror.ErrValidation},
		{"rating too high", env.alice, env.book.ID.String(), model.CreateReviewRequest{Rating: 6}, apperror.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.AddReview(ctx, tt.principal, tt.bookID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAddReviewConcurrentDuplicates(t *testing.T) {
	env := newTestEnv(t)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.AddReview(context.Background(), env.bob, env.book.ID.String(), model.CreateReviewRequest{Rating: 5})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperror.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)

	stats, err := env.repo.GetBookStatistics(context.Background(), env.book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)
}

func TestUpdateReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.AddReview(ctx, env.alice, env.book.ID.String(), model.CreateReviewRequest{Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	updated, err := env.svc.UpdateReview(ctx, env.alice, created.ID.String(), model.UpdateReviewRequest{Rating: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "meh", updated.Comment)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	updated, err = env.svc.UpdateReview(ctx, env.alice, created.ID.String(), model.UpdateReviewRequest{Comment: strPtr("loved it")})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "loved it", updated.Comment)

	t.Run("not owner", func(t *testing.T) {
		_, err := env.svc.UpdateReview(ctx, env.bob, created.ID.String(), model.UpdateReviewRequest{Rating: intPtr(1)})
		assert.ErrorIs(t, err, apperror.ErrForbidden)

		stored, err := env.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, stored.Rating)
	})

	t.Run("invalid rating", func(t *testing.T) {
		_, err := env.svc.UpdateReview(ctx, env.alice, created.ID.String(), model.UpdateReviewRequest{Rating: intPtr(7)})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("missing and malformed", func(t *testing.T) {
		_, err := env.svc.UpdateReview(ctx, env.alice, uuid.NewString(), model.UpdateReviewRequest{})
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		_, err = env.svc.UpdateReview(ctx, env.alice, "xyz", model.UpdateReviewRequest{})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("no principal", func(t *testing.T) {
		_, err := env.svc.UpdateReview(ctx, nil, created.ID.String(), model.UpdateReviewRequest{})
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestDeleteReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.AddReview(ctx, env.alice, env.book.ID.String(), model.CreateReviewRequest{Rating: 3})
	require.NoError(t, err)

	_, err = env.svc.DeleteReview(ctx, env.bob, created.ID.String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resp, err := env.svc.DeleteReview(ctx, env.alice, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Review deleted successfully", resp.Message)

	_, err = env.svc.DeleteReview(ctx, env.alice, created.ID.String())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// The slot is free again once the review is gone.
	_, err = env.svc.AddReview(ctx, env.alice, env.book.ID.String(), model.CreateReviewRequest{Rating: 4})
	assert.NoError(t, err)
}

// =====================================================
// STORE FAILURES
// =====================================================

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *model.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *model.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepo) ListByBook(ctx context.Context, bookID uuid.UUID, offset, limit int) ([]model.ReviewWithUser, int, error) {
	args := m.Called(ctx, bookID, offset, limit)
	return args.Get(0).([]model.ReviewWithUser), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) GetBookStatistics(ctx context.Context, bookID uuid.UUID) (model.RatingStatistics, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(model.RatingStatistics), args.Error(1)
}

type mockBookReader struct {
	mock.Mock
}

func (m *mockBookReader) GetByID(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookModel.Book), args.Error(1)
}

func TestStoreFailuresAreUnavailable(t *testing.T) {
	ctx := context.Background()
	principal := &shared.Principal{UserID: uuid.New()}
	bookID := uuid.New()
	boom := errors.New("connection reset")

	t.Run("book lookup fails", func(t *testing.T) {
		books := new(mockBookReader)
		books.On("GetByID", mock.Anything, bookID).Return(nil, boom)

		svc := NewReviewService(new(mockReviewRepo), books, time.Second)
		_, err := svc.AddReview(ctx, principal, bookID.String(), model.CreateReviewRequest{Rating: 3})

		assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
		assert.ErrorIs(t, err, boom)
		books.AssertExpectations(t)
	})

	t.Run("insert fails", func(t *testing.T) {
		books := new(mockBookReader)
		books.On("GetByID", mock.Anything, bookID).Return(&bookModel.Book{ID: bookID}, nil)
		reviews := new(mockReviewRepo)
		reviews.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(context.DeadlineExceeded)

		svc := NewReviewService(reviews, books, time.Second)
		_, err := svc.AddReview(ctx, principal, bookID.String(), model.CreateReviewRequest{Rating: 3})

		assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
		reviews.AssertExpectations(t)
	})

	t.Run("delete lookup fails", func(t *testing.T) {
		reviewID := uuid.New()
		reviews := new(mockReviewRepo)
		reviews.On("GetByID", mock.Anything, reviewID).Return(nil, boom)

		svc := NewReviewService(reviews, new(mockBookReader), time.Second)
		_, err := svc.DeleteReview(ctx, principal, reviewID.String())

		assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
		reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
