package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookModel "bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/review/model"
	userModel "bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/infrastructure/database/dbtest"
	"bookreview-backend/internal/infrastructure/memstore"
	"bookreview-backend/internal/infrastructure/mongodb"
	"bookreview-backend/internal/infrastructure/mongodb/mongotest"
)

type fixture struct {
	alice, bob  userModel.User
	book, other bookModel.Book
}

func newFixture() fixture {
	now := time.Now().UTC()
	alice := userModel.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", PasswordHash: "x", CreatedAt: now}
	bob := userModel.User{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", PasswordHash: "x", CreatedAt: now}
	book := bookModel.Book{ID: uuid.New(), Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", CreatedBy: alice.ID, CreatedAt: now, UpdatedAt: now}
	other := bookModel.Book{ID: uuid.New(), Title: "Emma", Author: "Jane Austen", Genre: "Classic", CreatedBy: alice.ID, CreatedAt: now, UpdatedAt: now}
	return fixture{alice: alice, bob: bob, book: book, other: other}
}

func newReview(bookID, userID uuid.UUID, rating int, at time.Time) *model.Review {
	return &model.Review{
		ID:        uuid.New(),
		BookID:    bookID,
		UserID:    userID,
		Rating:    rating,
		Comment:   "comment",
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func testReviewRepository(t *testing.T, repo ReviewRepository, fx fixture) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newReview(fx.book.ID, fx.alice.ID, 5, base)
	second := newReview(fx.book.ID, fx.bob.ID, 2, base.Add(time.Minute))
	elsewhere := newReview(fx.other.ID, fx.alice.ID, 1, base)

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, elsewhere))

	t.Run("duplicate review is rejected", func(t *testing.T) {
		err := repo.Create(ctx, newReview(fx.book.ID, fx.alice.ID, 3, base.Add(time.Hour)))
		assert.ErrorIs(t, err, model.ErrAlreadyReviewed)
	})

	t.Run("unknown book is rejected", func(t *testing.T) {
		err := repo.Create(ctx, newReview(uuid.New(), fx.alice.ID, 3, base))
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})

	t.Run("list resolves authors newest first", func(t *testing.T) {
		page, total, err := repo.ListByBook(ctx, fx.book.ID, 0, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, page, 2)
		assert.Equal(t, second.ID, page[0].ID)
		assert.Equal(t, model.UserInfo{ID: fx.bob.ID, Name: "Bob"}, page[0].User)
		assert.Equal(t, "Alice", page[1].User.Name)

		page, total, err = repo.ListByBook(ctx, fx.book.ID, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, page, 1)
		assert.Equal(t, first.ID, page[0].ID)

		page, total, err = repo.ListByBook(ctx, fx.book.ID, 10, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Empty(t, page)
	})

	t.Run("statistics", func(t *testing.T) {
		stats, err := repo.GetBookStatistics(ctx, fx.book.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RatingStatistics{Count: 2, Sum: 7}, stats)

		stats, err = repo.GetBookStatistics(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, model.RatingStatistics{}, stats)
	})

	t.Run("update", func(t *testing.T) {
		edited := *second
		edited.Rating = 4
		edited.Comment = "changed my mind"
		edited.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, repo.Update(ctx, &edited))

		got, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Rating)
		assert.Equal(t, "changed my mind", got.Comment)
		assert.True(t, got.UpdatedAt.Equal(base.Add(time.Hour)))
		assert.True(t, got.CreatedAt.Equal(second.CreatedAt))

		missing := *second
		missing.ID = uuid.New()
		assert.ErrorIs(t, repo.Update(ctx, &missing), model.ErrReviewNotFound)
	})

	t.Run("delete frees the slot", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))
		assert.ErrorIs(t, repo.Delete(ctx, first.ID), model.ErrReviewNotFound)

		_, err := repo.GetByID(ctx, first.ID)
		assert.ErrorIs(t, err, model.ErrReviewNotFound)

		require.NoError(t, repo.Create(ctx, newReview(fx.book.ID, fx.alice.ID, 3, base.Add(2*time.Hour))))
	})
}

// testConcurrentCreate races many inserts for the same (book, user).
func testConcurrentCreate(t *testing.T, repo ReviewRepository, fx fixture) {
	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(context.Background(), newReview(fx.other.ID, fx.bob.ID, 4, time.Now().UTC()))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, model.ErrAlreadyReviewed):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func seedMemory(t *testing.T, db *memstore.DB, fx fixture) {
	require.NoError(t, db.Write(context.Background(), func(tx *memstore.Tx) error {
		tx.Put(memstore.TableUsers, fx.alice.ID, fx.alice)
		tx.Put(memstore.TableUsers, fx.bob.ID, fx.bob)
		tx.Put(memstore.TableBooks, fx.book.ID, fx.book)
		tx.Put(memstore.TableBooks, fx.other.ID, fx.other)
		return nil
	}))
}

func seedPostgres(t *testing.T, pool *pgxpool.Pool, fx fixture) {
	ctx := context.Background()
	for _, u := range []userModel.User{fx.alice, fx.bob} {
		_, err := pool.Exec(ctx,
			`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
		require.NoError(t, err)
	}
	for _, b := range []bookModel.Book{fx.book, fx.other} {
		_, err := pool.Exec(ctx,
			`INSERT INTO books (id, title, author, genre, created_by, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			b.ID, b.Title, b.Author, b.Genre, b.CreatedBy, b.CreatedAt, b.UpdatedAt)
		require.NoError(t, err)
	}
}

func TestMemoryReviewRepository(t *testing.T) {
	db := memstore.New()
	fx := newFixture()
	seedMemory(t, db, fx)

	repo := NewMemoryReviewRepository(db)
	testReviewRepository(t, repo, fx)
	testConcurrentCreate(t, repo, fx)

	t.Run("offset below zero is an empty page", func(t *testing.T) {
		reviews, total, err := repo.ListByBook(context.Background(), fx.other.ID, -100, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Empty(t, reviews)
	})
}

func TestPostgresReviewRepository(t *testing.T) {
	pool := dbtest.NewPool(t)
	fx := newFixture()
	seedPostgres(t, pool, fx)

	repo := NewPostgresReviewRepository(pool)
	testReviewRepository(t, repo, fx)
	testConcurrentCreate(t, repo, fx)
}

func seedMongo(t *testing.T, db *mongo.Database, fx fixture) {
	ctx := context.Background()
	for _, u := range []userModel.User{fx.alice, fx.bob} {
		_, err := db.Collection(mongodb.CollectionUsers).InsertOne(ctx, bson.M{
			"_id": u.ID.String(), "name": u.Name, "email": u.Email, "passwordHash": u.PasswordHash, "createdAt": u.CreatedAt,
		})
		require.NoError(t, err)
	}
	for _, b := range []bookModel.Book{fx.book, fx.other} {
		_, err := db.Collection(mongodb.CollectionBooks).InsertOne(ctx, bson.M{
			"_id": b.ID.String(), "title": b.Title, "author": b.Author, "genre": b.Genre,
			"createdBy": b.CreatedBy.String(), "createdAt": b.CreatedAt, "updatedAt": b.UpdatedAt,
		})
		require.NoError(t, err)
	}
}

func TestMongoReviewRepository(t *testing.T) {
	db := mongotest.NewDatabase(t)
	fx := newFixture()
	seedMongo(t, db, fx)

	repo := NewMongoReviewRepository(db)
	testReviewRepository(t, repo, fx)
	testConcurrentCreate(t, repo, fx)
}
