package repository

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/infrastructure/memstore"
	"bookreview-backend/internal/shared/utils"
)

type memoryRepository struct {
	db *memstore.DB
}

func NewMemoryRepository(db *memstore.DB) BookRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.Write(ctx, func(tx *memstore.Tx) error {
		if !tx.Exists(memstore.TableUsers, book.CreatedBy) {
			return model.ErrCreatorNotFound
		}
		tx.Put(memstore.TableBooks, book.ID, *book)
		return nil
	})
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var found *model.Book
	err := r.db.Read(ctx, func(tx *memstore.Tx) error {
		b, ok := memstore.Get[model.Book](tx, memstore.TableBooks, id)
		if !ok {
			return model.ErrBookNotFound
		}
		found = &b
		return nil
	})
	return found, err
}

func (r *memoryRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	var matched []model.Book
	err := r.db.Read(ctx, func(tx *memstore.Tx) error {
		matched = memstore.Scan(tx, memstore.TableBooks, func(b model.Book) bool {
			return utils.ContainsFold(b.Author, filter.Author) && utils.ContainsFold(b.Genre, filter.Genre)
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sortNewestFirst(matched)
	return page(matched, filter.Offset, filter.Limit), len(matched), nil
}

func (r *memoryRepository) Search(ctx context.Context, query string, limit int) ([]model.Book, error) {
	var matched []model.Book
	err := r.db.Read(ctx, func(tx *memstore.Tx) error {
		matched = memstore.Scan(tx, memstore.TableBooks, func(b model.Book) bool {
			return utils.ContainsFold(b.Title, query) || utils.ContainsFold(b.Author, query)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(matched)
	return page(matched, 0, limit), nil
}

func sortNewestFirst(books []model.Book) {
	slices.SortFunc(books, func(a, b model.Book) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(b.ID[:], a.ID[:])
	})
}

func page(books []model.Book, offset, limit int) []model.Book {
	if offset < 0 || offset >= len(books) {
		return []model.Book{}
	}
	end := min(offset+limit, len(books))
	return books[offset:end]
}
