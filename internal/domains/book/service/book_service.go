package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/repository"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/apperror"
)

// BookService - Implements ServiceInterface
type BookService struct {
	repo    repository.BookRepository
	timeout time.Duration
	now     func() time.Time
}

// NewService - Constructor with DI
func NewService(repo repository.BookRepository, timeout time.Duration) ServiceInterface {
	return &BookService{
		repo:    repo,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func storeCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// AddBook - creates a catalog entry owned by the caller
func (s *BookService) AddBook(ctx context.Context, principal *shared.Principal, req model.CreateBookRequest) (*model.Book, error) {
	if principal == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}

	now := s.now()
	book := &model.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
		CreatedBy:   principal.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Create(ctx, book); err != nil {
		if errors.Is(err, model.ErrCreatorNotFound) {
			return nil, apperror.Unauthorized("Unknown user")
		}
		return nil, apperror.StoreUnavailable("create book", err)
	}

	log.Info().
		Str("book_id", book.ID.String()).
		Str("created_by", principal.UserID.String()).
		Msg("Book created")

	return book, nil
}

// ListBooks - one page of books, newest first, optionally filtered by author and genre
func (s *BookService) ListBooks(ctx context.Context, req model.ListBooksRequest) (*model.ListBooksResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}

	ctx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	books, total, err := s.repo.List(ctx, req.Filter())
	if err != nil {
		return nil, apperror.StoreUnavailable("list books", err)
	}
	if books == nil {
		books = []model.Book{}
	}

	return &model.ListBooksResponse{
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
		Books: books,
	}, nil
}

// SearchBooks - title or author contains query, capped at SearchResultLimit
func (s *BookService) SearchBooks(ctx context.Context, query string) (*model.SearchBooksResponse, error) {
	ctx, cancel := storeCtx(ctx, s.timeout)
	defer cancel()

	books, err := s.repo.Search(ctx, strings.TrimSpace(query), model.SearchResultLimit)
	if err != nil {
		return nil, apperror.StoreUnavailable("search books", err)
	}
	if books == nil {
		books = []model.Book{}
	}

	return &model.SearchBooksResponse{
		Count:   len(books),
		Results: books,
	}, nil
}
