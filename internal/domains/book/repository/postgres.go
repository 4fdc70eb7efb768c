package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/infrastructure/database"
	"bookreview-backend/internal/shared/utils"
)

const bookColumns = `id, title, author, genre, description, created_by, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) BookRepository {
	return &postgresRepository{pool: pool}
}

// ============================================
// CREATE
// ============================================

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.CreatedBy,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err, database.ConstraintBooksCreatorFK) {
			return model.ErrCreatorNotFound
		}
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// ============================================
// GET BY ID
// ============================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	book, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

// ============================================
// LIST
// ============================================

func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	whereClause, args := r.buildWhereClause(filter)

	total, err := r.getBookCount(ctx, whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 || filter.Offset >= total {
		return []model.Book{}, total, nil
	}

	query := r.buildListBooksQuery(whereClause, len(args)+1)
	args = append(args, filter.Limit, filter.Offset)

	books, err := r.executeListQuery(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// buildWhereClause - case-insensitive substring filters, matched literally
func (r *postgresRepository) buildWhereClause(filter model.BookFilter) (string, []any) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIndex := 1

	if filter.Author != "" {
		conditions = append(conditions, fmt.Sprintf(`author ILIKE $%d ESCAPE '\'`, argIndex))
		args = append(args, utils.ContainsPattern(filter.Author))
		argIndex++
	}

	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf(`genre ILIKE $%d ESCAPE '\'`, argIndex))
		args = append(args, utils.ContainsPattern(filter.Genre))
	}

	return utils.JoinWithAnd(conditions), args
}

func (r *postgresRepository) buildListBooksQuery(whereClause string, paramCount int) string {
	return fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, bookColumns, whereClause, paramCount, paramCount+1)
}

func (r *postgresRepository) getBookCount(ctx context.Context, whereClause string, args []any) (int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM books WHERE %s`, whereClause)

	var totalCount int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		log.Debug().Err(err).Msg("[BookRepo] Count query error")
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return totalCount, nil
}

func (r *postgresRepository) executeListQuery(ctx context.Context, query string, args []any) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Debug().Err(err).Msg("[BookRepo] Query error")
		return nil, fmt.Errorf("list books query failed: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("collect rows failed: %w", err)
	}
	return books, nil
}

// ============================================
// SEARCH
// ============================================

func (r *postgresRepository) Search(ctx context.Context, query string, limit int) ([]model.Book, error) {
	match := utils.JoinWithOr([]string{
		`title ILIKE $1 ESCAPE '\'`,
		`author ILIKE $1 ESCAPE '\'`,
	})
	sql := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, bookColumns, match)

	return r.executeListQuery(ctx, sql, []any{utils.ContainsPattern(query), limit})
}
