package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	pkgdb "bookreview-backend/pkg/database"
)

// Constraint names the repositories match on to classify write failures.
const (
	ConstraintUsersEmail      = "users_email_key"
	ConstraintReviewsBookUser = "reviews_book_user_key"
	ConstraintReviewsBookFK   = "reviews_book_id_fkey"
	ConstraintReviewsUserFK   = "reviews_user_id_fkey"
	ConstraintBooksCreatorFK  = "books_created_by_fkey"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		author      TEXT NOT NULL,
		genre       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by  UUID NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT books_created_by_fkey FOREIGN KEY (created_by) REFERENCES users (id)
	)`,
	`CREATE INDEX IF NOT EXISTS books_created_at_idx ON books (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id         UUID PRIMARY KEY,
		book_id    UUID NOT NULL,
		user_id    UUID NOT NULL,
		rating     SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT reviews_book_id_fkey FOREIGN KEY (book_id) REFERENCES books (id) ON DELETE CASCADE,
		CONSTRAINT reviews_user_id_fkey FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT reviews_book_user_key UNIQUE (book_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_book_created_at_idx ON reviews (book_id, created_at DESC, id DESC)`,
}

// EnsureSchema creates the tables and indexes if they are missing. It is
// idempotent and runs in one transaction, so a failure leaves nothing behind.
func EnsureSchema(ctx context.Context, db pkgdb.TxBeginner) error {
	return pkgdb.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}
