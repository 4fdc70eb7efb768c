package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/infrastructure/memstore"
)

const indexUsersEmail = "users_email_key"

type memoryUserRepository struct {
	db *memstore.DB
}

func NewMemoryUserRepository(db *memstore.DB) UserRepository {
	return &memoryUserRepository{db: db}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.Write(ctx, func(tx *memstore.Tx) error {
		if !tx.Claim(indexUsersEmail, user.Email, user.ID) {
			return model.ErrEmailAlreadyExists
		}
		tx.Put(memstore.TableUsers, user.ID, *user)
		return nil
	})
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var found *model.User
	err := r.db.Read(ctx, func(tx *memstore.Tx) error {
		id, ok := tx.Lookup(indexUsersEmail, email)
		if !ok {
			return model.ErrUserNotFound
		}
		u, ok := memstore.Get[model.User](tx, memstore.TableUsers, id)
		if !ok {
			return model.ErrUserNotFound
		}
		found = &u
		return nil
	})
	return found, err
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var found *model.User
	err := r.db.Read(ctx, func(tx *memstore.Tx) error {
		u, ok := memstore.Get[model.User](tx, memstore.TableUsers, id)
		if !ok {
			return model.ErrUserNotFound
		}
		found = &u
		return nil
	})
	return found, err
}
