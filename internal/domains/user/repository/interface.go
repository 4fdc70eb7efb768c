package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/user/model"
)

type UserRepository interface {
	// Create fails with model.ErrEmailAlreadyExists when the email is taken.
	Create(ctx context.Context, user *model.User) error

	// FindByEmail expects an already normalized email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
