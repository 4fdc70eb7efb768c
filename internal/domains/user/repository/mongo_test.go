package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/infrastructure/mongodb/mongotest"
)

func TestMongoUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoUserRepository(mongotest.NewDatabase(t))

	u := newUser("hedy@example.com")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByEmail(ctx, "hedy@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.Name)

	err = repo.Create(ctx, newUser("hedy@example.com"))
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
