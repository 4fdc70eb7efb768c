package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/internal/infrastructure/memstore"
	"bookreview-backend/internal/shared/apperror"
	"bookreview-backend/pkg/jwt"
)

func newUserService() (Service, *jwt.Manager) {
	tokens := jwt.NewManager("test-secret", time.Hour)
	repo := repository.NewMemoryUserRepository(memstore.New())
	return NewUserService(repo, tokens, time.Hour, bcrypt.MinCost, time.Second), tokens
}

func TestSignupAndLogin(t *testing.T) {
	svc, tokens := newUserService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, model.SignupRequest{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)

	resp, err := svc.Login(ctx, model.LoginRequest{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := tokens.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, model.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, model.SignupRequest{Name: "Imposter", Email: "ADA@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.Signup(context.Background(), model.SignupRequest{Name: "A", Email: "bad", Password: "1"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, model.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, model.MsgInvalidCredentials, apperror.MessageOf(err))
}
