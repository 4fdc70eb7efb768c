package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/internal/shared/apperror"
)

// userService implements Service
type userService struct {
	repo       repository.UserRepository
	tokens     TokenIssuer
	tokenTTL   time.Duration
	bcryptCost int
	timeout    time.Duration
}

// NewUserService wires the repository and token issuer. bcryptCost below
// bcrypt.MinCost falls back to bcrypt.DefaultCost.
func NewUserService(
	repo repository.UserRepository,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	bcryptCost int,
	timeout time.Duration,
) Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		repo:       repo,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		timeout:    timeout,
	}
}

func (s *userService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// ========================================
// AUTHENTICATION
// ========================================

// Signup creates an account. Email is stored lower-cased.
func (s *userService) Signup(ctx context.Context, req model.SignupRequest) (*model.UserDTO, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	// Unique email index decides duplicates.
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			return nil, apperror.Conflict(model.MsgEmailTaken, err)
		}
		return nil, apperror.StoreUnavailable("create user", err)
	}

	log.Info().Str("user_id", newUser.ID.String()).Msg("User signed up")

	dto := newUser.ToDTO()
	return &dto, nil
}

// Login checks credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, apperror.Unauthorized(model.MsgInvalidCredentials)
		}
		return nil, apperror.StoreUnavailable("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		log.Debug().Str("user_id", u.ID.String()).Msg("Login rejected: wrong password")
		return nil, apperror.Unauthorized(model.MsgInvalidCredentials)
	}

	token, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Name)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
		User:      u.ToDTO(),
	}, nil
}
