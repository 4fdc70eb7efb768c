package service

import (
	"context"

	"bookreview-backend/internal/domains/user/model"
)

// Service - account sign-up and login
type Service interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateAccessToken(userID, name string) (string, error)
}
