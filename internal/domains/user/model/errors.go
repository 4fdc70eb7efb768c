package model

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

const (
	MsgEmailTaken         = "Email is already registered"
	MsgInvalidCredentials = "Invalid email or password"
)
