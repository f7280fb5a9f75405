package domain

import (
	"context"
	"errors"
)

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

type Service interface {
	Login(context.Context, LoginRequest) (LoginResponse, error)
	Register(context.Context, RegisterUserRequest) (User, error)
	Authenticate(ctx context.Context, token string) (Actor, error)
	GetByID(ctx context.Context, id string) (User, error)
	ListAgents(ctx context.Context) ([]User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrUserExists         = errors.New("user_exists")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
)
