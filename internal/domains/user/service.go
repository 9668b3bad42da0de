package user

import (
	"context"
)

// Service is the business logic contract for accounts
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// User Profile
	GetProfile(ctx context.Context, userID string) (*UserDTO, error)
}
