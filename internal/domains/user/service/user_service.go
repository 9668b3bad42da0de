package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"happy-thoughts/internal/domains/user"
	"happy-thoughts/pkg/jwt"
	"happy-thoughts/pkg/logger"
)

// Options tune the user service
type Options struct {
	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
	// AdminUsernames get the admin role at registration (case-insensitive)
	AdminUsernames []string
}

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	cost       int
	admins     map[string]struct{}
}

// NewUserService creates the service instance
func NewUserService(repo user.Repository, jwtManager *jwt.Manager, opts Options) user.Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	admins := make(map[string]struct{}, len(opts.AdminUsernames))
	for _, name := range opts.AdminUsernames {
		if key := user.UsernameKey(name); key != "" {
			admins[key] = struct{}{}
		}
	}

	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		cost:       opts.BcryptCost,
		admins:     admins,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register creates a new account and signs the caller in
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	key := user.UsernameKey(username)

	// 2. BUSINESS RULE: username must be free
	exists, err := s.repo.ExistsByUsername(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if exists {
		return nil, user.ErrUsernameTaken
	}

	// 3. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. CREATE USER ENTITY
	role := user.RoleUser
	if _, ok := s.admins[key]; ok {
		role = user.RoleAdmin
	}

	now := time.Now().UTC()
	newUser := &user.User{
		ID:           uuid.New().String(),
		Username:     username,
		UsernameKey:  key,
		PasswordHash: string(passwordHash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 5. PERSIST
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": newUser.ID,
		"role":    newUser.Role,
	})

	// 6. ISSUE TOKENS
	return s.issueTokens(newUser)
}

// Login verifies the password and returns JWT tokens
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// same answer as a wrong password
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

// RefreshToken exchanges a refresh token for a new token pair
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*user.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return s.issueTokens(u)
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID string) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// ========================================
// HELPERS
// ========================================

func (s *userService) issueTokens(u *user.User) (*user.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Username, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &user.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(s.jwtManager.AccessTTL()),
		User:         u.ToDTO(),
	}, nil
}
