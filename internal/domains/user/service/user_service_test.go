package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"happy-thoughts/internal/domains/user"
	"happy-thoughts/internal/domains/user/repository"
	"happy-thoughts/internal/infrastructure/filestore"
	"happy-thoughts/pkg/jwt"
)

func newTestService(t *testing.T) (user.Service, *jwt.Manager) {
	t.Helper()

	repo, err := repository.NewFileRepository(filepath.Join(t.TempDir(), "users.json"), filestore.Options{})
	require.NoError(t, err)

	manager := jwt.NewManager("test-secret", "happy-thoughts", time.Hour, 0)
	svc := NewUserService(repo, manager, Options{
		BcryptCost:     bcrypt.MinCost,
		AdminUsernames: []string{"Root"},
	})
	return svc, manager
}

func TestRegister(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, user.RegisterRequest{Username: " Alice ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.User.Username)
	assert.Equal(t, user.RoleUser, res.User.Role)
	assert.Equal(t, "Bearer", res.TokenType)

	claims, err := manager.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "Alice", claims.Username)
}

func TestRegister_DuplicateUsernameIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, user.RegisterRequest{Username: "ALICE", Password: "secret123"})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  user.RegisterRequest
	}{
		{"short username", user.RegisterRequest{Username: "ab", Password: "secret123"}},
		{"bad characters", user.RegisterRequest{Username: "al ice!", Password: "secret123"}},
		{"short password", user.RegisterRequest{Username: "alice", Password: "abc1"}},
		{"password without digit", user.RegisterRequest{Username: "alice", Password: "secretsecret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.Error(t, err)
		})
	}
}

func TestRegister_AdminUsername(t *testing.T) {
	svc, manager := newTestService(t)

	res, err := svc.Register(context.Background(), user.RegisterRequest{Username: "root", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, res.User.Role)

	claims, err := manager.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, user.LoginRequest{Username: "Alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, res.User.ID)

	_, err = svc.Login(ctx, user.LoginRequest{Username: "alice", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Login(ctx, user.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	res, err := svc.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.RefreshToken(ctx, registered.AccessToken)
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestGetProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
