package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happy-thoughts/pkg/jwt"
)

type identity struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
}

func newIdentityRouter(manager *jwt.Manager, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, identity{Authenticated: ok, UserID: userID, Role: c.GetString(ContextKeyRole)})
	})
	router.GET("/whoami", handlers...)
	return router
}

func whoami(t *testing.T, router *gin.Engine, authHeader string) (int, identity) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var id identity
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &id))
	}
	return w.Code, id
}

func TestOptionalAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", "happy-thoughts", time.Hour, time.Hour)
	other := jwt.NewManager("other-secret", "happy-thoughts", time.Hour, time.Hour)
	router := newIdentityRouter(manager, OptionalAuthMiddleware(manager))

	valid, err := manager.GenerateAccessToken("user-1", "alice", "user")
	require.NoError(t, err)
	refresh, err := manager.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	forged, err := other.GenerateAccessToken("user-1", "alice", "admin")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantAuth bool
	}{
		{"no header", "", false},
		{"malformed header", "Token " + valid, false},
		{"empty bearer", "Bearer   ", false},
		{"garbage token", "Bearer not-a-jwt", false},
		{"wrong signature", "Bearer " + forged, false},
		{"refresh token", "Bearer " + refresh, false},
		{"valid token", "Bearer " + valid, true},
		{"lowercase scheme", "bearer " + valid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, id := whoami(t, router, tt.header)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.wantAuth, id.Authenticated)
			if tt.wantAuth {
				assert.Equal(t, "user-1", id.UserID)
			} else {
				assert.Empty(t, id.UserID)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", "happy-thoughts", time.Hour, time.Hour)
	router := newIdentityRouter(manager, AuthMiddleware(manager))

	code, _ := whoami(t, router, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = whoami(t, router, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)

	token, err := manager.GenerateAccessToken("user-1", "alice", "user")
	require.NoError(t, err)
	code, id := whoami(t, router, "Bearer "+token)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, id.Authenticated)
	assert.Equal(t, "user", id.Role)
}

func TestAdminMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", "happy-thoughts", time.Hour, time.Hour)
	router := newIdentityRouter(manager, AuthMiddleware(manager), AdminMiddleware())

	userToken, err := manager.GenerateAccessToken("user-1", "alice", "user")
	require.NoError(t, err)
	code, _ := whoami(t, router, "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, code)

	adminToken, err := manager.GenerateAccessToken("user-2", "root", RoleAdmin)
	require.NoError(t, err)
	code, id := whoami(t, router, "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, RoleAdmin, id.Role)
}
