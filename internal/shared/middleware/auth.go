package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"happy-thoughts/internal/shared/response"
	"happy-thoughts/pkg/jwt"
)

// Context keys
const (
	ContextKeyUserID          = "user_id"
	ContextKeyUsername        = "username"
	ContextKeyRole            = "role"
	ContextKeyIsAuthenticated = "is_authenticated"
)

// AuthMiddleware requires a valid access token and sets user_id, username and
// role in the context.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract token from "Bearer <token>"
		token, ok := bearerToken(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "AUTH_001", "Missing or malformed authorization header")
			c.Abort()
			return
		}

		// 2. Verify and parse
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "AUTH_002", "Invalid or expired token")
			c.Abort()
			return
		}

		// 3. Set identity
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware allows both authenticated and anonymous users
// - If token exists & valid → set user_id in context
// - If no token or invalid → continue as anonymous (no error)
// - Always sets is_authenticated
func OptionalAuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyIsAuthenticated, false)

		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			c.Next()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// ===================================
// CONTEXT HELPERS FOR HANDLERS
// ===================================

// GetUserID returns the authenticated user ID, or "" and false for anonymous
// requests.
func GetUserID(c *gin.Context) (string, bool) {
	if !IsAuthenticated(c) {
		return "", false
	}
	userID := c.GetString(ContextKeyUserID)
	return userID, userID != ""
}

// IsAuthenticated checks if user is authenticated
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(ContextKeyIsAuthenticated)
}

func setIdentity(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextKeyIsAuthenticated, true)
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyUsername, claims.Username)
	c.Set(ContextKeyRole, claims.Role)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
