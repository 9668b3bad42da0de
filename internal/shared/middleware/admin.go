package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"happy-thoughts/internal/shared/response"
)

const RoleAdmin = "admin"

// AdminMiddleware checks if user has admin role. Runs after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextKeyRole) != RoleAdmin {
			response.Fail(c, http.StatusForbidden, "AUTH_003", "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
