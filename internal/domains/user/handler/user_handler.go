package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"happy-thoughts/internal/domains/user"
	"happy-thoughts/internal/shared/middleware"
	"happy-thoughts/internal/shared/response"
	"happy-thoughts/pkg/logger"
)

const refreshCookieName = "refresh_token"

// UserHandler handles HTTP requests for the user domain
type UserHandler struct {
	service    user.Service
	refreshTTL time.Duration
	secure     bool
}

// NewUserHandler creates the handler. refreshTTL is the lifetime of the
// refresh cookie; secure marks it HTTPS-only.
func NewUserHandler(service user.Service, refreshTTL time.Duration, secure bool) *UserHandler {
	return &UserHandler{
		service:    service,
		refreshTTL: refreshTTL,
		secure:     secure,
	}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "USER_001", "username and password are required")
		return
	}

	// STEP 2: CALL SERVICE LAYER
	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// STEP 3: SUCCESS RESPONSE
	h.setRefreshCookie(c, res.RefreshToken)
	c.Header("Location", "/api/v1/users/me")
	response.OK(c, http.StatusCreated, res)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "USER_001", "username and password are required")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setRefreshCookie(c, res.RefreshToken)
	response.OK(c, http.StatusOK, res)
}

// RefreshToken handles POST /auth/refresh. The token is read from the JSON
// body, falling back to the refresh cookie.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshTokenRequest
	token := ""
	if err := c.ShouldBindJSON(&req); err == nil {
		token = req.RefreshToken
	}
	if token == "" {
		cookie, err := c.Cookie(refreshCookieName)
		if err != nil || cookie == "" {
			response.Fail(c, http.StatusUnauthorized, "AUTH_001", "Missing refresh token")
			return
		}
		token = cookie
	}

	res, err := h.service.RefreshToken(c.Request.Context(), token)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setRefreshCookie(c, res.RefreshToken)
	response.OK(c, http.StatusOK, res)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "AUTH_001", "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, http.StatusOK, profile)
}

// ========================================
// HELPERS
// ========================================

func (h *UserHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		refreshCookieName,
		token,
		int(h.refreshTTL.Seconds()),
		"/api/v1/auth",
		"",
		h.secure,
		true,
	)
}

// handleError maps domain errors to HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var fields validation.Errors

	switch {
	case errors.As(err, &fields):
		response.FailWithDetails(c, http.StatusBadRequest, "USER_001", "Invalid input", fields)
	case errors.Is(err, user.ErrUsernameTaken):
		response.Fail(c, http.StatusConflict, "USER_002", err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "USER_003", err.Error())
	case errors.Is(err, user.ErrInvalidToken):
		response.Fail(c, http.StatusUnauthorized, "AUTH_002", err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "USER_004", err.Error())
	default:
		logger.Error("User request failed", err)
		response.Internal(c)
	}
}
