package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"happy-thoughts/internal/domains/thought/model"
	"happy-thoughts/internal/domains/thought/service"
	"happy-thoughts/internal/shared/middleware"
	"happy-thoughts/internal/shared/response"
)

// BackfillEnqueuer schedules an asynchronous tag backfill.
type BackfillEnqueuer interface {
	EnqueueBackfill(ctx context.Context) (string, error)
}

// =====================================================
// THOUGHT HANDLER
// =====================================================

type ThoughtHandler struct {
	thoughtService service.ServiceInterface
	enqueuer       BackfillEnqueuer
}

// NewThoughtHandler creates the handler. enqueuer may be nil, in which case
// async backfill requests are refused.
func NewThoughtHandler(thoughtService service.ServiceInterface, enqueuer BackfillEnqueuer) *ThoughtHandler {
	return &ThoughtHandler{
		thoughtService: thoughtService,
		enqueuer:       enqueuer,
	}
}

// =====================================================
// PUBLIC READ ENDPOINTS
// =====================================================

// ListThoughts lists thoughts newest first
// GET /api/v1/thoughts?page=1&limit=20
func (h *ThoughtHandler) ListThoughts(c *gin.Context) {
	var req model.ListThoughtsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.ErrCodeValidation, "page and limit must be integers")
		return
	}

	page, limit := req.Resolve()
	result, err := h.thoughtService.ListThoughts(c.Request.Context(), page, limit)
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	viewerID, _ := middleware.GetUserID(c)
	respondSuccess(c, http.StatusOK, model.ListThoughtsResponse{
		Thoughts:   model.ToResponses(result.Items, viewerID),
		Pagination: result.Pagination,
	})
}

// GetTrending lists thoughts by hearts
// GET /api/v1/thoughts/trending?limit=20
func (h *ThoughtHandler) GetTrending(c *gin.Context) {
	var req model.TrendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.ErrCodeValidation, "limit must be an integer")
		return
	}

	thoughts, err := h.thoughtService.TrendingThoughts(c.Request.Context(), req.Resolve())
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	respondList(c, thoughts)
}

// GetByTag lists thoughts carrying a tag
// GET /api/v1/thoughts/tags/:tag
func (h *ThoughtHandler) GetByTag(c *gin.Context) {
	thoughts, err := h.thoughtService.ThoughtsByTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	respondList(c, thoughts)
}

// GetThought gets thought by ID
// GET /api/v1/thoughts/:id
func (h *ThoughtHandler) GetThought(c *gin.Context) {
	thought, err := h.thoughtService.GetThought(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	viewerID, _ := middleware.GetUserID(c)
	respondSuccess(c, http.StatusOK, thought.ToResponse(viewerID))
}

// ListTags lists every tag in use
// GET /api/v1/tags
func (h *ThoughtHandler) ListTags(c *gin.Context) {
	tags, err := h.thoughtService.AllTags(c.Request.Context())
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"tags": tags})
}

// ListCategories lists the classifier categories
// GET /api/v1/tags/categories
func (h *ThoughtHandler) ListCategories(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"categories": h.thoughtService.Categories()})
}

// =====================================================
// WRITE ENDPOINTS
// =====================================================

// CreateThought posts a thought, owned by the caller when authenticated
// POST /api/v1/thoughts
func (h *ThoughtHandler) CreateThought(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreateThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.ErrCodeValidation, "message must be a string")
		return
	}

	// Step 2: Call service
	userID, _ := middleware.GetUserID(c)
	thought, err := h.thoughtService.CreateThought(c.Request.Context(), userID, req)
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	// Step 3: Return success
	respondSuccess(c, http.StatusCreated, thought.ToResponse(userID))
}

// LikeThought likes a thought; authenticated callers toggle their like
// POST /api/v1/thoughts/:id/like
func (h *ThoughtHandler) LikeThought(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	thought, err := h.thoughtService.LikeThought(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, thought.ToResponse(userID))
}

// UpdateThought edits the caller's thought
// PATCH /api/v1/thoughts/:id
func (h *ThoughtHandler) UpdateThought(c *gin.Context) {
	// Step 1: Get user ID
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "AUTH_001", "Unauthorized")
		return
	}

	// Step 2: Bind request body
	var req model.UpdateThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.ErrCodeValidation, "invalid request body")
		return
	}

	// Step 3: Call service
	thought, err := h.thoughtService.UpdateThought(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, thought.ToResponse(userID))
}

// DeleteThought deletes the caller's thought
// DELETE /api/v1/thoughts/:id
func (h *ThoughtHandler) DeleteThought(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "AUTH_001", "Unauthorized")
		return
	}

	id := c.Param("id")
	if err := h.thoughtService.DeleteThought(c.Request.Context(), id, userID); err != nil {
		handleThoughtError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// =====================================================
// USER ENDPOINTS
// =====================================================

// ListMyThoughts lists the caller's thoughts newest first
// GET /api/v1/users/me/thoughts
func (h *ThoughtHandler) ListMyThoughts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "AUTH_001", "Unauthorized")
		return
	}

	var req model.ListThoughtsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.ErrCodeValidation, "page and limit must be integers")
		return
	}

	page, limit := req.Resolve()
	result, err := h.thoughtService.ListUserThoughts(c.Request.Context(), userID, page, limit)
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, model.ListThoughtsResponse{
		Thoughts:   model.ToResponses(result.Items, userID),
		Pagination: result.Pagination,
	})
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// BackfillTags tags every untagged thought, inline or as a queued task
// POST /api/v1/admin/thoughts/backfill-tags?async=true
func (h *ThoughtHandler) BackfillTags(c *gin.Context) {
	async, _ := strconv.ParseBool(c.DefaultQuery("async", "false"))

	if async {
		if h.enqueuer == nil {
			respondError(c, http.StatusServiceUnavailable, "JOB_001", "Background jobs are not configured")
			return
		}
		taskID, err := h.enqueuer.EnqueueBackfill(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, model.ErrCodeInternal, "Failed to enqueue backfill")
			return
		}
		respondSuccess(c, http.StatusAccepted, model.BackfillResponse{TaskID: taskID, Queued: true})
		return
	}

	updated, err := h.thoughtService.BackfillTags(c.Request.Context())
	if err != nil {
		handleThoughtError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, model.BackfillResponse{Updated: updated})
}

// =====================================================
// RESPONSE HELPERS
// =====================================================

func respondSuccess(c *gin.Context, statusCode int, data interface{}) {
	response.OK(c, statusCode, data)
}

func respondList(c *gin.Context, thoughts []*model.Thought) {
	viewerID, _ := middleware.GetUserID(c)
	response.List(c, model.ToResponses(thoughts, viewerID), len(thoughts))
}

func respondError(c *gin.Context, statusCode int, code, message string) {
	response.Fail(c, statusCode, code, message)
}

// handleThoughtError writes the user-facing part of err. Internal causes are
// logged by the service and never sent.
func handleThoughtError(c *gin.Context, err error) {
	statusCode, code := mapThoughtError(err)

	var te *model.ThoughtError
	if !errors.As(err, &te) {
		respondError(c, statusCode, code, "Something went wrong, please try again later")
		return
	}

	var fields validation.Errors
	if te.Kind == model.KindValidation && errors.As(te.Err, &fields) {
		response.FailWithDetails(c, statusCode, code, te.Message, fields)
		return
	}
	respondError(c, statusCode, code, te.Message)
}

// mapThoughtError maps thought error to HTTP status code
func mapThoughtError(err error) (int, string) {
	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusBadRequest, model.ErrCodeValidation
	case model.KindNotFound:
		return http.StatusNotFound, model.ErrCodeNotFound
	case model.KindForbidden:
		return http.StatusForbidden, model.ErrCodeForbidden
	default:
		return http.StatusInternalServerError, model.ErrCodeInternal
	}
}
