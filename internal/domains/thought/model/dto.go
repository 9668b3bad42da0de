package model

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateThoughtRequest request to post a thought
type CreateThoughtRequest struct {
	Message string `json:"message"`
}

// UpdateThoughtRequest request to edit a thought.
// Tags is only honoured when PreserveTags is false; a nil Tags re-runs the
// classifier on the new message.
type UpdateThoughtRequest struct {
	Message      string   `json:"message"`
	Tags         []string `json:"tags"`
	PreserveTags bool     `json:"preserve_tags"`
}

// ListThoughtsRequest pagination query. Absent parameters fall back to the
// defaults; present but invalid ones are rejected by the service.
type ListThoughtsRequest struct {
	Page  *int `form:"page"`
	Limit *int `form:"limit"`
}

// Resolve returns page and limit with defaults applied.
func (r ListThoughtsRequest) Resolve() (int, int) {
	page, limit := DefaultPage, DefaultPageLimit
	if r.Page != nil {
		page = *r.Page
	}
	if r.Limit != nil {
		limit = *r.Limit
	}
	return page, limit
}

// TrendingRequest query for the trending view
type TrendingRequest struct {
	Limit *int `form:"limit"`
}

// Resolve returns the requested limit or DefaultTrendingLimit.
func (r TrendingRequest) Resolve() int {
	if r.Limit == nil {
		return DefaultTrendingLimit
	}
	return *r.Limit
}

// =====================================================
// VALIDATION
// =====================================================

// MessageBounds are the inclusive character limits for a message.
type MessageBounds struct {
	Min int
	Max int
}

// DefaultMessageBounds returns the 5-140 character limits.
func DefaultMessageBounds() MessageBounds {
	return MessageBounds{Min: DefaultMinMessageLength, Max: DefaultMaxMessageLength}
}

// Validate trims message and checks its length in characters. It returns the
// trimmed message.
func (b MessageBounds) Validate(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	err := validation.Validate(trimmed,
		validation.Required.Error("message is required"),
		validation.RuneLength(b.Min, b.Max).Error(
			fmt.Sprintf("message must be between %d and %d characters", b.Min, b.Max),
		),
	)
	if err != nil {
		return "", err
	}
	return trimmed, nil
}

// ValidatePage checks page >= 1 and limit in [1, MaxPageLimit].
func ValidatePage(page, limit int) error {
	return validation.Errors{
		"page": validation.Validate(page,
			validation.Required.Error("page must be a positive integer"),
			validation.Min(1).Error("page must be a positive integer"),
		),
		"limit": validation.Validate(limit,
			validation.Required.Error(fmt.Sprintf("limit must be between 1 and %d", MaxPageLimit)),
			validation.Min(1).Error(fmt.Sprintf("limit must be between 1 and %d", MaxPageLimit)),
			validation.Max(MaxPageLimit).Error(fmt.Sprintf("limit must be between 1 and %d", MaxPageLimit)),
		),
	}.Filter()
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ThoughtResponse public view of a thought. The likes set is not exposed;
// LikedByMe tells an authenticated viewer whether they like it.
type ThoughtResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Tags      []string  `json:"tags"`
	Hearts    int       `json:"hearts"`
	OwnerID   *string   `json:"owner_id,omitempty"`
	LikedByMe bool      `json:"liked_by_me"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse builds the public view for viewerID (empty for anonymous
// viewers).
func (t *Thought) ToResponse(viewerID string) ThoughtResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return ThoughtResponse{
		ID:        t.ID,
		Message:   t.Message,
		Tags:      tags,
		Hearts:    t.Hearts,
		OwnerID:   t.OwnerID,
		LikedByMe: viewerID != "" && t.LikedBy(viewerID),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToResponses maps a slice of thoughts for viewerID.
func ToResponses(thoughts []*Thought, viewerID string) []ThoughtResponse {
	out := make([]ThoughtResponse, 0, len(thoughts))
	for _, t := range thoughts {
		out = append(out, t.ToResponse(viewerID))
	}
	return out
}

// ListThoughtsResponse response for paginated listings
type ListThoughtsResponse struct {
	Thoughts   []ThoughtResponse `json:"thoughts"`
	Pagination Pagination        `json:"pagination"`
}

// BackfillResponse result of a tag backfill
type BackfillResponse struct {
	Updated int    `json:"updated"`
	TaskID  string `json:"task_id,omitempty"`
	Queued  bool   `json:"queued"`
}
