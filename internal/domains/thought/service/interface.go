package service

import (
	"context"

	"happy-thoughts/internal/domains/thought/model"
)

// =====================================================
// THOUGHT SERVICE INTERFACE
// =====================================================

// Every method returns *model.ThoughtError on failure. userID is empty for
// anonymous callers.
type ServiceInterface interface {
	// ========================================
	// WRITE OPERATIONS
	// ========================================

	// CreateThought validates, classifies and stores a new thought
	CreateThought(ctx context.Context, userID string, req model.CreateThoughtRequest) (*model.Thought, error)

	// LikeThought toggles the caller's like, or adds a heart for anonymous callers
	LikeThought(ctx context.Context, id, userID string) (*model.Thought, error)

	// UpdateThought edits an owned thought
	UpdateThought(ctx context.Context, id, userID string, req model.UpdateThoughtRequest) (*model.Thought, error)

	// DeleteThought removes an owned thought
	DeleteThought(ctx context.Context, id, userID string) error

	// BackfillTags classifies every untagged thought and returns how many changed
	BackfillTags(ctx context.Context) (int, error)

	// ========================================
	// READ OPERATIONS
	// ========================================

	GetThought(ctx context.Context, id string) (*model.Thought, error)

	// ListThoughts pages through thoughts, newest first
	ListThoughts(ctx context.Context, page, limit int) (*model.ThoughtPage, error)

	// ListUserThoughts pages through the thoughts owned by userID, newest first
	ListUserThoughts(ctx context.Context, userID string, page, limit int) (*model.ThoughtPage, error)

	// TrendingThoughts orders by hearts; limit <= 0 returns every thought
	TrendingThoughts(ctx context.Context, limit int) ([]*model.Thought, error)

	ThoughtsByTag(ctx context.Context, tag string) ([]*model.Thought, error)

	// AllTags returns every tag in use, sorted
	AllTags(ctx context.Context) ([]string, error)

	// Categories returns the classifier's label set
	Categories() []string
}
