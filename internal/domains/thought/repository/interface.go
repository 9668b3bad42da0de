package repository

import (
	"context"

	"happy-thoughts/internal/domains/thought/model"
)

// =====================================================
// THOUGHT REPOSITORY INTERFACE
// =====================================================

// FindOptions narrows and orders FindAll.
//
// Without Newest, thoughts come back in collection order (oldest first).
// With Newest, they are ordered by CreatedAt descending. Limit <= 0 means no
// limit.
type FindOptions struct {
	Newest  bool
	OwnerID string
	Tag     string
	Offset  int
	Limit   int
}

// CountOptions narrows Count.
type CountOptions struct {
	OwnerID string
	Tag     string
}

type ThoughtRepository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// Insert stores a new thought. Returns model.ErrDuplicateThought when the
	// ID is taken.
	Insert(ctx context.Context, thought *model.Thought) error

	// FindByID returns model.ErrThoughtNotFound when absent
	FindByID(ctx context.Context, id string) (*model.Thought, error)

	// Update replaces the stored record with the same ID
	Update(ctx context.Context, thought *model.Thought) error

	// Delete removes a thought by ID
	Delete(ctx context.Context, id string) error

	// ========================================
	// QUERY Operations
	// ========================================

	FindAll(ctx context.Context, opts FindOptions) ([]*model.Thought, error)

	Count(ctx context.Context, opts CountOptions) (int, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}
