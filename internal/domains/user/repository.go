package user

import (
	"context"
)

// Repository is the data access contract for users. Implementations exist
// for the JSON file, MongoDB and PostgreSQL backends.
type Repository interface {
	// Create stores a new user
	// Returns: ErrUsernameTaken if the case-folded username exists
	Create(ctx context.Context, user *User) error

	// FindByID returns ErrUserNotFound when absent
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername matches case-insensitively
	// Returns: ErrUserNotFound when absent
	FindByUsername(ctx context.Context, username string) (*User, error)

	// ExistsByUsername matches case-insensitively
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	Ping(ctx context.Context) error
}
