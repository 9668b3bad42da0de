package user

import (
	"strings"
	"time"
)

// User is the account behind authenticated thoughts and likes.
type User struct {
	// Identity
	ID       string `json:"id" bson:"_id"`
	Username string `json:"username" bson:"username"`

	// UsernameKey is the case-folded username used for uniqueness
	UsernameKey string `json:"username_key" bson:"username_key"`

	// Authentication
	PasswordHash string `json:"password_hash" bson:"password_hash"`

	Role Role `json:"role" bson:"role"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Role enum
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// String implements Stringer interface
func (r Role) String() string {
	return string(r)
}

// UsernameKey returns the canonical form of a username.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ToDTO strips the password hash
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
