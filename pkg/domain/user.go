package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the flat role enum carried on every account.
type Role string

const (
	RolePlayer  Role = "player"
	RoleCaptain Role = "captain"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RolePlayer, RoleCaptain, RoleAdmin:
		return true
	}
	return false
}

// User represents an account.
type User struct {
	ID               uuid.UUID
	Username         string
	Email            string
	PasswordHash     string
	Role             Role
	EmailVerified    bool
	AccountLocked    bool
	FailedLoginCount int
	LastLogin        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Projection returns the client-visible view of the user. The password
// hash never leaves the server.
func (u *User) Projection() UserProjection {
	return UserProjection{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
	}
}

// UserProjection is the minimal user shape returned by auth endpoints.
type UserProjection struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"email_verified"`
}

// Identity is the resolved caller attached to a request context after
// session resolution. It is a value, passed explicitly; never mutated.
type Identity struct {
	UserID        uuid.UUID
	Username      string
	Email         string
	Role          Role
	EmailVerified bool
	SessionID     uuid.UUID
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
