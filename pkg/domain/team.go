package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team membership states.
const (
	MemberPending = "pending"
	MemberActive  = "active"
)

// Team represents a roster owned by its captain. Deletion is soft: the
// team is deactivated, never removed.
type Team struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CaptainID uuid.UUID  `json:"captain_id"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Joined fields for list/detail views.
	CaptainUsername string `json:"captain_username,omitempty"`
	MemberCount     int    `json:"member_count,omitempty"`
}

// TeamMember links a user to a team. Joining starts as a pending request
// the captain approves or rejects.
type TeamMember struct {
	TeamID   uuid.UUID `json:"team_id"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}
