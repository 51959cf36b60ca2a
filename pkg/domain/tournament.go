package domain

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus is the tournament lifecycle state.
type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCancelled TournamentStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentDraft, TournamentActive, TournamentCompleted, TournamentCancelled:
		return true
	}
	return false
}

// Tournament represents a competition owned by its creator.
type Tournament struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Game      string           `json:"game"`
	StartDate time.Time        `json:"start_date"`
	EndDate   *time.Time       `json:"end_date,omitempty"`
	Status    TournamentStatus `json:"status"`
	MaxTeams  int              `json:"max_teams"`
	CreatedBy uuid.UUID        `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	CreatorUsername string `json:"creator_username,omitempty"`
}
