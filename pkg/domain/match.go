package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the match lifecycle state. A submitted result moves the
// match to in_progress until an admin verifies it as completed or disputed.
type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchDisputed   MatchStatus = "disputed"
)

// Match is a single pairing between two teams in a tournament.
type Match struct {
	ID            uuid.UUID   `json:"id"`
	TournamentID  uuid.UUID   `json:"tournament_id"`
	Round         int         `json:"round"`
	Team1ID       uuid.UUID   `json:"team1_id"`
	Team2ID       uuid.UUID   `json:"team2_id"`
	ScheduledTime time.Time   `json:"scheduled_time"`
	Score1        *int        `json:"score1"`
	Score2        *int        `json:"score2"`
	Status        MatchStatus `json:"status"`
	SubmittedBy   *uuid.UUID  `json:"submitted_by,omitempty"`
	VerifiedBy    *uuid.UUID  `json:"verified_by,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Team1Name      string `json:"team1_name,omitempty"`
	Team2Name      string `json:"team2_name,omitempty"`
	TournamentName string `json:"tournament_name,omitempty"`
}
