package domain

import "github.com/google/uuid"

// TeamStanding is one leaderboard row aggregated over completed matches.
type TeamStanding struct {
	Rank            int       `json:"rank"`
	TeamID          uuid.UUID `json:"team_id"`
	Name            string    `json:"name"`
	CaptainUsername string    `json:"captain_username"`
	TotalMatches    int       `json:"total_matches"`
	Wins            int       `json:"wins"`
	Losses          int       `json:"losses"`
	Draws           int       `json:"draws"`
	WinPercentage   float64   `json:"win_percentage"`
	ScoreFor        int       `json:"total_score_for"`
	ScoreAgainst    int       `json:"total_score_against"`
	ScoreDifference int       `json:"score_difference"`
}

// PlayerStanding aggregates a user's results across active team memberships.
type PlayerStanding struct {
	Rank          int       `json:"rank"`
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	Teams         int       `json:"teams"`
	TotalMatches  int       `json:"total_matches"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	WinPercentage float64   `json:"win_percentage"`
}

// GlobalStats holds the site-wide entity counts shown on the dashboard.
type GlobalStats struct {
	Users             int `json:"users"`
	Teams             int `json:"teams"`
	Tournaments       int `json:"tournaments"`
	ActiveTournaments int `json:"active_tournaments"`
	Matches           int `json:"matches"`
	CompletedMatches  int `json:"completed_matches"`
}
