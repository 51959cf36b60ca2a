package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

// LeaderboardRepository computes standings from completed matches. Rankings
// are computed per request; nothing here is materialized.
type LeaderboardRepository struct {
	db *sql.DB
}

// NewLeaderboardRepository creates a new leaderboard repository.
func NewLeaderboardRepository(db *sql.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// TeamStandings returns teams ranked by wins, then score difference. A nil
// tournamentID ranks across all tournaments.
func (r *LeaderboardRepository) TeamStandings(ctx context.Context, tournamentID *uuid.UUID, limit int) ([]*domain.TeamStanding, error) {
	query := `
		WITH results AS (
			SELECT m.team1_id AS team_id, m.score1 AS score_for, m.score2 AS score_against
			FROM matches m
			WHERE m.status = 'completed' AND ($1::uuid IS NULL OR m.tournament_id = $1)
			UNION ALL
			SELECT m.team2_id, m.score2, m.score1
			FROM matches m
			WHERE m.status = 'completed' AND ($1::uuid IS NULL OR m.tournament_id = $1)
		)
		SELECT t.id, t.name, u.username,
			COUNT(r.team_id) AS total_matches,
			COALESCE(SUM(CASE WHEN r.score_for > r.score_against THEN 1 ELSE 0 END), 0) AS wins,
			COALESCE(SUM(CASE WHEN r.score_for < r.score_against THEN 1 ELSE 0 END), 0) AS losses,
			COALESCE(SUM(CASE WHEN r.score_for = r.score_against THEN 1 ELSE 0 END), 0) AS draws,
			COALESCE(SUM(r.score_for), 0) AS score_for,
			COALESCE(SUM(r.score_against), 0) AS score_against
		FROM teams t
		JOIN users u ON u.id = t.captain_id
		JOIN results r ON r.team_id = t.id
		WHERE t.is_active = TRUE
		GROUP BY t.id, t.name, u.username
		ORDER BY wins DESC, SUM(r.score_for) - SUM(r.score_against) DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, tournamentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []*domain.TeamStanding
	for rows.Next() {
		s := &domain.TeamStanding{}
		err := rows.Scan(&s.TeamID, &s.Name, &s.CaptainUsername,
			&s.TotalMatches, &s.Wins, &s.Losses, &s.Draws, &s.ScoreFor, &s.ScoreAgainst)
		if err != nil {
			return nil, err
		}
		s.Rank = len(standings) + 1
		s.ScoreDifference = s.ScoreFor - s.ScoreAgainst
		if s.TotalMatches > 0 {
			s.WinPercentage = float64(s.Wins) / float64(s.TotalMatches) * 100
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

// PlayerStandings ranks users by wins accumulated through their active
// team memberships.
func (r *LeaderboardRepository) PlayerStandings(ctx context.Context, limit int) ([]*domain.PlayerStanding, error) {
	query := `
		WITH results AS (
			SELECT m.team1_id AS team_id,
				CASE WHEN m.score1 > m.score2 THEN 1 ELSE 0 END AS win
			FROM matches m WHERE m.status = 'completed'
			UNION ALL
			SELECT m.team2_id,
				CASE WHEN m.score2 > m.score1 THEN 1 ELSE 0 END
			FROM matches m WHERE m.status = 'completed'
		)
		SELECT u.id, u.username,
			COUNT(DISTINCT tm.team_id) AS teams,
			COUNT(r.team_id) AS total_matches,
			COALESCE(SUM(r.win), 0) AS wins
		FROM users u
		JOIN team_members tm ON tm.user_id = u.id AND tm.status = 'active'
		JOIN results r ON r.team_id = tm.team_id
		GROUP BY u.id, u.username
		ORDER BY wins DESC, total_matches ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []*domain.PlayerStanding
	for rows.Next() {
		s := &domain.PlayerStanding{}
		err := rows.Scan(&s.UserID, &s.Username, &s.Teams, &s.TotalMatches, &s.Wins)
		if err != nil {
			return nil, err
		}
		s.Rank = len(standings) + 1
		s.Losses = s.TotalMatches - s.Wins
		if s.TotalMatches > 0 {
			s.WinPercentage = float64(s.Wins) / float64(s.TotalMatches) * 100
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

// GlobalStats returns the site-wide counts shown on the dashboard.
func (r *LeaderboardRepository) GlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE account_locked = FALSE),
			(SELECT COUNT(*) FROM teams WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM tournaments),
			(SELECT COUNT(*) FROM tournaments WHERE status = 'active'),
			(SELECT COUNT(*) FROM matches),
			(SELECT COUNT(*) FROM matches WHERE status = 'completed')
	`
	stats := &domain.GlobalStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Users, &stats.Teams, &stats.Tournaments,
		&stats.ActiveTournaments, &stats.Matches, &stats.CompletedMatches)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
