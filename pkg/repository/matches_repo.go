package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

// MatchesRepository handles match persistence.
type MatchesRepository struct {
	db *sql.DB
}

// NewMatchesRepository creates a new matches repository.
func NewMatchesRepository(db *sql.DB) *MatchesRepository {
	return &MatchesRepository{db: db}
}

const matchColumns = `m.id, m.tournament_id, m.round, m.team1_id, m.team2_id, m.scheduled_time,
	m.score1, m.score2, m.status, m.submitted_by, m.verified_by, m.created_at, m.updated_at,
	t1.name, t2.name`

func scanMatch(row interface{ Scan(...any) error }) (*domain.Match, error) {
	m := &domain.Match{}
	err := row.Scan(&m.ID, &m.TournamentID, &m.Round, &m.Team1ID, &m.Team2ID, &m.ScheduledTime,
		&m.Score1, &m.Score2, &m.Status, &m.SubmittedBy, &m.VerifiedBy, &m.CreatedAt, &m.UpdatedAt,
		&m.Team1Name, &m.Team2Name)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a single match.
func (r *MatchesRepository) Create(ctx context.Context, m *domain.Match) error {
	query := `
		INSERT INTO matches (id, tournament_id, round, team1_id, team2_id, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled')
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.TournamentID, m.Round, m.Team1ID, m.Team2ID, m.ScheduledTime).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}
	m.Status = domain.MatchScheduled
	return nil
}

// CreateBatch inserts a generated bracket in one transaction.
func (r *MatchesRepository) CreateBatch(ctx context.Context, matches []*domain.Match) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO matches (id, tournament_id, round, team1_id, team2_id, scheduled_time, status)
			VALUES ($1, $2, $3, $4, $5, $6, 'scheduled')
			RETURNING created_at, updated_at
		`
		for _, m := range matches {
			err := tx.QueryRowContext(ctx, query,
				m.ID, m.TournamentID, m.Round, m.Team1ID, m.Team2ID, m.ScheduledTime).
				Scan(&m.CreatedAt, &m.UpdatedAt)
			if err != nil {
				return err
			}
			m.Status = domain.MatchScheduled
		}
		return nil
	})
}

// GetByID returns a match by ID.
func (r *MatchesRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams t1 ON t1.id = m.team1_id
		JOIN teams t2 ON t2.id = m.team2_id
		WHERE m.id = $1
	`
	m, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns a page of matches, optionally filtered by tournament,
// soonest first.
func (r *MatchesRepository) List(ctx context.Context, tournamentID *uuid.UUID, limit, offset int) ([]*domain.Match, int, error) {
	where := ` WHERE ($1::uuid IS NULL OR m.tournament_id = $1)`

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches m`+where, tournamentID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams t1 ON t1.id = m.team1_id
		JOIN teams t2 ON t2.id = m.team2_id` + where + `
		ORDER BY m.scheduled_time ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, tournamentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var matches []*domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, 0, err
		}
		matches = append(matches, m)
	}
	return matches, total, rows.Err()
}

// ListPending returns matches with a submitted but unverified result.
func (r *MatchesRepository) ListPending(ctx context.Context) ([]*domain.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams t1 ON t1.id = m.team1_id
		JOIN teams t2 ON t2.id = m.team2_id
		WHERE m.status = 'in_progress' AND m.submitted_by IS NOT NULL
		ORDER BY m.updated_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListByTournament returns all matches of a tournament in bracket order.
func (r *MatchesRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*domain.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams t1 ON t1.id = m.team1_id
		JOIN teams t2 ON t2.id = m.team2_id
		WHERE m.tournament_id = $1
		ORDER BY m.round, m.scheduled_time
	`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CountByTournament reports how many matches exist for a tournament.
func (r *MatchesRepository) CountByTournament(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1`, tournamentID).Scan(&count)
	return count, err
}

// Reschedule moves a match to a new time.
func (r *MatchesRepository) Reschedule(ctx context.Context, id uuid.UUID, scheduledTime time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE matches SET scheduled_time = $2, updated_at = NOW() WHERE id = $1
	`, id, scheduledTime)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrMatchNotFound)
}

// SubmitResult records a score pair and the submitter, moving the match to
// in_progress pending verification. Only scheduled or in_progress matches
// accept submissions.
func (r *MatchesRepository) SubmitResult(ctx context.Context, id uuid.UUID, score1, score2 int, submittedBy uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE matches
		SET score1 = $2, score2 = $3, status = 'in_progress', submitted_by = $4, updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'in_progress')
	`, id, score1, score2, submittedBy)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrMatchAlreadyVerified)
}

// Verify settles a submitted result as completed or disputed.
func (r *MatchesRepository) Verify(ctx context.Context, id uuid.UUID, status domain.MatchStatus, verifiedBy uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE matches
		SET status = $2, verified_by = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`, id, status, verifiedBy)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrMatchAlreadyVerified)
}
