package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

// TournamentsRepository handles tournament persistence.
type TournamentsRepository struct {
	db *sql.DB
}

// NewTournamentsRepository creates a new tournaments repository.
func NewTournamentsRepository(db *sql.DB) *TournamentsRepository {
	return &TournamentsRepository{db: db}
}

const tournamentColumns = `t.id, t.name, t.game, t.start_date, t.end_date, t.status,
	t.max_teams, t.created_by, t.created_at, t.updated_at, u.username`

func scanTournament(row interface{ Scan(...any) error }) (*domain.Tournament, error) {
	t := &domain.Tournament{}
	err := row.Scan(&t.ID, &t.Name, &t.Game, &t.StartDate, &t.EndDate, &t.Status,
		&t.MaxTeams, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &t.CreatorUsername)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a tournament in draft status.
func (r *TournamentsRepository) Create(ctx context.Context, t *domain.Tournament) error {
	query := `
		INSERT INTO tournaments (id, name, game, start_date, end_date, status, max_teams, created_by)
		VALUES ($1, $2, $3, $4, $5, 'draft', $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Game, t.StartDate, t.EndDate, t.MaxTeams, t.CreatedBy).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	t.Status = domain.TournamentDraft
	return nil
}

// GetByID returns a tournament by ID.
func (r *TournamentsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments t
		JOIN users u ON u.id = t.created_by
		WHERE t.id = $1
	`
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTournamentNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns a page of tournaments, optionally filtered by status,
// soonest start date first.
func (r *TournamentsRepository) List(ctx context.Context, status string, limit, offset int) ([]*domain.Tournament, int, error) {
	where := ` WHERE ($1 = '' OR t.status = $1)`

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tournaments t`+where, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments t
		JOIN users u ON u.id = t.created_by` + where + `
		ORDER BY t.start_date ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tournaments []*domain.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, 0, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, total, rows.Err()
}

// Update modifies the mutable fields of a tournament.
func (r *TournamentsRepository) Update(ctx context.Context, id uuid.UUID, name, game string, maxTeams int, startDate time.Time, endDate *time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tournaments
		SET name = $2, game = $3, max_teams = $4, start_date = $5, end_date = $6, updated_at = NOW()
		WHERE id = $1
	`, id, name, game, maxTeams, startDate, endDate)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrTournamentNotFound)
}

// SetStatus transitions a tournament's lifecycle status.
func (r *TournamentsRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.TournamentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tournaments SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrTournamentNotFound)
}
