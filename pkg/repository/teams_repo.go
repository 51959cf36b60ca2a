package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/arenaops/arenad/pkg/domain"
)

// TeamsRepository handles team and roster persistence.
type TeamsRepository struct {
	db *sql.DB
}

// NewTeamsRepository creates a new teams repository.
func NewTeamsRepository(db *sql.DB) *TeamsRepository {
	return &TeamsRepository{db: db}
}

const teamColumns = `t.id, t.name, t.captain_id, t.is_active, t.created_at, t.updated_at,
	u.username,
	(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id AND tm.status = 'active')`

func scanTeam(row interface{ Scan(...any) error }) (*domain.Team, error) {
	t := &domain.Team{}
	err := row.Scan(&t.ID, &t.Name, &t.CaptainID, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		&t.CaptainUsername, &t.MemberCount)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a team and enrolls the captain as an active member in one
// transaction.
func (r *TeamsRepository) Create(ctx context.Context, team *domain.Team) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO teams (id, name, captain_id, is_active)
			VALUES ($1, $2, $3, TRUE)
			RETURNING created_at, updated_at
		`
		err := tx.QueryRowContext(ctx, query, team.ID, team.Name, team.CaptainID).
			Scan(&team.CreatedAt, &team.UpdatedAt)
		if isUniqueViolation(err) {
			return domain.ErrTeamNameTaken
		}
		if err != nil {
			return err
		}
		team.IsActive = true

		_, err = tx.ExecContext(ctx, `
			INSERT INTO team_members (team_id, user_id, status)
			VALUES ($1, $2, 'active')
		`, team.ID, team.CaptainID)
		return err
	})
}

// GetByID returns an active team by ID.
func (r *TeamsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		JOIN users u ON u.id = t.captain_id
		WHERE t.id = $1 AND t.is_active = TRUE
	`
	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

// List returns a page of active teams, newest first.
func (r *TeamsRepository) List(ctx context.Context, limit, offset int) ([]*domain.Team, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE is_active = TRUE`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		JOIN users u ON u.id = t.captain_id
		WHERE t.is_active = TRUE
		ORDER BY t.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, 0, err
		}
		teams = append(teams, team)
	}
	return teams, total, rows.Err()
}

// Update renames a team.
func (r *TeamsRepository) Update(ctx context.Context, id uuid.UUID, name string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE teams SET name = $2, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`, id, name)
	if isUniqueViolation(err) {
		return domain.ErrTeamNameTaken
	}
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrTeamNotFound)
}

// Deactivate soft-deletes a team.
func (r *TeamsRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE teams SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`, id)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrTeamNotFound)
}

// ActiveIDs returns up to limit active team IDs in registration order,
// for bracket generation.
func (r *TeamsRepository) ActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM teams WHERE is_active = TRUE ORDER BY created_at ASC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Members returns the roster of a team, active members first.
func (r *TeamsRepository) Members(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error) {
	query := `
		SELECT tm.team_id, tm.user_id, u.username, tm.status, tm.joined_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.status, tm.joined_at
	`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.TeamMember
	for rows.Next() {
		m := &domain.TeamMember{}
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Username, &m.Status, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// MemberStatus returns the membership status of a user on a team, or
// sql.ErrNoRows wrapped as ErrMemberRequestNotFound when there is none.
func (r *TeamsRepository) MemberStatus(ctx context.Context, teamID, userID uuid.UUID) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT status FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrMemberRequestNotFound
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// RequestJoin records a pending membership request.
func (r *TeamsRepository) RequestJoin(ctx context.Context, teamID, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team_members (team_id, user_id, status)
		VALUES ($1, $2, 'pending')
	`, teamID, userID)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyMember
	}
	return err
}

// ApproveMember promotes a pending request to active membership.
func (r *TeamsRepository) ApproveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE team_members SET status = 'active'
		WHERE team_id = $1 AND user_id = $2 AND status = 'pending'
	`, teamID, userID)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrMemberRequestNotFound)
}

// RemoveMember drops a member or pending request from a team.
func (r *TeamsRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrMemberRequestNotFound)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
