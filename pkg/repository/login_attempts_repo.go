package repository

import (
	"context"
	"database/sql"

	"github.com/arenaops/arenad/pkg/domain"
)

// LoginAttemptsRepository handles the append-only login attempt log.
type LoginAttemptsRepository struct {
	db *sql.DB
}

// NewLoginAttemptsRepository creates a new login attempts repository.
func NewLoginAttemptsRepository(db *sql.DB) *LoginAttemptsRepository {
	return &LoginAttemptsRepository{db: db}
}

// Insert appends one attempt record.
func (r *LoginAttemptsRepository) Insert(ctx context.Context, attempt *domain.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (email, ip, user_agent, success, failure_reason)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		attempt.Email, attempt.IP, attempt.UserAgent, attempt.Success, attempt.FailureReason,
	)
	return err
}

// ListByEmail returns the most recent attempts for an email, newest first.
func (r *LoginAttemptsRepository) ListByEmail(ctx context.Context, email string, limit int) ([]*domain.LoginAttempt, error) {
	query := `
		SELECT id, email, ip, user_agent, success, failure_reason, created_at
		FROM login_attempts
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*domain.LoginAttempt
	for rows.Next() {
		a := &domain.LoginAttempt{}
		err := rows.Scan(&a.ID, &a.Email, &a.IP, &a.UserAgent, &a.Success, &a.FailureReason, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
