package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

const userColumns = `id, username, email, password_hash, role, email_verified,
	       account_locked, failed_login_count, last_login, created_at, updated_at`

// UsersRepository handles user persistence.
type UsersRepository struct {
	db *sql.DB
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.EmailVerified, &user.AccountLocked, &user.FailedLoginCount,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user.
func (r *UsersRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.EmailVerified, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

// GetByID retrieves a user by ID.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// ExistsByEmail checks if a user exists by email.
func (r *UsersRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// ExistsByUsername checks if a user exists by username.
func (r *UsersRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// RecordFailedLogin increments the failed login counter and locks the
// account once the counter reaches the threshold, in a single atomic
// update. Two racing attempts may under-count by one; that is accepted.
func (r *UsersRepository) RecordFailedLogin(ctx context.Context, userID uuid.UUID, threshold int) error {
	query := `
		UPDATE users
		SET failed_login_count = failed_login_count + 1,
		    account_locked = CASE
		        WHEN failed_login_count + 1 >= $2 THEN TRUE
		        ELSE account_locked
		    END,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID, threshold)
	return err
}

// RecordSuccessfulLogin resets the failed login counter and stamps
// last_login.
func (r *UsersRepository) RecordSuccessfulLogin(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET failed_login_count = 0,
		    last_login = NOW(),
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *UsersRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, hash)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrUserNotFound)
}

// UpdateProfile updates the mutable profile fields.
func (r *UsersRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrUserNotFound)
}

// AdminUpdate updates the admin-editable fields (role, verification, lock).
func (r *UsersRepository) AdminUpdate(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, role = $4, email_verified = $5,
		    account_locked = $6, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.Role, user.EmailVerified, user.AccountLocked)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrUserNotFound)
}

// SetLocked sets the lock flag. Unlocking resets the failed counter so the
// account returns to a clean active state.
func (r *UsersRepository) SetLocked(ctx context.Context, userID uuid.UUID, locked bool) error {
	query := `
		UPDATE users
		SET account_locked = $2,
		    failed_login_count = CASE WHEN $2 THEN failed_login_count ELSE 0 END,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, locked)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrUserNotFound)
}

// Deactivate locks the account and anonymizes its email. Accounts are
// never hard-deleted; audit entries must keep a resolvable actor.
func (r *UsersRepository) Deactivate(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET account_locked = TRUE,
		    email = 'deleted_' || id || '_' || email,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrUserNotFound)
}

// List returns a page of users ordered by creation time.
func (r *UsersRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
