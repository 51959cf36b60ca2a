package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

// UserStore is the credential store surface the auth services need.
// *repository.UsersRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	RecordFailedLogin(ctx context.Context, userID uuid.UUID, threshold int) error
	RecordSuccessfulLogin(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error
}

// SessionStore is the session store surface the session service needs.
// *repository.SessionsRepository satisfies it.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error
}

// LoginAttemptStore records the forensic login trail.
// *repository.LoginAttemptsRepository satisfies it.
type LoginAttemptStore interface {
	Insert(ctx context.Context, attempt *domain.LoginAttempt) error
}
