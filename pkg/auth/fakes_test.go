package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

// fakeUserStore mirrors the persistence-level lockout arithmetic so the
// service flow can be exercised without a database.
type fakeUserStore struct {
	users     map[uuid.UUID]*domain.User
	createErr error
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *fakeUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, user := range s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) RecordFailedLogin(ctx context.Context, userID uuid.UUID, threshold int) error {
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.FailedLoginCount++
	if user.FailedLoginCount >= threshold {
		user.AccountLocked = true
	}
	return nil
}

func (s *fakeUserStore) RecordSuccessfulLogin(ctx context.Context, userID uuid.UUID) error {
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.FailedLoginCount = 0
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

type fakeSessionStore struct {
	sessions map[uuid.UUID]*domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (s *fakeSessionStore) Create(ctx context.Context, session *domain.Session) error {
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	for _, session := range s.sessions {
		if session.TokenHash == tokenHash && session.RevokedAt == nil {
			copied := *session
			return &copied, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (s *fakeSessionStore) Revoke(ctx context.Context, id uuid.UUID) error {
	session, ok := s.sessions[id]
	if !ok || session.RevokedAt != nil {
		return domain.ErrSessionNotFound
	}
	now := time.Now()
	session.RevokedAt = &now
	return nil
}

func (s *fakeSessionStore) RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error {
	for _, session := range s.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			now := time.Now()
			session.RevokedAt = &now
		}
	}
	return nil
}

type fakeAttemptStore struct {
	attempts  []*domain.LoginAttempt
	insertErr error
}

func (s *fakeAttemptStore) Insert(ctx context.Context, attempt *domain.LoginAttempt) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *fakeAttemptStore) lastReason() string {
	if len(s.attempts) == 0 {
		return ""
	}
	last := s.attempts[len(s.attempts)-1]
	if last.FailureReason == nil {
		return ""
	}
	return *last.FailureReason
}
