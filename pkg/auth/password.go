package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/arenaops/arenad/pkg/domain"
)

const (
	DefaultBcryptCost       = 12
	DefaultLockoutThreshold = 5
)

// PasswordService handles registration and password authentication,
// including the account lockout counter.
type PasswordService struct {
	users            UserStore
	attempts         LoginAttemptStore
	logger           *slog.Logger
	bcryptCost       int
	lockoutThreshold int
}

// NewPasswordService creates a new password service. Zero cost or
// threshold fall back to the defaults.
func NewPasswordService(users UserStore, attempts LoginAttemptStore, logger *slog.Logger, bcryptCost, lockoutThreshold int) *PasswordService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	if lockoutThreshold == 0 {
		lockoutThreshold = DefaultLockoutThreshold
	}
	return &PasswordService{
		users:            users,
		attempts:         attempts,
		logger:           logger,
		bcryptCost:       bcryptCost,
		lockoutThreshold: lockoutThreshold,
	}
}

// LockoutThreshold returns the configured failed-attempt threshold.
func (s *PasswordService) LockoutThreshold() int {
	return s.lockoutThreshold
}

// Register creates a new user with a hashed password. The role defaults
// to player when empty.
func (s *PasswordService) Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.RolePlayer
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}
	exists, err = s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUsernameAlreadyExists
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:            uuid.New(),
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		Role:          role,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies email and password and returns the user on
// success. Locked accounts are rejected before the password is checked,
// so a correct guess never confirms credentials for a locked account.
// Every attempt, successful or not, is recorded best-effort.
func (s *PasswordService) Authenticate(ctx context.Context, email, password, ip, userAgent string) (*domain.User, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordAttempt(ctx, email, ip, userAgent, false, domain.AttemptReasonUserNotFound)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.AccountLocked {
		s.recordAttempt(ctx, email, ip, userAgent, false, domain.AttemptReasonAccountLocked)
		return nil, domain.ErrAccountLocked
	}

	if !VerifyPassword(password, user.PasswordHash) {
		if err := s.users.RecordFailedLogin(ctx, user.ID, s.lockoutThreshold); err != nil {
			s.logger.Error("failed to record failed login", "user_id", user.ID, "error", err)
		}
		s.recordAttempt(ctx, email, ip, userAgent, false, domain.AttemptReasonInvalidPassword)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.users.RecordSuccessfulLogin(ctx, user.ID); err != nil {
		s.logger.Error("failed to record successful login", "user_id", user.ID, "error", err)
	}
	s.recordAttempt(ctx, email, ip, userAgent, true, "")
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *PasswordService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// recordAttempt writes one row to the forensic login trail. Failures are
// logged and swallowed; authentication outcome never depends on it.
func (s *PasswordService) recordAttempt(ctx context.Context, email, ip, userAgent string, success bool, reason string) {
	attempt := &domain.LoginAttempt{
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Success:   success,
		CreatedAt: time.Now(),
	}
	if reason != "" {
		attempt.FailureReason = &reason
	}
	if err := s.attempts.Insert(ctx, attempt); err != nil {
		s.logger.Error("failed to record login attempt", "email", email, "error", err)
	}
}

// HashPassword hashes a password with bcrypt at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
