package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the revocable server-side record behind a refresh token.
// The access token is stateless; only the refresh token is persisted,
// hashed, so session validity is a revocation check rather than the
// primary trust anchor.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	IP        string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// IsValid checks that the session is neither revoked nor expired.
func (s *Session) IsValid() bool {
	if s.RevokedAt != nil {
		return false
	}
	return time.Now().Before(s.ExpiresAt)
}

// TokenPair is the access/refresh token pair returned on login and refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}
