package domain

import "time"

// Login attempt failure reasons, recorded for forensics only. The lockout
// counter on the user row is the authoritative gate, not this log.
const (
	AttemptReasonUserNotFound    = "user not found"
	AttemptReasonAccountLocked   = "account locked"
	AttemptReasonInvalidPassword = "invalid password"
)

// LoginAttempt is one append-only authentication attempt record. Attempts
// are keyed by email rather than user id because they may precede the
// resolution of any account.
type LoginAttempt struct {
	ID            int64
	Email         string
	IP            string
	UserAgent     string
	Success       bool
	FailureReason *string
	CreatedAt     time.Time
}
