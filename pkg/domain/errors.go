package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountLocked         = errors.New("account is locked")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrTokenMissing          = errors.New("access token required")
	ErrTokenInvalid          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionInvalid        = errors.New("invalid or expired session")
)

// Authorization errors
var (
	ErrForbidden = errors.New("insufficient permissions")
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidUsername = errors.New("invalid username format")
	ErrInvalidRole     = errors.New("invalid role")
	ErrWeakPassword    = errors.New("password does not meet requirements")
)

// Domain errors
var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameTaken         = errors.New("team name already exists")
	ErrAlreadyMember         = errors.New("already a member of this team")
	ErrRequestPending        = errors.New("join request already pending")
	ErrMemberRequestNotFound = errors.New("join request not found")
	ErrTournamentNotFound    = errors.New("tournament not found")
	ErrTournamentNotActive   = errors.New("tournament is not active")
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchAlreadyVerified  = errors.New("match already verified")
	ErrMatchesExist          = errors.New("matches already exist for this tournament")
	ErrInsufficientTeams     = errors.New("at least 2 teams must be registered")
	ErrInvalidBracketType    = errors.New("invalid bracket type")
)
