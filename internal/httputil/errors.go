package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/arenaops/arenad/pkg/domain"
)

// Stable error codes carried in the response envelope. Clients branch on
// these; the accompanying messages are free to change.
const (
	CodeTokenMissing      = "TOKEN_MISSING"
	CodeTokenInvalid      = "TOKEN_INVALID"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeSessionInvalid    = "SESSION_INVALID"
	CodeAccountLocked     = "ACCOUNT_LOCKED"
	CodeEmailNotVerified  = "EMAIL_NOT_VERIFIED"
	CodeAuthRequired      = "AUTH_REQUIRED"
	CodeAuthError         = "AUTH_ERROR"
	CodeInvalidCreds      = "INVALID_CREDENTIALS"
	CodeForbidden         = "INSUFFICIENT_PERMISSIONS"
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeStateConflict     = "INVALID_STATE"
	CodeInternal          = "INTERNAL_ERROR"
	CodeBadRequest        = "BAD_REQUEST"
	CodeRateLimited       = "RATE_LIMITED"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
)

type errorMapping struct {
	status int
	code   string
}

var sentinelMap = map[error]errorMapping{
	domain.ErrTokenMissing:    {http.StatusUnauthorized, CodeTokenMissing},
	domain.ErrTokenInvalid:    {http.StatusUnauthorized, CodeTokenInvalid},
	domain.ErrTokenExpired:    {http.StatusUnauthorized, CodeTokenExpired},
	domain.ErrSessionNotFound: {http.StatusUnauthorized, CodeSessionInvalid},
	domain.ErrSessionInvalid:  {http.StatusUnauthorized, CodeSessionInvalid},

	domain.ErrInvalidCredentials: {http.StatusUnauthorized, CodeInvalidCreds},
	domain.ErrAccountLocked:      {http.StatusForbidden, CodeAccountLocked},
	domain.ErrEmailNotVerified:   {http.StatusForbidden, CodeEmailNotVerified},
	domain.ErrForbidden:          {http.StatusForbidden, CodeForbidden},

	domain.ErrInvalidEmail:    {http.StatusBadRequest, CodeValidation},
	domain.ErrInvalidUsername: {http.StatusBadRequest, CodeValidation},
	domain.ErrInvalidRole:     {http.StatusBadRequest, CodeValidation},
	domain.ErrWeakPassword:    {http.StatusBadRequest, CodeValidation},

	domain.ErrUserNotFound:          {http.StatusNotFound, CodeUserNotFound},
	domain.ErrTeamNotFound:          {http.StatusNotFound, CodeNotFound},
	domain.ErrTournamentNotFound:    {http.StatusNotFound, CodeNotFound},
	domain.ErrMatchNotFound:         {http.StatusNotFound, CodeNotFound},
	domain.ErrMemberRequestNotFound: {http.StatusNotFound, CodeNotFound},

	domain.ErrUserAlreadyExists:     {http.StatusConflict, CodeConflict},
	domain.ErrUsernameAlreadyExists: {http.StatusConflict, CodeConflict},
	domain.ErrTeamNameTaken:         {http.StatusConflict, CodeConflict},
	domain.ErrAlreadyMember:         {http.StatusConflict, CodeConflict},
	domain.ErrRequestPending:        {http.StatusConflict, CodeConflict},
	domain.ErrMatchesExist:          {http.StatusConflict, CodeConflict},

	domain.ErrTournamentNotActive:  {http.StatusUnprocessableEntity, CodeStateConflict},
	domain.ErrMatchAlreadyVerified: {http.StatusUnprocessableEntity, CodeStateConflict},
	domain.ErrInsufficientTeams:    {http.StatusUnprocessableEntity, CodeStateConflict},
	domain.ErrInvalidBracketType:   {http.StatusBadRequest, CodeValidation},
}

// DomainError maps a sentinel error to its HTTP status and stable code,
// writing the response. Unknown errors become a logged 500 with a generic
// body so internals never leak.
func DomainError(w http.ResponseWriter, err error) {
	for sentinel, m := range sentinelMap {
		if errors.Is(err, sentinel) {
			Error(w, m.status, sentinel.Error(), m.code)
			return
		}
	}
	slog.Error("unhandled error", "error", err)
	Error(w, http.StatusInternalServerError, "internal server error", CodeInternal)
}
