package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Audit action verbs. Free-form in storage but drawn from this closed set.
const (
	AuditCreate          = "CREATE"
	AuditUpdate          = "UPDATE"
	AuditDelete          = "DELETE"
	AuditAdminUpdate     = "ADMIN_UPDATE"
	AuditChangePassword  = "CHANGE_PASSWORD"
	AuditLock            = "LOCK"
	AuditUnlock          = "UNLOCK"
	AuditLogout          = "LOGOUT"
	AuditLogoutAll       = "LOGOUT_ALL"
	AuditAddMember       = "ADD_MEMBER"
	AuditRemoveMember    = "REMOVE_MEMBER"
	AuditSubmitResult    = "SUBMIT_RESULT"
	AuditVerifyResult    = "VERIFY_RESULT"
	AuditCancel          = "CANCEL"
	AuditGenerateMatches = "GENERATE_MATCHES"
)

// Audited resource types, matching the underlying table names.
const (
	ResourceUsers       = "users"
	ResourceTeams       = "teams"
	ResourceTournaments = "tournaments"
	ResourceMatches     = "matches"
)

// AuditEntry is one append-only record of who did what to which entity.
// Entries are never mutated or deleted by the application.
type AuditEntry struct {
	ID           int64
	ActorID      *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   string
	OldValues    json.RawMessage
	NewValues    json.RawMessage
	IP           string
	CreatedAt    time.Time
}
