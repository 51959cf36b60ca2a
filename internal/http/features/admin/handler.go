// Package admin exposes account administration, the audit log viewer and
// moderation views. The whole router group is admin-gated.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/internal/http/middleware"
	"github.com/arenaops/arenad/internal/httputil"
	"github.com/arenaops/arenad/pkg/audit"
	"github.com/arenaops/arenad/pkg/auth"
	"github.com/arenaops/arenad/pkg/domain"
)

// UserStore is the account administration surface.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, int, error)
	AdminUpdate(ctx context.Context, user *domain.User) error
	SetLocked(ctx context.Context, userID uuid.UUID, locked bool) error
	Deactivate(ctx context.Context, userID uuid.UUID) error
}

// AuditStore pages through the audit log.
type AuditStore interface {
	List(ctx context.Context, action, resourceType string, limit, offset int) ([]*domain.AuditEntry, int, error)
}

// AttemptStore reads the forensic login trail.
type AttemptStore interface {
	ListByEmail(ctx context.Context, email string, limit int) ([]*domain.LoginAttempt, error)
}

// MatchStore surfaces matches pending verification.
type MatchStore interface {
	ListPending(ctx context.Context) ([]*domain.Match, error)
}

// StatsStore provides the dashboard counts.
type StatsStore interface {
	GlobalStats(ctx context.Context) (*domain.GlobalStats, error)
}

// Handler handles admin endpoints.
type Handler struct {
	logger   *slog.Logger
	users    UserStore
	audits   AuditStore
	attempts AttemptStore
	matches  MatchStore
	stats    StatsStore
	sessions *auth.SessionService
	recorder *audit.Recorder
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, users UserStore, audits AuditStore, attempts AttemptStore, matches MatchStore, stats StatsStore, sessions *auth.SessionService, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:   logger,
		users:    users,
		audits:   audits,
		attempts: attempts,
		matches:  matches,
		stats:    stats,
		sessions: sessions,
		recorder: recorder,
	}
}

// adminUserView extends the projection with moderation state.
type adminUserView struct {
	domain.UserProjection
	AccountLocked    bool `json:"account_locked"`
	FailedLoginCount int  `json:"failed_login_count"`
}

func adminView(u *domain.User) adminUserView {
	return adminUserView{
		UserProjection:   u.Projection(),
		AccountLocked:    u.AccountLocked,
		FailedLoginCount: u.FailedLoginCount,
	}
}

// ListUsers returns a page of accounts.
// GET /v1/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r)
	users, total, err := h.users.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	views := make([]adminUserView, len(users))
	for i, u := range users {
		views[i] = adminView(u)
	}
	httputil.Paginated(w, views, total, page)
}

// GetUser returns one account with moderation state.
// GET /v1/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	httputil.JSON(w, http.StatusOK, adminView(user))
}

// UpdateUserRequest carries the admin-editable account fields.
type UpdateUserRequest struct {
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	EmailVerified bool        `json:"email_verified"`
	AccountLocked bool        `json:"account_locked"`
}

// UpdateUser edits an account, including role elevation.
// PUT /v1/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	if err := auth.ValidateUsername(req.Username); err != nil {
		httputil.DomainError(w, err)
		return
	}
	if err := auth.ValidateEmail(req.Email); err != nil {
		httputil.DomainError(w, err)
		return
	}
	if !req.Role.Valid() {
		httputil.DomainError(w, domain.ErrInvalidRole)
		return
	}

	before := adminView(user)
	user.Username = req.Username
	user.Email = auth.NormalizeEmail(req.Email)
	user.Role = req.Role
	user.EmailVerified = req.EmailVerified
	user.AccountLocked = req.AccountLocked

	if err := h.users.AdminUpdate(r.Context(), user); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditAdminUpdate, domain.ResourceUsers,
		user.ID.String(), before, adminView(user), httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, adminView(user))
}

// LockRequest toggles the account lock.
type LockRequest struct {
	Locked bool `json:"locked"`
}

// SetUserLock locks or unlocks an account. Admins cannot lock themselves.
// Locking also revokes every session the account holds; unlocking resets
// the failed-login counter.
// PUT /v1/users/{id}/lock
func (h *Handler) SetUserLock(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req LockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	if req.Locked && user.ID == identity.UserID {
		httputil.Error(w, http.StatusUnprocessableEntity, "cannot lock your own account", httputil.CodeStateConflict)
		return
	}

	if err := h.users.SetLocked(r.Context(), user.ID, req.Locked); err != nil {
		httputil.DomainError(w, err)
		return
	}

	action := domain.AuditUnlock
	if req.Locked {
		action = domain.AuditLock
		if err := h.sessions.RevokeAllSessions(r.Context(), user.ID); err != nil {
			h.logger.Error("failed to revoke sessions on lock", "user_id", user.ID, "error", err)
		}
	}

	h.recorder.Record(r.Context(), &identity.UserID, action, domain.ResourceUsers,
		user.ID.String(),
		map[string]bool{"account_locked": user.AccountLocked},
		map[string]bool{"account_locked": req.Locked},
		httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, map[string]any{"id": user.ID, "account_locked": req.Locked})
}

// DeleteUser deactivates an account: lock plus email anonymization, never
// a hard delete, so audit actors stay resolvable.
// DELETE /v1/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	if user.ID == identity.UserID {
		httputil.Error(w, http.StatusUnprocessableEntity, "cannot delete your own account", httputil.CodeStateConflict)
		return
	}

	if err := h.users.Deactivate(r.Context(), user.ID); err != nil {
		httputil.DomainError(w, err)
		return
	}
	if err := h.sessions.RevokeAllSessions(r.Context(), user.ID); err != nil {
		h.logger.Error("failed to revoke sessions on delete", "user_id", user.ID, "error", err)
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditDelete, domain.ResourceUsers,
		user.ID.String(), adminView(user), nil, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "user deactivated"})
}

// AuditLogs pages through the audit trail, filterable by action and
// resource type.
// GET /v1/admin/audit-logs
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r)
	entries, total, err := h.audits.List(r.Context(),
		r.URL.Query().Get("action"), r.URL.Query().Get("resource_type"),
		page.Limit, page.Offset)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.Paginated(w, entries, total, page)
}

// LoginAttempts returns the recent forensic trail for one email.
// GET /v1/admin/login-attempts
func (h *Handler) LoginAttempts(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httputil.Error(w, http.StatusBadRequest, "email query parameter is required", httputil.CodeValidation)
		return
	}
	attempts, err := h.attempts.ListByEmail(r.Context(), auth.NormalizeEmail(email), 50)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"email": email, "attempts": attempts})
}

// PendingMatches lists submitted, unverified results.
// GET /v1/admin/matches/pending
func (h *Handler) PendingMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matches.ListPending(r.Context())
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"matches": matches})
}

// Stats returns the dashboard counts.
// GET /v1/admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GlobalStats(r.Context())
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	id, err := httputil.URLParamUUID(r, "id")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id", httputil.CodeBadRequest)
		return nil, false
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		httputil.DomainError(w, err)
		return nil, false
	}
	return user, true
}
