// Package users exposes the caller's profile endpoints.
package users

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

// Store is the user persistence surface this feature needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// Handler handles profile endpoints.
type Handler struct {
	logger   *slog.Logger
	users    Store
	password *auth.PasswordService
	sessions *auth.SessionService
	recorder *audit.Recorder
}

// NewHandler creates a new profile handler.
func NewHandler(logger *slog.Logger, users Store, password *auth.PasswordService, sessions *auth.SessionService, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:   logger,
		users:    users,
		password: password,
		sessions: sessions,
		recorder: recorder,
	}
}

// Profile returns the caller's full projection from storage.
// GET /v1/users/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	user, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, user.Projection())
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateProfile changes the caller's username and email.
// PUT /v1/users/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	var req UpdateProfileRequest
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
	req.Email = auth.NormalizeEmail(req.Email)

	user, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	before := user.Projection()

	if req.Username != user.Username {
		taken, err := h.users.ExistsByUsername(r.Context(), req.Username)
		if err != nil {
			httputil.DomainError(w, err)
			return
		}
		if taken {
			httputil.DomainError(w, domain.ErrUsernameAlreadyExists)
			return
		}
	}
	if req.Email != user.Email {
		taken, err := h.users.ExistsByEmail(r.Context(), req.Email)
		if err != nil {
			httputil.DomainError(w, err)
			return
		}
		if taken {
			httputil.DomainError(w, domain.ErrUserAlreadyExists)
			return
		}
	}

	user.Username = req.Username
	user.Email = req.Email
	if err := h.users.UpdateProfile(r.Context(), user); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditUpdate, domain.ResourceUsers,
		user.ID.String(), before, user.Projection(), httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, user.Projection())
}

// ChangePasswordRequest carries the current and replacement passwords.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes every other session so stolen refresh tokens die with it.
// PUT /v1/users/profile/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	var req ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}

	if err := h.password.ChangePassword(r.Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		httputil.DomainError(w, err)
		return
	}

	if err := h.sessions.RevokeAllSessions(r.Context(), identity.UserID); err != nil {
		h.logger.Error("failed to revoke sessions after password change", "user_id", identity.UserID, "error", err)
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditChangePassword, domain.ResourceUsers,
		identity.UserID.String(), nil, nil, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "password changed, please log in again"})
}
