// Package authn exposes registration, login and session lifecycle
// endpoints.
package authn

import (
	"log/slog"
	"net/http"

	"github.com/arenaops/arenad/internal/http/middleware"
	"github.com/arenaops/arenad/internal/httputil"
	"github.com/arenaops/arenad/pkg/audit"
	"github.com/arenaops/arenad/pkg/auth"
	"github.com/arenaops/arenad/pkg/domain"
)

// Handler handles authentication endpoints.
type Handler struct {
	logger   *slog.Logger
	password *auth.PasswordService
	sessions *auth.SessionService
	recorder *audit.Recorder
}

// NewHandler creates a new authentication handler.
func NewHandler(logger *slog.Logger, password *auth.PasswordService, sessions *auth.SessionService, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:   logger,
		password: password,
		sessions: sessions,
		recorder: recorder,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse pairs tokens with the user projection.
type AuthResponse struct {
	User   domain.UserProjection `json:"user"`
	Tokens *domain.TokenPair     `json:"tokens"`
}

// Register handles self-registration. The role is always player; roles
// are elevated only through the admin surface.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}

	user, err := h.password.Register(r.Context(), req.Username, req.Email, req.Password, domain.RolePlayer)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	tokens, err := h.sessions.IssueSession(r.Context(), user, httputil.ClientIP(r), r.UserAgent())
	if err != nil {
		h.logger.Error("failed to issue session after registration", "user_id", user.ID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue session", httputil.CodeAuthError)
		return
	}

	h.recorder.Record(r.Context(), &user.ID, domain.AuditCreate, domain.ResourceUsers, user.ID.String(),
		nil, user.Projection(), httputil.ClientIP(r))

	httputil.JSON(w, http.StatusCreated, AuthResponse{User: user.Projection(), Tokens: tokens})
}

// Login authenticates an email/password pair and issues a session.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required", httputil.CodeValidation)
		return
	}

	user, err := h.password.Authenticate(r.Context(), req.Email, req.Password, httputil.ClientIP(r), r.UserAgent())
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	tokens, err := h.sessions.IssueSession(r.Context(), user, httputil.ClientIP(r), r.UserAgent())
	if err != nil {
		h.logger.Error("failed to issue session", "user_id", user.ID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue session", httputil.CodeAuthError)
		return
	}

	httputil.JSON(w, http.StatusOK, AuthResponse{User: user.Projection(), Tokens: tokens})
}

// RefreshRequest carries the opaque refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a fresh access token.
// POST /v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required", httputil.CodeValidation)
		return
	}

	tokens, err := h.sessions.RefreshSession(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

// Logout revokes the session behind the presented refresh token.
// Idempotent: unknown tokens still return 200.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required", httputil.CodeValidation)
		return
	}

	session, err := h.sessions.RevokeSession(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("failed to revoke session", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "logout failed", httputil.CodeInternal)
		return
	}

	// The route takes no access token, so the actor comes from the
	// revoked session itself.
	if session != nil {
		h.recorder.Record(r.Context(), &session.UserID, domain.AuditLogout, domain.ResourceUsers,
			session.UserID.String(), nil, nil, httputil.ClientIP(r))
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// LogoutAll revokes every session the caller owns.
// POST /v1/auth/logout/all
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	if err := h.sessions.RevokeAllSessions(r.Context(), identity.UserID); err != nil {
		h.logger.Error("failed to revoke sessions", "user_id", identity.UserID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "logout failed", httputil.CodeInternal)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditLogoutAll, domain.ResourceUsers,
		identity.UserID.String(), nil, nil, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "all sessions revoked"})
}

// Me returns the caller's projection straight from the resolved identity.
// GET /v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())
	httputil.JSON(w, http.StatusOK, domain.UserProjection{
		ID:            identity.UserID,
		Username:      identity.Username,
		Email:         identity.Email,
		Role:          identity.Role,
		EmailVerified: identity.EmailVerified,
	})
}
