// Package teams exposes team CRUD and roster management.
package teams

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

// Store is the team persistence surface this feature needs.
type Store interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Team, int, error)
	Update(ctx context.Context, id uuid.UUID, name string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Members(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error)
	MemberStatus(ctx context.Context, teamID, userID uuid.UUID) (string, error)
	RequestJoin(ctx context.Context, teamID, userID uuid.UUID) error
	ApproveMember(ctx context.Context, teamID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

// Handler handles team endpoints.
type Handler struct {
	logger   *slog.Logger
	teams    Store
	recorder *audit.Recorder
}

// NewHandler creates a new teams handler.
func NewHandler(logger *slog.Logger, teams Store, recorder *audit.Recorder) *Handler {
	return &Handler{logger: logger, teams: teams, recorder: recorder}
}

// CreateRequest carries the new team's name.
type CreateRequest struct {
	Name string `json:"name"`
}

// Create makes the caller captain of a new team.
// POST /v1/teams
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	req.Name = auth.SanitizeName(req.Name)
	if len(req.Name) < 3 || len(req.Name) > 50 {
		httputil.Error(w, http.StatusBadRequest, "team name must be 3-50 characters", httputil.CodeValidation)
		return
	}

	team := &domain.Team{
		ID:        uuid.New(),
		Name:      req.Name,
		CaptainID: identity.UserID,
	}
	if err := h.teams.Create(r.Context(), team); err != nil {
		httputil.DomainError(w, err)
		return
	}
	team.CaptainUsername = identity.Username
	team.MemberCount = 1

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditCreate, domain.ResourceTeams,
		team.ID.String(), nil, team, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusCreated, team)
}

// List returns a page of active teams.
// GET /v1/teams
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r)
	teams, total, err := h.teams.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.Paginated(w, teams, total, page)
}

// Get returns a single team.
// GET /v1/teams/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	team, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	httputil.JSON(w, http.StatusOK, team)
}

// Members returns the team roster.
// GET /v1/teams/{id}/members
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	team, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	members, err := h.teams.Members(r.Context(), team.ID)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"team_id": team.ID, "members": members})
}

// Update renames a team. Existence is checked before ownership so
// strangers probing random IDs see 404, not 403.
// PUT /v1/teams/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	team, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if err := auth.AuthorizeOwner(identity, team.CaptainID); err != nil {
		httputil.DomainError(w, err)
		return
	}

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	req.Name = auth.SanitizeName(req.Name)
	if len(req.Name) < 3 || len(req.Name) > 50 {
		httputil.Error(w, http.StatusBadRequest, "team name must be 3-50 characters", httputil.CodeValidation)
		return
	}

	before := map[string]string{"name": team.Name}
	if err := h.teams.Update(r.Context(), team.ID, req.Name); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditUpdate, domain.ResourceTeams,
		team.ID.String(), before, map[string]string{"name": req.Name}, httputil.ClientIP(r))

	team.Name = req.Name
	httputil.JSON(w, http.StatusOK, team)
}

// Delete soft-deletes a team.
// DELETE /v1/teams/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	team, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if err := auth.AuthorizeOwner(identity, team.CaptainID); err != nil {
		httputil.DomainError(w, err)
		return
	}

	if err := h.teams.Deactivate(r.Context(), team.ID); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditDelete, domain.ResourceTeams,
		team.ID.String(), team, nil, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "team deleted"})
}

// Join files a pending membership request for the caller.
// POST /v1/teams/{id}/join
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	team, ok := h.loadTeam(w, r)
	if !ok {
		return
	}

	if status, err := h.teams.MemberStatus(r.Context(), team.ID, identity.UserID); err == nil {
		if status == domain.MemberActive {
			httputil.DomainError(w, domain.ErrAlreadyMember)
			return
		}
		httputil.DomainError(w, domain.ErrRequestPending)
		return
	}

	if err := h.teams.RequestJoin(r.Context(), team.ID, identity.UserID); err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]string{"message": "join request submitted"})
}

// MemberActionRequest selects what to do with a pending request.
type MemberActionRequest struct {
	Action string `json:"action"`
}

// MemberAction approves or rejects a pending join request, or removes an
// active member. Captain (or admin) only.
// PUT /v1/teams/{id}/members/{userID}
func (h *Handler) MemberAction(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	team, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if err := auth.AuthorizeOwner(identity, team.CaptainID); err != nil {
		httputil.DomainError(w, err)
		return
	}

	userID, err := httputil.URLParamUUID(r, "userID")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id", httputil.CodeBadRequest)
		return
	}

	var req MemberActionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}

	switch req.Action {
	case "approve":
		if err := h.teams.ApproveMember(r.Context(), team.ID, userID); err != nil {
			httputil.DomainError(w, err)
			return
		}
		h.recorder.Record(r.Context(), &identity.UserID, domain.AuditAddMember, domain.ResourceTeams,
			team.ID.String(), nil, map[string]string{"user_id": userID.String()}, httputil.ClientIP(r))
		httputil.JSON(w, http.StatusOK, map[string]string{"message": "member approved"})
	case "reject", "remove":
		if userID == team.CaptainID {
			httputil.Error(w, http.StatusUnprocessableEntity, "captain cannot be removed", httputil.CodeStateConflict)
			return
		}
		if err := h.teams.RemoveMember(r.Context(), team.ID, userID); err != nil {
			httputil.DomainError(w, err)
			return
		}
		h.recorder.Record(r.Context(), &identity.UserID, domain.AuditRemoveMember, domain.ResourceTeams,
			team.ID.String(), map[string]string{"user_id": userID.String()}, nil, httputil.ClientIP(r))
		httputil.JSON(w, http.StatusOK, map[string]string{"message": "member removed"})
	default:
		httputil.Error(w, http.StatusBadRequest, "action must be approve, reject or remove", httputil.CodeValidation)
	}
}

func (h *Handler) loadTeam(w http.ResponseWriter, r *http.Request) (*domain.Team, bool) {
	id, err := httputil.URLParamUUID(r, "id")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid team id", httputil.CodeBadRequest)
		return nil, false
	}
	team, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		httputil.DomainError(w, err)
		return nil, false
	}
	return team, true
}
