// Package tournaments exposes tournament CRUD endpoints.
package tournaments

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/internal/http/middleware"
	"github.com/arenaops/arenad/internal/httputil"
	"github.com/arenaops/arenad/pkg/audit"
	"github.com/arenaops/arenad/pkg/auth"
	"github.com/arenaops/arenad/pkg/domain"
)

// Store is the tournament persistence surface this feature needs.
type Store interface {
	Create(ctx context.Context, t *domain.Tournament) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tournament, error)
	List(ctx context.Context, status string, limit, offset int) ([]*domain.Tournament, int, error)
	Update(ctx context.Context, id uuid.UUID, name, game string, maxTeams int, startDate time.Time, endDate *time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.TournamentStatus) error
}

// Handler handles tournament endpoints.
type Handler struct {
	logger      *slog.Logger
	tournaments Store
	recorder    *audit.Recorder
}

// NewHandler creates a new tournaments handler.
func NewHandler(logger *slog.Logger, tournaments Store, recorder *audit.Recorder) *Handler {
	return &Handler{logger: logger, tournaments: tournaments, recorder: recorder}
}

// UpsertRequest carries the writable tournament fields.
type UpsertRequest struct {
	Name      string     `json:"name"`
	Game      string     `json:"game"`
	MaxTeams  int        `json:"max_teams"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

func (req *UpsertRequest) validate() (string, bool) {
	req.Name = auth.SanitizeName(req.Name)
	req.Game = auth.SanitizeName(req.Game)
	if len(req.Name) < 3 || len(req.Name) > 100 {
		return "tournament name must be 3-100 characters", false
	}
	if req.Game == "" {
		return "game is required", false
	}
	if req.MaxTeams < 2 || req.MaxTeams > 128 {
		return "max_teams must be between 2 and 128", false
	}
	if req.StartDate.IsZero() {
		return "start_date is required", false
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return "end_date must follow start_date", false
	}
	return "", true
}

// Create opens a new draft tournament owned by the caller.
// POST /v1/tournaments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	var req UpsertRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	if msg, ok := req.validate(); !ok {
		httputil.Error(w, http.StatusBadRequest, msg, httputil.CodeValidation)
		return
	}

	t := &domain.Tournament{
		ID:        uuid.New(),
		Name:      req.Name,
		Game:      req.Game,
		MaxTeams:  req.MaxTeams,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedBy: identity.UserID,
	}
	if err := h.tournaments.Create(r.Context(), t); err != nil {
		httputil.DomainError(w, err)
		return
	}
	t.CreatorUsername = identity.Username

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditCreate, domain.ResourceTournaments,
		t.ID.String(), nil, t, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusCreated, t)
}

// List returns a page of tournaments, optionally filtered by status.
// GET /v1/tournaments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !domain.TournamentStatus(status).Valid() {
		httputil.Error(w, http.StatusBadRequest, "unknown status filter", httputil.CodeValidation)
		return
	}
	page := httputil.ParsePage(r)
	tournaments, total, err := h.tournaments.List(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.Paginated(w, tournaments, total, page)
}

// Get returns a single tournament.
// GET /v1/tournaments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTournament(w, r)
	if !ok {
		return
	}
	httputil.JSON(w, http.StatusOK, t)
}

// Update edits a tournament. Creator or admin only, existence first.
// PUT /v1/tournaments/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	t, ok := h.loadTournament(w, r)
	if !ok {
		return
	}
	if err := auth.AuthorizeOwner(identity, t.CreatedBy); err != nil {
		httputil.DomainError(w, err)
		return
	}

	var req UpsertRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	if msg, ok := req.validate(); !ok {
		httputil.Error(w, http.StatusBadRequest, msg, httputil.CodeValidation)
		return
	}

	before := *t
	if err := h.tournaments.Update(r.Context(), t.ID, req.Name, req.Game, req.MaxTeams, req.StartDate, req.EndDate); err != nil {
		httputil.DomainError(w, err)
		return
	}

	t.Name, t.Game, t.MaxTeams, t.StartDate, t.EndDate = req.Name, req.Game, req.MaxTeams, req.StartDate, req.EndDate

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditUpdate, domain.ResourceTournaments,
		t.ID.String(), before, t, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, t)
}

// StatusRequest carries a lifecycle transition.
type StatusRequest struct {
	Status domain.TournamentStatus `json:"status"`
}

// SetStatus transitions the tournament lifecycle.
// PUT /v1/tournaments/{id}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	t, ok := h.loadTournament(w, r)
	if !ok {
		return
	}
	if err := auth.AuthorizeOwner(identity, t.CreatedBy); err != nil {
		httputil.DomainError(w, err)
		return
	}

	var req StatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || !req.Status.Valid() {
		httputil.Error(w, http.StatusBadRequest, "status must be draft, active, completed or cancelled", httputil.CodeValidation)
		return
	}

	if err := h.tournaments.SetStatus(r.Context(), t.ID, req.Status); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditUpdate, domain.ResourceTournaments,
		t.ID.String(), map[string]any{"status": t.Status}, map[string]any{"status": req.Status}, httputil.ClientIP(r))

	t.Status = req.Status
	httputil.JSON(w, http.StatusOK, t)
}

// Delete cancels a tournament. Rows are kept so match history and audit
// references stay resolvable.
// DELETE /v1/tournaments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	t, ok := h.loadTournament(w, r)
	if !ok {
		return
	}
	if err := auth.AuthorizeOwner(identity, t.CreatedBy); err != nil {
		httputil.DomainError(w, err)
		return
	}

	if err := h.tournaments.SetStatus(r.Context(), t.ID, domain.TournamentCancelled); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditCancel, domain.ResourceTournaments,
		t.ID.String(), map[string]any{"status": t.Status}, map[string]any{"status": domain.TournamentCancelled}, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "tournament cancelled"})
}

func (h *Handler) loadTournament(w http.ResponseWriter, r *http.Request) (*domain.Tournament, bool) {
	id, err := httputil.URLParamUUID(r, "id")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid tournament id", httputil.CodeBadRequest)
		return nil, false
	}
	t, err := h.tournaments.GetByID(r.Context(), id)
	if err != nil {
		httputil.DomainError(w, err)
		return nil, false
	}
	return t, true
}
