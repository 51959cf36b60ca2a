// Package matches exposes match CRUD and the result settlement flow.
package matches

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/internal/http/middleware"
	"github.com/arenaops/arenad/internal/httputil"
	"github.com/arenaops/arenad/pkg/audit"
	"github.com/arenaops/arenad/pkg/domain"
)

// Store is the match persistence surface this feature needs.
type Store interface {
	Create(ctx context.Context, m *domain.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	List(ctx context.Context, tournamentID *uuid.UUID, limit, offset int) ([]*domain.Match, int, error)
	Reschedule(ctx context.Context, id uuid.UUID, scheduledTime time.Time) error
	SubmitResult(ctx context.Context, id uuid.UUID, score1, score2 int, submittedBy uuid.UUID) error
	Verify(ctx context.Context, id uuid.UUID, status domain.MatchStatus, verifiedBy uuid.UUID) error
}

// TournamentStore resolves the tournament a match belongs to.
type TournamentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tournament, error)
}

// TeamStore resolves team captaincy for result submission.
type TeamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
}

// Handler handles match endpoints.
type Handler struct {
	logger      *slog.Logger
	matches     Store
	tournaments TournamentStore
	teams       TeamStore
	recorder    *audit.Recorder
}

// NewHandler creates a new matches handler.
func NewHandler(logger *slog.Logger, matches Store, tournaments TournamentStore, teams TeamStore, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:      logger,
		matches:     matches,
		tournaments: tournaments,
		teams:       teams,
		recorder:    recorder,
	}
}

// CreateRequest carries a manually scheduled pairing.
type CreateRequest struct {
	TournamentID  uuid.UUID `json:"tournament_id"`
	Team1ID       uuid.UUID `json:"team1_id"`
	Team2ID       uuid.UUID `json:"team2_id"`
	Round         int       `json:"round"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// Create schedules a single match by hand. Admin only; the tournament
// must be active.
// POST /v1/matches
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	if req.Team1ID == req.Team2ID {
		httputil.Error(w, http.StatusBadRequest, "a team cannot play itself", httputil.CodeValidation)
		return
	}
	if req.ScheduledTime.IsZero() {
		httputil.Error(w, http.StatusBadRequest, "scheduled_time is required", httputil.CodeValidation)
		return
	}

	tournament, err := h.tournaments.GetByID(r.Context(), req.TournamentID)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	if tournament.Status != domain.TournamentActive {
		httputil.DomainError(w, domain.ErrTournamentNotActive)
		return
	}
	for _, teamID := range []uuid.UUID{req.Team1ID, req.Team2ID} {
		if _, err := h.teams.GetByID(r.Context(), teamID); err != nil {
			httputil.DomainError(w, err)
			return
		}
	}

	round := req.Round
	if round < 1 {
		round = 1
	}
	m := &domain.Match{
		ID:            uuid.New(),
		TournamentID:  req.TournamentID,
		Round:         round,
		Team1ID:       req.Team1ID,
		Team2ID:       req.Team2ID,
		ScheduledTime: req.ScheduledTime,
	}
	if err := h.matches.Create(r.Context(), m); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditCreate, domain.ResourceMatches,
		m.ID.String(), nil, m, httputil.ClientIP(r))

	httputil.JSON(w, http.StatusCreated, m)
}

// List returns a page of matches, optionally filtered by tournament.
// GET /v1/matches
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var tournamentID *uuid.UUID
	if raw := r.URL.Query().Get("tournament_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid tournament_id", httputil.CodeBadRequest)
			return
		}
		tournamentID = &id
	}
	page := httputil.ParsePage(r)
	matches, total, err := h.matches.List(r.Context(), tournamentID, page.Limit, page.Offset)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.Paginated(w, matches, total, page)
}

// Get returns a single match.
// GET /v1/matches/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}
	httputil.JSON(w, http.StatusOK, m)
}

// RescheduleRequest carries the new start time.
type RescheduleRequest struct {
	ScheduledTime time.Time `json:"scheduled_time"`
}

// Reschedule moves a match. Admin only.
// PUT /v1/matches/{id}
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || req.ScheduledTime.IsZero() {
		httputil.Error(w, http.StatusBadRequest, "scheduled_time is required", httputil.CodeValidation)
		return
	}

	if err := h.matches.Reschedule(r.Context(), m.ID, req.ScheduledTime); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditUpdate, domain.ResourceMatches,
		m.ID.String(),
		map[string]any{"scheduled_time": m.ScheduledTime},
		map[string]any{"scheduled_time": req.ScheduledTime},
		httputil.ClientIP(r))

	m.ScheduledTime = req.ScheduledTime
	httputil.JSON(w, http.StatusOK, m)
}

// ResultRequest carries a submitted score pair.
type ResultRequest struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

// SubmitResult records scores pending verification. Captains may submit
// only for matches their own team plays; admins for any match.
// PUT /v1/matches/{id}/result
func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}

	var req ResultRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || req.Score1 == nil || req.Score2 == nil {
		httputil.Error(w, http.StatusBadRequest, "score1 and score2 are required", httputil.CodeValidation)
		return
	}
	if *req.Score1 < 0 || *req.Score2 < 0 {
		httputil.Error(w, http.StatusBadRequest, "scores must be non-negative", httputil.CodeValidation)
		return
	}

	if !identity.IsAdmin() {
		captains, err := h.captainOfEither(r.Context(), m, identity.UserID)
		if err != nil {
			httputil.DomainError(w, err)
			return
		}
		if !captains {
			httputil.DomainError(w, domain.ErrForbidden)
			return
		}
	}

	if err := h.matches.SubmitResult(r.Context(), m.ID, *req.Score1, *req.Score2, identity.UserID); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditSubmitResult, domain.ResourceMatches,
		m.ID.String(),
		map[string]any{"score1": m.Score1, "score2": m.Score2, "status": m.Status},
		map[string]any{"score1": *req.Score1, "score2": *req.Score2, "status": domain.MatchInProgress},
		httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "result submitted, awaiting verification"})
}

// VerifyRequest selects the settlement outcome.
type VerifyRequest struct {
	Action string `json:"action"`
}

// Verify settles a submitted result. Admin only; approve completes the
// match, dispute flags it.
// PUT /v1/matches/{id}/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}

	var req VerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}

	var target domain.MatchStatus
	switch req.Action {
	case "approve":
		target = domain.MatchCompleted
	case "dispute":
		target = domain.MatchDisputed
	default:
		httputil.Error(w, http.StatusBadRequest, "action must be approve or dispute", httputil.CodeValidation)
		return
	}

	if err := h.matches.Verify(r.Context(), m.ID, target, identity.UserID); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditVerifyResult, domain.ResourceMatches,
		m.ID.String(),
		map[string]any{"status": m.Status},
		map[string]any{"status": target},
		httputil.ClientIP(r))

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "match " + string(target)})
}

func (h *Handler) captainOfEither(ctx context.Context, m *domain.Match, userID uuid.UUID) (bool, error) {
	for _, teamID := range []uuid.UUID{m.Team1ID, m.Team2ID} {
		team, err := h.teams.GetByID(ctx, teamID)
		if err != nil {
			return false, err
		}
		if team.CaptainID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (h *Handler) loadMatch(w http.ResponseWriter, r *http.Request) (*domain.Match, bool) {
	id, err := httputil.URLParamUUID(r, "id")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid match id", httputil.CodeBadRequest)
		return nil, false
	}
	m, err := h.matches.GetByID(r.Context(), id)
	if err != nil {
		httputil.DomainError(w, err)
		return nil, false
	}
	return m, true
}
