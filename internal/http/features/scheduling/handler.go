// Package scheduling exposes bracket generation and the tournament
// schedule view.
package scheduling

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

// Generation starts a day out so teams get notice.
const generationLeadTime = 24 * time.Hour

// MatchStore is the match persistence surface this feature needs.
type MatchStore interface {
	CreateBatch(ctx context.Context, matches []*domain.Match) error
	CountByTournament(ctx context.Context, tournamentID uuid.UUID) (int, error)
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*domain.Match, error)
}

// TournamentStore resolves tournaments.
type TournamentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tournament, error)
}

// TeamStore lists the teams eligible for a bracket.
type TeamStore interface {
	ActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// Handler handles scheduling endpoints.
type Handler struct {
	logger      *slog.Logger
	matches     MatchStore
	tournaments TournamentStore
	teams       TeamStore
	recorder    *audit.Recorder
}

// NewHandler creates a new scheduling handler.
func NewHandler(logger *slog.Logger, matches MatchStore, tournaments TournamentStore, teams TeamStore, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:      logger,
		matches:     matches,
		tournaments: tournaments,
		teams:       teams,
		recorder:    recorder,
	}
}

// GenerateRequest selects the bracket shape.
type GenerateRequest struct {
	BracketType string `json:"bracket_type"`
}

// Generate builds the opening bracket for an active tournament. Admin
// only. Fails if any matches already exist.
// POST /v1/tournaments/{id}/generate-matches
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustIdentity(r.Context())

	id, err := httputil.URLParamUUID(r, "id")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid tournament id", httputil.CodeBadRequest)
		return
	}

	var req GenerateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body", httputil.CodeBadRequest)
		return
	}
	if req.BracketType == "" {
		req.BracketType = BracketSingleElimination
	}

	tournament, err := h.tournaments.GetByID(r.Context(), id)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	if tournament.Status != domain.TournamentActive {
		httputil.DomainError(w, domain.ErrTournamentNotActive)
		return
	}

	existing, err := h.matches.CountByTournament(r.Context(), tournament.ID)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	if existing > 0 {
		httputil.DomainError(w, domain.ErrMatchesExist)
		return
	}

	teamIDs, err := h.teams.ActiveIDs(r.Context(), tournament.MaxTeams)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	start := time.Now().Add(generationLeadTime)
	matches, err := GenerateBracket(req.BracketType, tournament.ID, teamIDs, start)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	if err := h.matches.CreateBatch(r.Context(), matches); err != nil {
		httputil.DomainError(w, err)
		return
	}

	h.recorder.Record(r.Context(), &identity.UserID, domain.AuditGenerateMatches, domain.ResourceTournaments,
		tournament.ID.String(), nil,
		map[string]any{
			"bracket_type":      req.BracketType,
			"matches_generated": len(matches),
			"teams_count":       len(teamIDs),
		},
		httputil.ClientIP(r))

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"message":           "matches generated",
		"bracket_type":      req.BracketType,
		"matches_generated": len(matches),
	})
}

// Schedule returns a tournament's matches grouped by day.
// GET /v1/tournaments/{id}/schedule
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamUUID(r, "id")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid tournament id", httputil.CodeBadRequest)
		return
	}

	tournament, err := h.tournaments.GetByID(r.Context(), id)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	matches, err := h.matches.ListByTournament(r.Context(), tournament.ID)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"tournament_id": tournament.ID,
		"matches":       matches,
		"schedule":      GroupByDay(matches),
	})
}
