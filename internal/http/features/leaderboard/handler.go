// Package leaderboard exposes read-only standings computed from
// completed matches.
package leaderboard

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/internal/httputil"
	"github.com/arenaops/arenad/pkg/domain"
)

const defaultLimit = 25

// Store is the standings query surface this feature needs.
type Store interface {
	TeamStandings(ctx context.Context, tournamentID *uuid.UUID, limit int) ([]*domain.TeamStanding, error)
	PlayerStandings(ctx context.Context, limit int) ([]*domain.PlayerStanding, error)
	GlobalStats(ctx context.Context) (*domain.GlobalStats, error)
}

// Handler handles leaderboard endpoints.
type Handler struct {
	logger    *slog.Logger
	standings Store
}

// NewHandler creates a new leaderboard handler.
func NewHandler(logger *slog.Logger, standings Store) *Handler {
	return &Handler{logger: logger, standings: standings}
}

// Teams returns team rankings, optionally scoped to one tournament.
// GET /v1/leaderboard/teams
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	var tournamentID *uuid.UUID
	if raw := r.URL.Query().Get("tournament_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid tournament_id", httputil.CodeBadRequest)
			return
		}
		tournamentID = &id
	}

	standings, err := h.standings.TeamStandings(r.Context(), tournamentID, limitParam(r))
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"standings": standings})
}

// Players returns per-user rankings aggregated over team memberships.
// GET /v1/leaderboard/players
func (h *Handler) Players(w http.ResponseWriter, r *http.Request) {
	standings, err := h.standings.PlayerStandings(r.Context(), limitParam(r))
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"standings": standings})
}

// Stats returns site-wide counts.
// GET /v1/leaderboard/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.standings.GlobalStats(r.Context())
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}

func limitParam(r *http.Request) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		return v
	}
	return defaultLimit
}
