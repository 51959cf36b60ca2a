package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arenaops/arenad/internal/config"
	"github.com/arenaops/arenad/internal/http/features/admin"
	"github.com/arenaops/arenad/internal/http/features/authn"
	"github.com/arenaops/arenad/internal/http/features/leaderboard"
	"github.com/arenaops/arenad/internal/http/features/matches"
	"github.com/arenaops/arenad/internal/http/features/scheduling"
	"github.com/arenaops/arenad/internal/http/features/teams"
	"github.com/arenaops/arenad/internal/http/features/tournaments"
	"github.com/arenaops/arenad/internal/http/features/users"
	"github.com/arenaops/arenad/internal/http/middleware"
	"github.com/arenaops/arenad/internal/httputil"
	"github.com/arenaops/arenad/pkg/audit"
	"github.com/arenaops/arenad/pkg/auth"
	"github.com/arenaops/arenad/pkg/domain"
	"github.com/arenaops/arenad/pkg/repository"
)

// RouterConfig holds everything the router needs to wire the features.
type RouterConfig struct {
	Logger          *slog.Logger
	Config          *config.Config
	PasswordService *auth.PasswordService
	SessionService  *auth.SessionService
	Recorder        *audit.Recorder

	Users       *repository.UsersRepository
	Teams       *repository.TeamsRepository
	Tournaments *repository.TournamentsRepository
	Matches     *repository.MatchesRepository
	Attempts    *repository.LoginAttemptsRepository
	Audits      *repository.AuditRepository
	Leaderboard *repository.LeaderboardRepository
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestSizeLimit(cfg.Config.MaxRequestBodyBytes))
	r.Use(middleware.RateLimit(cfg.Config.RateLimitPerMinute, time.Minute, cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(cfg.SessionService)
	optionalAuth := middleware.OptionalAuth(cfg.SessionService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	authnHandler := authn.NewHandler(cfg.Logger, cfg.PasswordService, cfg.SessionService, cfg.Recorder)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.Config.LoginRatePerMinute, time.Minute, cfg.Logger))
		r.Post("/v1/auth/register", authnHandler.Register)
		r.Post("/v1/auth/login", authnHandler.Login)
	})
	r.Post("/v1/auth/refresh", authnHandler.Refresh)
	r.Post("/v1/auth/logout", authnHandler.Logout)
	r.With(requireAuth).Post("/v1/auth/logout/all", authnHandler.LogoutAll)
	r.With(requireAuth).Get("/v1/auth/me", authnHandler.Me)

	usersHandler := users.NewHandler(cfg.Logger, cfg.Users, cfg.PasswordService, cfg.SessionService, cfg.Recorder)
	adminHandler := admin.NewHandler(cfg.Logger, cfg.Users, cfg.Audits, cfg.Attempts, cfg.Matches,
		cfg.Leaderboard, cfg.SessionService, cfg.Recorder)
	r.Route("/v1/users", func(r chi.Router) {
		r.Route("/profile", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", usersHandler.Profile)
			r.Put("/", usersHandler.UpdateProfile)
			r.Put("/password", usersHandler.ChangePassword)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, adminOnly, middleware.RequireVerified)
			r.Get("/", adminHandler.ListUsers)
			r.Get("/{id}", adminHandler.GetUser)
			r.Put("/{id}", adminHandler.UpdateUser)
			r.Put("/{id}/lock", adminHandler.SetUserLock)
			r.Delete("/{id}", adminHandler.DeleteUser)
		})
	})

	teamsHandler := teams.NewHandler(cfg.Logger, cfg.Teams, cfg.Recorder)
	r.Route("/v1/teams", func(r chi.Router) {
		r.With(optionalAuth).Get("/", teamsHandler.List)
		r.With(optionalAuth).Get("/{id}", teamsHandler.Get)
		r.With(optionalAuth).Get("/{id}/members", teamsHandler.Members)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", teamsHandler.Create)
			r.Put("/{id}", teamsHandler.Update)
			r.Delete("/{id}", teamsHandler.Delete)
			r.Post("/{id}/join", teamsHandler.Join)
			r.Put("/{id}/members/{userID}", teamsHandler.MemberAction)
		})
	})

	tournamentsHandler := tournaments.NewHandler(cfg.Logger, cfg.Tournaments, cfg.Recorder)
	schedulingHandler := scheduling.NewHandler(cfg.Logger, cfg.Matches, cfg.Tournaments, cfg.Teams, cfg.Recorder)
	r.Route("/v1/tournaments", func(r chi.Router) {
		r.With(optionalAuth).Get("/", tournamentsHandler.List)
		r.With(optionalAuth).Get("/{id}", tournamentsHandler.Get)
		r.With(optionalAuth).Get("/{id}/schedule", schedulingHandler.Schedule)
		r.With(requireAuth, middleware.RequireRole(domain.RoleCaptain, domain.RoleAdmin)).
			Post("/", tournamentsHandler.Create)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/{id}", tournamentsHandler.Update)
			r.Put("/{id}/status", tournamentsHandler.SetStatus)
			r.Delete("/{id}", tournamentsHandler.Delete)
		})
		r.With(requireAuth, adminOnly).Post("/{id}/generate-matches", schedulingHandler.Generate)
	})

	matchesHandler := matches.NewHandler(cfg.Logger, cfg.Matches, cfg.Tournaments, cfg.Teams, cfg.Recorder)
	r.Route("/v1/matches", func(r chi.Router) {
		r.With(optionalAuth).Get("/", matchesHandler.List)
		r.With(optionalAuth).Get("/{id}", matchesHandler.Get)
		r.With(requireAuth).Put("/{id}/result", matchesHandler.SubmitResult)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, adminOnly)
			r.Post("/", matchesHandler.Create)
			r.Put("/{id}", matchesHandler.Reschedule)
			r.Put("/{id}/verify", matchesHandler.Verify)
		})
	})

	leaderboardHandler := leaderboard.NewHandler(cfg.Logger, cfg.Leaderboard)
	r.Route("/v1/leaderboard", func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/teams", leaderboardHandler.Teams)
		r.Get("/players", leaderboardHandler.Players)
		r.Get("/stats", leaderboardHandler.Stats)
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(requireAuth, adminOnly, middleware.RequireVerified)
		r.Get("/audit-logs", adminHandler.AuditLogs)
		r.Get("/login-attempts", adminHandler.LoginAttempts)
		r.Get("/matches/pending", adminHandler.PendingMatches)
		r.Get("/stats", adminHandler.Stats)
	})

	return r
}
