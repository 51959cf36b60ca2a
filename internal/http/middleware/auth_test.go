package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/auth"
	"github.com/arenaops/arenad/pkg/domain"
)

type stubUserStore struct{ user *domain.User }

func (s *stubUserStore) Create(ctx context.Context, user *domain.User) error { return nil }
func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, domain.ErrUserNotFound
}
func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (s *stubUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}
func (s *stubUserStore) RecordFailedLogin(ctx context.Context, userID uuid.UUID, threshold int) error {
	return nil
}
func (s *stubUserStore) RecordSuccessfulLogin(ctx context.Context, userID uuid.UUID) error {
	return nil
}
func (s *stubUserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	return nil
}

type stubSessionStore struct{ sessions map[uuid.UUID]*domain.Session }

func (s *stubSessionStore) Create(ctx context.Context, session *domain.Session) error {
	s.sessions[session.ID] = session
	return nil
}
func (s *stubSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionNotFound
}
func (s *stubSessionStore) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}
func (s *stubSessionStore) Revoke(ctx context.Context, id uuid.UUID) error {
	if sess, ok := s.sessions[id]; ok {
		now := time.Now()
		sess.RevokedAt = &now
		return nil
	}
	return domain.ErrSessionNotFound
}
func (s *stubSessionStore) RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error { return nil }

func guardFixture(t *testing.T) (*auth.SessionService, *domain.User, *stubSessionStore) {
	t.Helper()
	user := &domain.User{
		ID:            uuid.New(),
		Username:      "fennec",
		Email:         "fennec@example.com",
		Role:          domain.RoleCaptain,
		EmailVerified: true,
	}
	sessions := &stubSessionStore{sessions: make(map[uuid.UUID]*domain.Session)}
	svc := auth.NewSessionService(auth.SessionConfig{
		JWTSecret: []byte("middleware-test-secret-0123456789"),
	}, sessions, &stubUserStore{user: user})
	return svc, user, sessions
}

func protected(svc *auth.SessionService) http.Handler {
	return RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := MustIdentity(r.Context())
		w.Write([]byte(identity.Username))
	}))
}

func TestRequireAuth(t *testing.T) {
	svc, user, sessions := guardFixture(t)
	handler := protected(svc)

	pair, err := svc.IssueSession(context.Background(), user, "203.0.113.7", "test")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	t.Run("valid token passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		if rec.Body.String() != user.Username {
			t.Errorf("body = %q", rec.Body)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assertErrorCode(t, rec, http.StatusUnauthorized, "TOKEN_MISSING")
	})

	t.Run("malformed scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token "+pair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assertErrorCode(t, rec, http.StatusUnauthorized, "TOKEN_MISSING")
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer junk")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assertErrorCode(t, rec, http.StatusUnauthorized, "TOKEN_INVALID")
	})

	t.Run("revoked session", func(t *testing.T) {
		revokedPair, err := svc.IssueSession(context.Background(), user, "", "")
		if err != nil {
			t.Fatal(err)
		}
		for id := range sessions.sessions {
			if sessions.sessions[id].RevokedAt == nil && sessions.sessions[id].TokenHash == auth.HashToken(revokedPair.RefreshToken) {
				sessions.Revoke(context.Background(), id)
			}
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+revokedPair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assertErrorCode(t, rec, http.StatusUnauthorized, "SESSION_INVALID")
	})

	t.Run("locked account", func(t *testing.T) {
		user.AccountLocked = true
		defer func() { user.AccountLocked = false }()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assertErrorCode(t, rec, http.StatusForbidden, "ACCOUNT_LOCKED")
	})
}

func TestRequireRole(t *testing.T) {
	svc, user, _ := guardFixture(t)
	pair, err := svc.IssueSession(context.Background(), user, "", "")
	if err != nil {
		t.Fatal(err)
	}

	adminOnly := RequireAuth(svc)(RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)

	assertErrorCode(t, rec, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS")
}

func TestOptionalAuth(t *testing.T) {
	svc, user, _ := guardFixture(t)

	handler := OptionalAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := GetIdentity(r.Context()); ok {
			w.Write([]byte(identity.Username))
			return
		}
		w.Write([]byte("anonymous"))
	}))

	t.Run("no token proceeds anonymously", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
			t.Fatalf("status = %d, body = %q", rec.Code, rec.Body)
		}
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		pair, err := svc.IssueSession(context.Background(), user, "", "")
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Body.String() != user.Username {
			t.Errorf("body = %q, want %q", rec.Body, user.Username)
		}
	})

	t.Run("bad token proceeds anonymously", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer junk")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
			t.Fatalf("status = %d, body = %q", rec.Code, rec.Body)
		}
	})
}

func TestRequireVerified(t *testing.T) {
	svc, user, _ := guardFixture(t)

	handler := RequireAuth(svc)(RequireVerified(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	pair, err := svc.IssueSession(context.Background(), user, "", "")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("verified passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("unverified blocked here only", func(t *testing.T) {
		user.EmailVerified = false
		defer func() { user.EmailVerified = true }()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assertErrorCode(t, rec, http.StatusForbidden, "EMAIL_NOT_VERIFIED")

		// The same token still clears the plain guard.
		rec = httptest.NewRecorder()
		protected(svc).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("plain guard status = %d, body %s", rec.Code, rec.Body)
		}
	})
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, wantStatus, rec.Body)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body, err)
	}
	if body.Code != wantCode {
		t.Errorf("code = %q, want %q", body.Code, wantCode)
	}
}
