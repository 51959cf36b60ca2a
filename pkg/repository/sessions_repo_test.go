package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenaops/arenad/pkg/domain"
)

func sessionRows(s *domain.Session) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "token_hash", "ip", "user_agent", "created_at", "expires_at", "revoked_at",
	}).AddRow(s.ID, s.UserID, s.TokenHash, s.IP, s.UserAgent, s.CreatedAt, s.ExpiresAt, s.RevokedAt)
}

func TestSessionsRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionsRepository(db)

		want := &domain.Session{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			TokenHash: "abc123",
			IP:        "203.0.113.7",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}
		mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id").
			WithArgs(want.ID).
			WillReturnRows(sessionRows(want))

		got, err := repo.GetByID(context.Background(), want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.True(t, got.IsValid())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionsRepository(db)

		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionsRepository_GetByTokenHash_SkipsRevoked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionsRepository(db)

	// The query filters revoked sessions; a revoked token behaves as absent.
	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE token_hash (.+) revoked_at IS NULL").
		WithArgs("deadbeef").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByTokenHash(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionsRepository_Revoke(t *testing.T) {
	t.Run("revokes once", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionsRepository(db)

		id := uuid.New()
		mock.ExpectExec("UPDATE sessions SET revoked_at").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Revoke(context.Background(), id))
	})

	t.Run("already revoked", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionsRepository(db)

		id := uuid.New()
		mock.ExpectExec("UPDATE sessions SET revoked_at").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Revoke(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionsRepository_DeleteExpired(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionsRepository(db)

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
