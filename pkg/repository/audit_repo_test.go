package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenaops/arenad/pkg/domain"
)

func TestAuditRepository_Insert(t *testing.T) {
	t.Run("full entry", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAuditRepository(db)

		actorID := uuid.New()
		entry := &domain.AuditEntry{
			ActorID:      &actorID,
			Action:       domain.AuditUpdate,
			ResourceType: domain.ResourceTeams,
			ResourceID:   uuid.NewString(),
			OldValues:    json.RawMessage(`{"name":"old"}`),
			NewValues:    json.RawMessage(`{"name":"new"}`),
			IP:           "203.0.113.7",
		}
		mock.ExpectExec("INSERT INTO audit_logs").
			WithArgs(entry.ActorID, entry.Action, entry.ResourceType, entry.ResourceID,
				[]byte(entry.OldValues), []byte(entry.NewValues), entry.IP).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Insert(context.Background(), entry))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil actor and snapshots become NULL", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAuditRepository(db)

		entry := &domain.AuditEntry{
			Action:       domain.AuditDelete,
			ResourceType: domain.ResourceUsers,
			ResourceID:   uuid.NewString(),
		}
		mock.ExpectExec("INSERT INTO audit_logs").
			WithArgs(nil, entry.Action, entry.ResourceType, entry.ResourceID, nil, nil, "").
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Insert(context.Background(), entry))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuditRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAuditRepository(db)

	actorID := uuid.New()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_logs`).
		WithArgs("UPDATE", "teams").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM audit_logs").
		WithArgs("UPDATE", "teams", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "action", "resource_type", "resource_id",
			"old_values", "new_values", "ip", "created_at",
		}).AddRow(int64(1), &actorID, "UPDATE", "teams", uuid.NewString(),
			[]byte(`{}`), []byte(`{}`), "203.0.113.7", time.Now()))

	entries, total, err := repo.List(context.Background(), "UPDATE", "teams", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditUpdate, entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
