package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

type fakeStore struct {
	entries   []*domain.AuditEntry
	insertErr error
}

func (s *fakeStore) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func TestRecorder_Record(t *testing.T) {
	store := &fakeStore{}
	rec := NewRecorder(store, slog.New(slog.DiscardHandler))

	actorID := uuid.New()
	teamID := uuid.NewString()
	rec.Record(context.Background(), &actorID, domain.AuditUpdate, domain.ResourceTeams, teamID,
		map[string]string{"name": "old"}, map[string]string{"name": "new"}, "203.0.113.7")

	if len(store.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(store.entries))
	}
	entry := store.entries[0]
	if entry.Action != domain.AuditUpdate || entry.ResourceType != domain.ResourceTeams {
		t.Errorf("entry = %+v", entry)
	}
	var old map[string]string
	if err := json.Unmarshal(entry.OldValues, &old); err != nil || old["name"] != "old" {
		t.Errorf("old values = %s, err %v", entry.OldValues, err)
	}
}

func TestRecorder_Record_NilSnapshots(t *testing.T) {
	store := &fakeStore{}
	rec := NewRecorder(store, slog.New(slog.DiscardHandler))

	rec.Record(context.Background(), nil, domain.AuditDelete, domain.ResourceUsers, uuid.NewString(), nil, nil, "")

	if len(store.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(store.entries))
	}
	entry := store.entries[0]
	if entry.ActorID != nil || entry.OldValues != nil || entry.NewValues != nil {
		t.Errorf("nil inputs not preserved: %+v", entry)
	}
}

func TestRecorder_Record_StoreFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("connection refused")}
	rec := NewRecorder(store, slog.New(slog.DiscardHandler))

	// Must not panic or surface the error in any way.
	rec.Record(context.Background(), nil, domain.AuditCreate, domain.ResourceTeams, uuid.NewString(), nil, map[string]string{"name": "x"}, "")

	if len(store.entries) != 0 {
		t.Fatalf("entries = %d", len(store.entries))
	}
}
