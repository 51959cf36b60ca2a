// Package audit records who did what to which entity. Recording is
// strictly best-effort: a failed write is logged and dropped, never
// surfaced to the operation being audited.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

// Store persists audit entries. *repository.AuditRepository satisfies it.
type Store interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// Recorder writes audit entries through a Store.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder creates a new audit recorder.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record appends one audit entry. oldValues and newValues are marshaled
// to JSON; nil snapshots are stored as NULL. Errors anywhere in the path
// are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, actorID *uuid.UUID, action, resourceType, resourceID string, oldValues, newValues any, ip string) {
	entry := &domain.AuditEntry{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IP:           ip,
	}

	var err error
	if entry.OldValues, err = marshalSnapshot(oldValues); err != nil {
		r.logger.Error("audit: failed to marshal old values", "action", action, "resource", resourceType, "error", err)
	}
	if entry.NewValues, err = marshalSnapshot(newValues); err != nil {
		r.logger.Error("audit: failed to marshal new values", "action", action, "resource", resourceType, "error", err)
	}

	if err := r.store.Insert(ctx, entry); err != nil {
		r.logger.Error("audit: failed to record entry",
			"action", action, "resource", resourceType, "resource_id", resourceID, "error", err)
	}
}

func marshalSnapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
