package repository

import (
	"context"
	"database/sql"

	"github.com/arenaops/arenad/pkg/domain"
)

// AuditRepository handles the append-only audit log. The application never
// updates or deletes entries; retention is an operational concern.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends one audit entry.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, old_values, new_values, ip)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ActorID, entry.Action, entry.ResourceType, entry.ResourceID,
		nullableJSON(entry.OldValues), nullableJSON(entry.NewValues), entry.IP,
	)
	return err
}

// List returns a page of audit entries, newest first, optionally filtered
// by action and resource type.
func (r *AuditRepository) List(ctx context.Context, action, resourceType string, limit, offset int) ([]*domain.AuditEntry, int, error) {
	where := ` WHERE ($1 = '' OR action = $1) AND ($2 = '' OR resource_type = $2)`

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_logs`+where, action, resourceType).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, action, resource_type, resource_id, old_values, new_values, ip, created_at
		FROM audit_logs` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, query, action, resourceType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		e := &domain.AuditEntry{}
		err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.ResourceType, &e.ResourceID,
			&e.OldValues, &e.NewValues, &e.IP, &e.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// nullableJSON maps empty snapshots to SQL NULL rather than empty strings.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
