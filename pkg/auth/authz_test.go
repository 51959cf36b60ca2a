package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

func TestAuthorize(t *testing.T) {
	player := &domain.Identity{UserID: uuid.New(), Role: domain.RolePlayer}
	admin := &domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

	tests := []struct {
		name     string
		identity *domain.Identity
		allowed  []domain.Role
		wantErr  error
	}{
		{name: "role in list", identity: player, allowed: []domain.Role{domain.RolePlayer, domain.RoleCaptain}},
		{name: "role not in list", identity: player, allowed: []domain.Role{domain.RoleAdmin}, wantErr: domain.ErrForbidden},
		{name: "admin must be listed too", identity: admin, allowed: []domain.Role{domain.RolePlayer}, wantErr: domain.ErrForbidden},
		{name: "empty list allows any identity", identity: player},
		{name: "nil identity", identity: nil, allowed: []domain.Role{domain.RolePlayer}, wantErr: domain.ErrTokenMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.identity, tt.allowed...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authorize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizeOwner(t *testing.T) {
	ownerID := uuid.New()
	owner := &domain.Identity{UserID: ownerID, Role: domain.RoleCaptain}
	stranger := &domain.Identity{UserID: uuid.New(), Role: domain.RoleCaptain}
	admin := &domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

	tests := []struct {
		name     string
		identity *domain.Identity
		wantErr  error
	}{
		{name: "owner allowed", identity: owner},
		{name: "non-owner forbidden", identity: stranger, wantErr: domain.ErrForbidden},
		{name: "admin bypasses ownership", identity: admin},
		{name: "nil identity", identity: nil, wantErr: domain.ErrTokenMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeOwner(tt.identity, ownerID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AuthorizeOwner() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
