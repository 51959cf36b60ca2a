package auth

import (
	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

// Authorize checks that the identity holds one of the allowed roles. An
// empty allow list means any authenticated identity passes.
func Authorize(identity *domain.Identity, allowed ...domain.Role) error {
	if identity == nil {
		return domain.ErrTokenMissing
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return domain.ErrForbidden
}

// AuthorizeOwner checks that the identity owns the resource. Admins
// bypass ownership. Callers must resolve the resource first so a missing
// resource reads as not found rather than forbidden.
func AuthorizeOwner(identity *domain.Identity, ownerID uuid.UUID) error {
	if identity == nil {
		return domain.ErrTokenMissing
	}
	if identity.IsAdmin() {
		return nil
	}
	if identity.UserID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
