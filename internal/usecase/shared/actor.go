package shared

import (
	"rental-booking/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// MayManage reports whether the actor can act on a resource owned by ownerID.
// The payments service acts on behalf of every guest.
func (a Actor) MayManage(ownerID uuid.UUID) bool {
	return a.Role == user.RolePayments || a.ID == ownerID
}
