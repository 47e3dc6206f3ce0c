//go:build unit || e2e

package authtest

import (
	"testing"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/pkg/config"
	"rental-booking/tests/common/dbtest"

	"github.com/google/uuid"
)

// CreateAndAuthenticate inserts a user row and returns its id with a valid
// bearer token. Login is handled outside this service, so tokens are minted
// directly.
func CreateAndAuthenticate(t *testing.T, db dbtest.DBLike, cfg config.JWTConfig, email string, role user.Role) (uuid.UUID, string) {
	t.Helper()
	userID := dbtest.CreateTestUser(t, db, email, role)
	return userID, NewJWTHelper(cfg).GenerateToken(t, userID, role)
}
