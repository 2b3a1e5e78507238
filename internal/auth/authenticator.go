package auth

import (
	"context"

	"github.com/felipemaillo/finance-app/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (secrets, passkeys, OAuth, etc.)
// without changing the service layer code.
//
// Account creation is not part of this interface: joining a family goes
// through the family's shared-secret gate in the ledger.
type Authenticator interface {
	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
