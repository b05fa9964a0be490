package auth

import (
	"context"

	"pairbook/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the handler code. Implementations
// must enforce the pair allow-list: only the two configured participants can
// ever hold an account.
type Authenticator interface {
	// Register creates a new account for an allow-listed email.
	// Returns ErrNotAllowed for any identity outside the pair.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
