package ports

import (
	"context"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

// CredentialStore is the read path the authenticator uses plus the write path
// used by provisioning.
type CredentialStore interface {
	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// PasswordHasher hashes and verifies passwords. Verify is the only supported
// way to compare a plaintext against a stored digest.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
