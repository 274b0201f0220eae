package ports

import (
	"context"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

// Authenticator verifies raw credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
}

// AuthService is the authenticator plus the provisioning path.
type AuthService interface {
	Authenticator
	CreateUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
}
