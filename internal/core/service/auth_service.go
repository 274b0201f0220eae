package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

// AuthService verifies credentials against the credential store and
// provisions new users.
type AuthService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	log    zerolog.Logger

	// dummyDigest is verified against when the username is unknown so both
	// failure paths pay for one hash comparison.
	dummyDigest string
}

func NewAuthService(store ports.CredentialStore, hasher ports.PasswordHasher, log zerolog.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash("inventory-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("auth service: prepare dummy digest: %w", err)
	}
	return &AuthService{
		store:       store,
		hasher:      hasher,
		log:         log.With().Str("component", "auth").Logger(),
		dummyDigest: dummy,
	}, nil
}

// Authenticate resolves username and checks password against the stored
// digest. Unknown users yield domain.ErrUserNotFound and wrong passwords
// domain.ErrInvalidCredentials; callers must not expose the difference.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	// Runs to completion even if ctx is cancelled; the caller drops the result.
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Identity{Username: user.Username, Role: user.Role}, nil
}

// lookup fetches a user without checking any password. It is the only
// identity-resolution path that skips verification and is not exported.
func (s *AuthService) lookup(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.store.FindByUsername(ctx, username)
}

// CreateUser hashes password and stores a new user with role.
func (s *AuthService) CreateUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.store.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}
