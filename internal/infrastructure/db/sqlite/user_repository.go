package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

type UserRepository struct {
	db  *sql.DB
	ids ports.IDGenerator
}

func NewUserRepository(db *sql.DB, ids ports.IDGenerator) *UserRepository {
	return &UserRepository{db: db, ids: ids}
}

// Create inserts user with a fresh id. A taken username is reported as
// domain.ErrUserExists without touching the existing row.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	created.ID = r.ids.Next()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO NOTHING`,
		created.ID, created.Username, created.PasswordHash, string(created.Role), created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrUserExists
	}
	return &created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}
