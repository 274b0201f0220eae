package ports

import (
	"context"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

// RequestRepository defines persistence operations for stock requests.
type RequestRepository interface {
	List(ctx context.Context) ([]*domain.Request, error)
	ListByRequester(ctx context.Context, username string) ([]*domain.Request, error)
	// FindByID returns domain.ErrRequestNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*domain.Request, error)
	Create(ctx context.Context, req *domain.Request) error
	// Update replaces item_id, quantity, status and updated_at. requested_by
	// is never rewritten.
	Update(ctx context.Context, req *domain.Request) (*domain.Request, error)
	Delete(ctx context.Context, id int64) error
}

// IdempotencyStore remembers which request an Idempotency-Key produced.
type IdempotencyStore interface {
	// Reserve atomically claims key before a request is created. When the
	// key is already taken, reserved is false and requestID is the request
	// recorded under it, or 0 while its creator has not finished.
	Reserve(ctx context.Context, key string) (reserved bool, requestID int64, err error)
	// Remember records requestID under a key the caller reserved.
	Remember(ctx context.Context, key string, requestID int64) error
	// Release drops a reservation whose request was never created.
	Release(ctx context.Context, key string) error
}

// IDGenerator hands out unique positive ids.
type IDGenerator interface {
	Next() int64
}
