package ports

import (
	"context"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

// CreateRequestInput carries everything needed to open a stock request.
type CreateRequestInput struct {
	ItemID   int64
	Quantity int
	// RequestedBy is taken from the authenticated identity, never the body.
	RequestedBy    string
	IdempotencyKey string
}

// UpdateRequestInput is the admin-side full replacement of a request.
type UpdateRequestInput struct {
	ItemID   int64
	Quantity int
	Status   domain.RequestStatus
}

// RequestResult wraps a request with whether it was replayed from an
// idempotency key.
type RequestResult struct {
	Request        *domain.Request
	AlreadyExisted bool
}

// RequestService defines use-case operations for stock requests.
type RequestService interface {
	ListAll(ctx context.Context) ([]*domain.Request, error)
	ListByRequester(ctx context.Context, username string) ([]*domain.Request, error)
	Create(ctx context.Context, in CreateRequestInput) (*RequestResult, error)
	Update(ctx context.Context, id int64, in UpdateRequestInput) (*domain.Request, error)
	Delete(ctx context.Context, id int64) error
}
