package ports

import (
	"context"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

// ItemInput carries the mutable fields of an item.
type ItemInput struct {
	Name        string
	Description string
	Quantity    int
}

// ItemService defines use-case operations for items.
type ItemService interface {
	List(ctx context.Context) ([]*domain.Item, error)
	Create(ctx context.Context, in ItemInput) (*domain.Item, error)
	Update(ctx context.Context, id int64, in ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}
