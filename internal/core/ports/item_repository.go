package ports

import (
	"context"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	List(ctx context.Context) ([]*domain.Item, error)
	// FindByID returns domain.ErrItemNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) error
	// Update replaces name, description, quantity and updated_at and returns
	// the stored item.
	Update(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}
