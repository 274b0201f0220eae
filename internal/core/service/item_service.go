package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

type ItemService struct {
	repo   ports.ItemRepository
	ids    ports.IDGenerator
	logger zerolog.Logger
}

func NewItemService(repo ports.ItemRepository, ids ports.IDGenerator, logger zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, ids: ids, logger: logger.With().Str("component", "items").Logger()}
}

func (s *ItemService) List(ctx context.Context) ([]*domain.Item, error) {
	return s.repo.List(ctx)
}

// Create stores a new item with a generated id.
func (s *ItemService) Create(ctx context.Context, in ports.ItemInput) (*domain.Item, error) {
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:          s.ids.Next(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Quantity:    in.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Msg("failed to create item")
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Str("by", actor(ctx)).Msg("item created")
	return item, nil
}

// Update replaces the mutable fields of item id.
func (s *ItemService) Update(ctx context.Context, id int64, in ports.ItemInput) (*domain.Item, error) {
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	updated, err := s.repo.Update(ctx, &domain.Item{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Quantity:    in.Quantity,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", id).Str("by", actor(ctx)).Msg("item updated")
	return updated, nil
}

func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("item_id", id).Str("by", actor(ctx)).Msg("item deleted")
	return nil
}

// actor names the authenticated caller for log lines.
func actor(ctx context.Context) string {
	if id := domain.IdentityFromContext(ctx); id != nil {
		return id.Username
	}
	return "anonymous"
}
