package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

type RequestService struct {
	repo   ports.RequestRepository
	items  ports.ItemRepository
	idem   ports.IdempotencyStore
	ids    ports.IDGenerator
	logger zerolog.Logger
}

// NewRequestService wires the request use cases. idem may be nil, in which
// case Idempotency-Key headers are ignored.
func NewRequestService(
	repo ports.RequestRepository,
	items ports.ItemRepository,
	idem ports.IdempotencyStore,
	ids ports.IDGenerator,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		repo:   repo,
		items:  items,
		idem:   idem,
		ids:    ids,
		logger: logger.With().Str("component", "requests").Logger(),
	}
}

func (s *RequestService) ListAll(ctx context.Context) ([]*domain.Request, error) {
	return s.repo.List(ctx)
}

func (s *RequestService) ListByRequester(ctx context.Context, username string) ([]*domain.Request, error) {
	return s.repo.ListByRequester(ctx, username)
}

// Create opens a PENDING request for an existing item. When an idempotency
// key was already used by the same requester the original request is
// returned without side effects. The key is reserved before anything is
// written, so concurrent calls sharing it create at most one request.
func (s *RequestService) Create(ctx context.Context, in ports.CreateRequestInput) (*ports.RequestResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	key := ""
	if in.IdempotencyKey != "" && s.idem != nil {
		scoped := in.RequestedBy + ":" + in.IdempotencyKey
		existing, owned, err := s.claim(ctx, scoped)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ports.RequestResult{Request: existing, AlreadyExisted: true}, nil
		}
		if owned {
			key = scoped
		}
	}

	req, err := s.create(ctx, in)
	if err != nil {
		if key != "" {
			if relErr := s.idem.Release(ctx, key); relErr != nil {
				s.logger.Warn().Err(relErr).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	if key != "" {
		if err := s.idem.Remember(ctx, key, req.ID); err != nil {
			s.logger.Warn().Err(err).Int64("request_id", req.ID).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Int64("request_id", req.ID).Int64("item_id", req.ItemID).Str("requested_by", req.RequestedBy).Msg("request created")
	return &ports.RequestResult{Request: req}, nil
}

func (s *RequestService) create(ctx context.Context, in ports.CreateRequestInput) (*domain.Request, error) {
	if _, err := s.items.FindByID(ctx, in.ItemID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req := &domain.Request{
		ID:          s.ids.Next(),
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		Status:      domain.RequestPending,
		RequestedBy: in.RequestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Error().Err(err).Msg("failed to create request")
		return nil, err
	}
	return req, nil
}

// claim reserves key. It returns the request to replay when the key already
// produced one, owned=true when the caller must create and then remember the
// request, and domain.ErrRequestInProgress while another call holds the key.
// Cache failures are logged and the request is created without a key.
func (s *RequestService) claim(ctx context.Context, key string) (*domain.Request, bool, error) {
	reserved, id, err := s.idem.Reserve(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("idempotency reservation failed, creating anyway")
		return nil, false, nil
	}
	if reserved {
		return nil, true, nil
	}
	if id == 0 {
		return nil, false, domain.ErrRequestInProgress
	}

	existing, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		s.logger.Info().Int64("request_id", id).Msg("idempotent replay")
		return existing, false, nil
	case errors.Is(err, domain.ErrRequestNotFound):
		// The original was deleted; the key now belongs to the new request.
		return nil, true, nil
	default:
		s.logger.Warn().Err(err).Int64("request_id", id).Msg("idempotent replay lookup failed")
		return nil, false, nil
	}
}

// Update lets an admin change the item, quantity and status of a request.
func (s *RequestService) Update(ctx context.Context, id int64, in ports.UpdateRequestInput) (*domain.Request, error) {
	if !in.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := s.items.FindByID(ctx, in.ItemID); err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}

	updated, err := s.repo.Update(ctx, &domain.Request{
		ID:        id,
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		Status:    in.Status,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", id).Str("status", string(updated.Status)).Str("by", actor(ctx)).Msg("request updated")
	return updated, nil
}

func (s *RequestService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("request_id", id).Str("by", actor(ctx)).Msg("request deleted")
	return nil
}
