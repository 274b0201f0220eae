package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

const requestColumns = `id, item_id, quantity, status, requested_by, created_at, updated_at`

type RequestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func scanRequest(s scanner) (*domain.Request, error) {
	var (
		req    domain.Request
		status string
	)
	if err := s.Scan(&req.ID, &req.ItemID, &req.Quantity, &status, &req.RequestedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatus(status)
	return &req, nil
}

func (r *RequestRepository) List(ctx context.Context) ([]*domain.Request, error) {
	return r.query(ctx, `SELECT `+requestColumns+` FROM requests ORDER BY id`)
}

func (r *RequestRepository) ListByRequester(ctx context.Context, username string) ([]*domain.Request, error) {
	return r.query(ctx, `SELECT `+requestColumns+` FROM requests WHERE requested_by = ? ORDER BY id`, username)
}

func (r *RequestRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Request, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	reqs := make([]*domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *RequestRepository) FindByID(ctx context.Context, id int64) (*domain.Request, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find request: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.ItemID, req.Quantity, string(req.Status), req.RequestedBy, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// Update rewrites the reviewable fields. requested_by is left untouched.
func (r *RequestRepository) Update(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	updated, err := scanRequest(r.db.QueryRowContext(ctx, `
		UPDATE requests SET item_id = ?, quantity = ?, status = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+requestColumns,
		req.ItemID, req.Quantity, string(req.Status), req.UpdatedAt, req.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	return updated, nil
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}
