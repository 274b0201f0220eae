package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

// flexID accepts an id as either a JSON number or a decimal string, since ids
// are rendered as strings.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", b)
	}
	*f = flexID(n)
	return nil
}

var _ json.Unmarshaler = (*flexID)(nil)

// createRequestRequest is the employee's submission. requestedBy is never
// read from the body.
type createRequestRequest struct {
	ItemID   flexID `json:"itemId" validate:"required,gt=0"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

func (r createRequestRequest) toInput(id *domain.Identity, idempotencyKey string) ports.CreateRequestInput {
	return ports.CreateRequestInput{
		ItemID:         int64(r.ItemID),
		Quantity:       r.Quantity,
		RequestedBy:    id.Username,
		IdempotencyKey: idempotencyKey,
	}
}

// updateRequestRequest is the admin's full replacement of a request.
type updateRequestRequest struct {
	ItemID   flexID `json:"itemId" validate:"required,gt=0"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}

func (r updateRequestRequest) toInput() ports.UpdateRequestInput {
	return ports.UpdateRequestInput{
		ItemID:   int64(r.ItemID),
		Quantity: r.Quantity,
		Status:   domain.RequestStatus(r.Status),
	}
}
