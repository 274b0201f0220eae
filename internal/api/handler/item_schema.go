package handler

import "github.com/stockroom/inventory-system/internal/core/ports"

// itemRequest is the body of item create and update calls.
type itemRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Quantity    *int   `json:"quantity" validate:"required,gte=0"`
}

func (r itemRequest) toInput() ports.ItemInput {
	return ports.ItemInput{
		Name:        r.Name,
		Description: r.Description,
		Quantity:    *r.Quantity,
	}
}
