package domain

import "time"

// RequestStatus is the review state of a stock request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Request is an employee's ask for a quantity of an item.
type Request struct {
	ID          int64         `json:"id,string" bson:"_id"`
	ItemID      int64         `json:"itemId,string" bson:"item_id"`
	Quantity    int           `json:"quantity" bson:"quantity"`
	Status      RequestStatus `json:"status" bson:"status"`
	RequestedBy string        `json:"requestedBy" bson:"requested_by"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}
