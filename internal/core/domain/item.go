package domain

import "time"

// Item is a stocked inventory article.
type Item struct {
	ID          int64     `json:"id,string" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
