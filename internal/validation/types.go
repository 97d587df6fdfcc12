package validation

import "time"

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
	CustomerName  string  `json:"customerName" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`

	// Optional creation-time overrides, carried over from the source API.
	Status            string     `json:"status,omitempty" validate:"omitempty,oneof=RECEIVED IN_PREPARATION SHIPPED"`
	ShipmentReference string     `json:"shipmentReference,omitempty"`
	ShippedAt         *time.Time `json:"shippedAt,omitempty"`
}
