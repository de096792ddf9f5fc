package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the state of a dine-in order.
type OrderStatus string

const (
	OrderReceived  OrderStatus = "received"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCanceled  OrderStatus = "canceled"
)

// OrderItem is a line item snapshot taken at order time.
type OrderItem struct {
	MealID     uuid.UUID `json:"meal_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int       `json:"quantity"`
}

// Order is a tenant-scoped order with a per-tenant sequential number.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	TenantID  uuid.UUID   `json:"tenant_id"`
	Number    int64       `json:"number"`
	Status    OrderStatus `json:"status"`
	TableRef  string      `json:"table_ref,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
