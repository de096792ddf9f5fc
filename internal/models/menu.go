package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a tenant-scoped menu section.
type Category struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meal is a tenant-scoped menu item, optionally assigned to a category.
type Meal struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PriceCents  int64      `json:"price_cents"`
	Available   bool       `json:"available"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Menu is the public rendering payload for a tenant's menu page.
type Menu struct {
	Tenant     Tenant          `json:"tenant"`
	Categories []Category      `json:"categories"`
	Meals      []Meal          `json:"meals"`
	Messages   []SystemMessage `json:"messages,omitempty"`
}
