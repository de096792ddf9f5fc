package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemMessage is a tenant-scoped announcement shown on the public menu.
type SystemMessage struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Body      string    `json:"body"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
