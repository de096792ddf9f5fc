package models

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus is the lifecycle state of an invitation. Transitions are
// one-way: pending → used or pending → expired.
type InvitationStatus string

const (
	InvitationPending InvitationStatus = "pending"
	InvitationUsed    InvitationStatus = "used"
	InvitationExpired InvitationStatus = "expired"
)

// Invitation is a single-use, time-limited code that provisions a new
// tenant and its first admin user.
type Invitation struct {
	ID         uuid.UUID        `json:"id"`
	Code       string           `json:"code"`
	Email      string           `json:"email"`
	TenantName string           `json:"tenant_name"`
	Status     InvitationStatus `json:"status"`
	ExpiresAt  time.Time        `json:"expires_at"`
	CreatedBy  *uuid.UUID       `json:"created_by,omitempty"`
	RedeemedBy *uuid.UUID       `json:"redeemed_by,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Expired reports whether the invitation is past its expiry at now,
// regardless of its stored status. A pending invitation past expiry must be
// lazily transitioned to expired on access.
func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Redeemable reports whether the invitation can be redeemed at now.
func (i *Invitation) Redeemable(now time.Time) bool {
	return i.Status == InvitationPending && !i.Expired(now)
}
