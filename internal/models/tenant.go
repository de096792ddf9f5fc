package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Plan is the subscription tier of a tenant.
type Plan string

const (
	PlanStandard Plan = "standard"
	PlanPremium  Plan = "premium"
)

// SubscriptionStatus is the billing state of a tenant's subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Tenant represents a restaurant account. Its slug is the sole routing key:
// it doubles as the tenant's subdomain label and changing it changes the
// public URL.
type Tenant struct {
	ID                 uuid.UUID          `json:"id"`
	Slug               string             `json:"slug"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	SubscriptionPlan   Plan               `json:"subscription_plan"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidSlug reports whether s is usable as a subdomain label.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ParsePlan returns the Plan for s, or false if unknown.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(s) {
	case PlanStandard, PlanPremium:
		return Plan(s), true
	}
	return "", false
}

// ParseSubscriptionStatus returns the SubscriptionStatus for s, or false if unknown.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, bool) {
	switch SubscriptionStatus(s) {
	case SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled:
		return SubscriptionStatus(s), true
	}
	return "", false
}
