package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viw-carta/backend/internal/models"
)

func TestPlanGating(t *testing.T) {
	// Standard plans never create orders; premium plans do.
	assert.False(t, Can(models.PlanStandard, models.SubscriptionActive, FeatureCreateOrders))
	assert.True(t, Can(models.PlanPremium, models.SubscriptionActive, FeatureCreateOrders))

	assert.False(t, Can(models.PlanStandard, models.SubscriptionActive, FeatureQRCustomization))
	assert.True(t, Can(models.PlanPremium, models.SubscriptionActive, FeatureQRCustomization))
}

func TestUnknownFeatureIsDenied(t *testing.T) {
	assert.False(t, Can(models.PlanPremium, models.SubscriptionActive, "teleportation"))
}

func TestSubscriptionStatusFoldsIntoPlan(t *testing.T) {
	// past_due keeps the paid feature set as a grace window.
	assert.True(t, Can(models.PlanPremium, models.SubscriptionPastDue, FeatureCreateOrders))

	// canceled falls back to standard regardless of the stored plan.
	assert.False(t, Can(models.PlanPremium, models.SubscriptionCanceled, FeatureCreateOrders))
	assert.Equal(t, models.PlanStandard, EffectivePlan(models.PlanPremium, models.SubscriptionCanceled))
}
