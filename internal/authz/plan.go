package authz

import "github.com/viw-carta/backend/internal/models"

// Feature keys gated by subscription plan.
const (
	FeatureCreateOrders    = "create_orders"
	FeatureOrderDashboard  = "order_dashboard"
	FeatureQRCustomization = "qr_customization"
	FeatureSystemMessages  = "system_messages"
)

// planFeatures is the single static plan→feature table. Every call site
// consults it through Can, so ordering and membership logic never diverge.
var planFeatures = map[models.Plan]map[string]bool{
	models.PlanStandard: {},
	models.PlanPremium: {
		FeatureCreateOrders:    true,
		FeatureOrderDashboard:  true,
		FeatureQRCustomization: true,
		FeatureSystemMessages:  true,
	},
}

// EffectivePlan folds subscription status into the plan: a canceled
// subscription falls back to the standard feature set regardless of the
// stored plan, while past_due keeps the paid set as a grace window.
func EffectivePlan(plan models.Plan, status models.SubscriptionStatus) models.Plan {
	if status == models.SubscriptionCanceled {
		return models.PlanStandard
	}
	return plan
}

// Can reports whether the (plan, status) pair entitles the tenant to the
// given feature.
func Can(plan models.Plan, status models.SubscriptionStatus, feature string) bool {
	features, ok := planFeatures[EffectivePlan(plan, status)]
	if !ok {
		return false
	}
	return features[feature]
}
