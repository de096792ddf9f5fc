package tenants

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/response"
)

// Handler handles tenant settings and the superadmin tenant surface.
type Handler struct {
	repo *Repository
}

// NewHandler creates a tenants handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GetSettings handles GET /api/settings for the session tenant.
func (h *Handler) GetSettings(c *gin.Context) {
	claims := auth.MustClaims(c)
	tenant, err := h.repo.GetByID(c.Request.Context(), claims.TenantID)
	if err != nil {
		response.Error(c, apperr.NotFound("tenant not found"))
		return
	}
	response.OK(c, tenant)
}

// UpdateSettingsRequest is the body for PUT /api/settings.
type UpdateSettingsRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateSettings handles PUT /api/settings. The slug is deliberately not
// editable here: it is the routing key and changing it changes the public
// URL.
func (h *Handler) UpdateSettings(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	tenant, err := h.repo.UpdateSettings(c.Request.Context(), claims.TenantID, req.Name, req.Description)
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("tenant not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to update settings", err))
		return
	}
	response.OK(c, tenant)
}

// List handles GET /api/admin/tenants (superadmin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Error(c, apperr.Internal("failed to list tenants", err))
		return
	}
	response.OK(c, list)
}

// UpdateSubscriptionRequest is the body for PATCH /api/admin/tenants/:id/subscription.
type UpdateSubscriptionRequest struct {
	Plan   string `json:"plan" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// UpdateSubscription handles PATCH /api/admin/tenants/:id/subscription
// (superadmin only). The change takes effect in sessions only on next
// token issuance.
func (h *Handler) UpdateSubscription(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid tenant id"))
		return
	}
	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	plan, ok := models.ParsePlan(req.Plan)
	if !ok {
		response.Error(c, apperr.Validation("invalid plan"))
		return
	}
	status, ok := models.ParseSubscriptionStatus(req.Status)
	if !ok {
		response.Error(c, apperr.Validation("invalid subscription status"))
		return
	}
	tenant, err := h.repo.UpdateSubscription(c.Request.Context(), tenantID, plan, status)
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("tenant not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to update subscription", err))
		return
	}
	response.OK(c, tenant)
}

// Stats handles GET /api/admin/stats (superadmin only).
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.repo.PlatformStats(c.Request.Context())
	if err != nil {
		response.Error(c, apperr.Internal("failed to compute stats", err))
		return
	}
	response.OK(c, stats)
}
