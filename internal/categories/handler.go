package categories

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Category, error)
	Create(ctx context.Context, tenantID uuid.UUID, name string, position int) (*models.Category, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, name string, position int) (*models.Category, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// MenuInvalidator drops the cached public menu after a mutation.
type MenuInvalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID)
}

// Handler handles /api/categories. All access is scoped to the session
// tenant; a tenant id in the request body or query is never trusted.
type Handler struct {
	store Store
	cache MenuInvalidator
}

// NewHandler creates a categories handler.
func NewHandler(store Store, cache MenuInvalidator) *Handler {
	return &Handler{store: store, cache: cache}
}

// List handles GET /api/categories.
func (h *Handler) List(c *gin.Context) {
	claims := auth.MustClaims(c)
	list, err := h.store.ListByTenant(c.Request.Context(), claims.TenantID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to list categories", err))
		return
	}
	response.OK(c, list)
}

// UpsertRequest is the body for category create and update.
type UpsertRequest struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
}

// Create handles POST /api/categories.
func (h *Handler) Create(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	cat, err := h.store.Create(c.Request.Context(), claims.TenantID, req.Name, req.Position)
	if err != nil {
		response.Error(c, apperr.Internal("failed to create category", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.Created(c, cat)
}

// Update handles PUT /api/categories/:id.
func (h *Handler) Update(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid category id"))
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	cat, err := h.store.Update(c.Request.Context(), claims.TenantID, id, req.Name, req.Position)
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("category not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to update category", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.OK(c, cat)
}

// Delete handles DELETE /api/categories/:id.
func (h *Handler) Delete(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid category id"))
		return
	}
	if err := h.store.Delete(c.Request.Context(), claims.TenantID, id); err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("category not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to delete category", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.NoContent(c)
}
