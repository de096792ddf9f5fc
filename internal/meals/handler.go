package meals

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
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Meal, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Meal, error)
	Create(ctx context.Context, tenantID uuid.UUID, p MealParams) (*models.Meal, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, p MealParams) (*models.Meal, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// MenuInvalidator drops the cached public menu after a mutation.
type MenuInvalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID)
}

// Handler handles /api/meals/master. All access is scoped to the session
// tenant id; ids supplied in bodies or query strings never widen the scope.
type Handler struct {
	store Store
	cache MenuInvalidator
}

// NewHandler creates a meals handler.
func NewHandler(store Store, cache MenuInvalidator) *Handler {
	return &Handler{store: store, cache: cache}
}

// List handles GET /api/meals/master.
func (h *Handler) List(c *gin.Context) {
	claims := auth.MustClaims(c)
	list, err := h.store.ListByTenant(c.Request.Context(), claims.TenantID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to list meals", err))
		return
	}
	response.OK(c, list)
}

// Get handles GET /api/meals/master/:id.
func (h *Handler) Get(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid meal id"))
		return
	}
	meal, err := h.store.GetByID(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("meal not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to load meal", err))
		return
	}
	response.OK(c, meal)
}

// UpsertRequest is the body for meal create and update.
type UpsertRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	PriceCents  int64      `json:"price_cents" binding:"min=0"`
	Available   *bool      `json:"available"`
	Position    int        `json:"position"`
}

func (req *UpsertRequest) params() MealParams {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return MealParams{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Available:   available,
		Position:    req.Position,
	}
}

// Create handles POST /api/meals/master.
func (h *Handler) Create(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	meal, err := h.store.Create(c.Request.Context(), claims.TenantID, req.params())
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("category not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to create meal", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.Created(c, meal)
}

// Update handles PUT /api/meals/master/:id.
func (h *Handler) Update(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid meal id"))
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	meal, err := h.store.Update(c.Request.Context(), claims.TenantID, id, req.params())
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("meal not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to update meal", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.OK(c, meal)
}

// Delete handles DELETE /api/meals/master/:id.
func (h *Handler) Delete(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid meal id"))
		return
	}
	if err := h.store.Delete(c.Request.Context(), claims.TenantID, id); err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("meal not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to delete meal", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.NoContent(c)
}
