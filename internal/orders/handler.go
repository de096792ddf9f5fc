package orders

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
	Create(ctx context.Context, tenantID uuid.UUID, tableRef, notes string, items []models.OrderItem) (*models.Order, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Order, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, from, to models.OrderStatus) (*models.Order, error)
}

// Handler handles /api/orders. Creation is plan-gated at the route level
// (create_orders feature); everything here is scoped to the session tenant.
type Handler struct {
	store Store
}

// NewHandler creates an orders handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// CreateItem is one requested line item.
type CreateItem struct {
	MealID     uuid.UUID `json:"meal_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	PriceCents int64     `json:"price_cents" binding:"min=0"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// CreateRequest is the body for POST /api/orders.
type CreateRequest struct {
	TableRef string       `json:"table_ref"`
	Notes    string       `json:"notes"`
	Items    []CreateItem `json:"items" binding:"required,min=1,dive"`
}

// Create handles POST /api/orders.
func (h *Handler) Create(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	items := make([]models.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = models.OrderItem{
			MealID:     it.MealID,
			Name:       it.Name,
			PriceCents: it.PriceCents,
			Quantity:   it.Quantity,
		}
	}
	order, err := h.store.Create(c.Request.Context(), claims.TenantID, req.TableRef, req.Notes, items)
	if err != nil {
		response.Error(c, apperr.Internal("failed to create order", err))
		return
	}
	response.Created(c, order)
}

// List handles GET /api/orders.
func (h *Handler) List(c *gin.Context) {
	claims := auth.MustClaims(c)
	list, err := h.store.ListByTenant(c.Request.Context(), claims.TenantID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to list orders", err))
		return
	}
	response.OK(c, list)
}

// Get handles GET /api/orders/:id.
func (h *Handler) Get(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid order id"))
		return
	}
	order, err := h.store.GetByID(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("order not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to load order", err))
		return
	}
	response.OK(c, order)
}

// UpdateStatusRequest is the body for PATCH /api/orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/orders/:id/status, validating the move
// against the order state machine.
func (h *Handler) UpdateStatus(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid order id"))
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	status, ok := ParseStatus(req.Status)
	if !ok {
		response.Error(c, apperr.Validation("invalid status"))
		return
	}

	order, err := h.store.GetByID(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("order not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to load order", err))
		return
	}
	if err := CanTransition(order.Status, status); err != nil {
		response.Error(c, apperr.Validation(err.Error()))
		return
	}

	updated, err := h.store.UpdateStatus(c.Request.Context(), claims.TenantID, id, order.Status, status)
	if err != nil {
		if IsNotFound(err) {
			// The guarded update matched nothing: another request moved
			// the order between our read and this write.
			response.Error(c, apperr.Conflict("order status changed concurrently"))
			return
		}
		response.Error(c, apperr.Internal("failed to update order", err))
		return
	}
	response.OK(c, updated)
}
