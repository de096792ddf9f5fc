package messages

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
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.SystemMessage, error)
	Create(ctx context.Context, tenantID uuid.UUID, body string, active bool) (*models.SystemMessage, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, body string, active bool) (*models.SystemMessage, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// MenuInvalidator drops the cached public menu after a mutation.
type MenuInvalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID)
}

// Handler handles /api/messages, the tenant's public announcement banners.
type Handler struct {
	store Store
	cache MenuInvalidator
}

func NewHandler(store Store, cache MenuInvalidator) *Handler {
	return &Handler{store: store, cache: cache}
}

func (h *Handler) List(c *gin.Context) {
	claims := auth.MustClaims(c)
	list, err := h.store.ListByTenant(c.Request.Context(), claims.TenantID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to list messages", err))
		return
	}
	response.OK(c, list)
}

// UpsertRequest is the body for message create and update.
type UpsertRequest struct {
	Body   string `json:"body" binding:"required"`
	Active *bool  `json:"active"`
}

func (req *UpsertRequest) active() bool {
	if req.Active == nil {
		return true
	}
	return *req.Active
}

func (h *Handler) Create(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	msg, err := h.store.Create(c.Request.Context(), claims.TenantID, req.Body, req.active())
	if err != nil {
		response.Error(c, apperr.Internal("failed to create message", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.Created(c, msg)
}

func (h *Handler) Update(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid message id"))
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	msg, err := h.store.Update(c.Request.Context(), claims.TenantID, id, req.Body, req.active())
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("message not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to update message", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.OK(c, msg)
}

func (h *Handler) Delete(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid message id"))
		return
	}
	if err := h.store.Delete(c.Request.Context(), claims.TenantID, id); err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("message not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to delete message", err))
		return
	}
	h.cache.Invalidate(c.Request.Context(), claims.TenantID)
	response.NoContent(c)
}
