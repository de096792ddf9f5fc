package menu

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/response"
)

// TenantStore resolves a tenant by its routing slug.
type TenantStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
}

// CategoryStore lists a tenant's categories.
type CategoryStore interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Category, error)
}

// MealStore lists a tenant's meals.
type MealStore interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Meal, error)
}

// MessageStore lists a tenant's active announcement messages.
type MessageStore interface {
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.SystemMessage, error)
}

// Handler serves the public menu for a tenant slug. The slug arrives as
// the first path segment, injected by the edge router's rewrite; the
// handler validates tenant existence, which the router deliberately does
// not.
type Handler struct {
	tenants    TenantStore
	categories CategoryStore
	meals      MealStore
	messages   MessageStore
	cache      *Cache
}

// NewHandler creates the public menu handler.
func NewHandler(tenants TenantStore, categories CategoryStore, meals MealStore, messages MessageStore, cache *Cache) *Handler {
	return &Handler{tenants: tenants, categories: categories, meals: meals, messages: messages, cache: cache}
}

// Get handles GET /:tenant and GET /:tenant/menu. An unknown slug is a
// plain NotFound.
func (h *Handler) Get(c *gin.Context) {
	slug := c.Param("tenant")
	ctx := c.Request.Context()

	tenant, err := h.tenants.GetBySlug(ctx, slug)
	if err != nil {
		response.Error(c, apperr.NotFound("restaurant not found"))
		return
	}

	if cached := h.cache.Get(ctx, tenant.ID); cached != nil {
		response.OK(c, cached)
		return
	}

	cats, err := h.categories.ListByTenant(ctx, tenant.ID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to load menu", err))
		return
	}
	meals, err := h.meals.ListByTenant(ctx, tenant.ID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to load menu", err))
		return
	}
	msgs, err := h.messages.ListActive(ctx, tenant.ID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to load menu", err))
		return
	}

	// Only available meals are rendered publicly.
	visible := meals[:0]
	for _, m := range meals {
		if m.Available {
			visible = append(visible, m)
		}
	}

	menu := &models.Menu{
		Tenant:     *tenant,
		Categories: cats,
		Meals:      visible,
		Messages:   msgs,
	}
	h.cache.Set(ctx, tenant.ID, menu)
	response.OK(c, menu)
}
