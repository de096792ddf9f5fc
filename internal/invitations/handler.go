package invitations

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/response"
	"github.com/viw-carta/backend/pkg/utils"
)

// DefaultExpiry is how long an invitation stays redeemable.
const DefaultExpiry = 7 * 24 * time.Hour

// Store is the persistence surface the handler needs.
type Store interface {
	HasPending(ctx context.Context, email string, now time.Time) (bool, error)
	Create(ctx context.Context, code, email, tenantName string, expiresAt time.Time, createdBy uuid.UUID) (*models.Invitation, error)
	List(ctx context.Context) ([]models.Invitation, error)
	GetByCode(ctx context.Context, code string) (*models.Invitation, error)
	MarkExpired(ctx context.Context, id uuid.UUID) error
	Redeem(ctx context.Context, p RedeemParams) (*models.Tenant, *models.User, error)
}

// Handler handles invitation endpoints: superadmin management plus the
// public redemption flow that provisions a tenant.
type Handler struct {
	store    Store
	reserved map[string]bool
	logger   *zap.Logger
}

// NewHandler creates an invitations handler. reserved lists subdomain
// labels the host router claims for itself (the app label, www); a tenant
// provisioned under one of them would be unreachable, so redemption
// rejects them.
func NewHandler(store Store, reserved []string, logger *zap.Logger) *Handler {
	m := make(map[string]bool, len(reserved))
	for _, label := range reserved {
		m[strings.ToLower(label)] = true
	}
	return &Handler{store: store, reserved: m, logger: logger}
}

// CreateRequest is the body for POST /api/invitations (superadmin only).
type CreateRequest struct {
	Email      string `json:"email" binding:"required,email"`
	TenantName string `json:"tenant_name" binding:"required"`
}

// Create handles POST /api/invitations. At most one non-expired pending
// invitation may exist per email.
func (h *Handler) Create(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}

	pending, err := h.store.HasPending(c.Request.Context(), req.Email, time.Now())
	if err != nil {
		response.Error(c, apperr.Internal("failed to check pending invitations", err))
		return
	}
	if pending {
		response.Error(c, apperr.Conflict("a pending invitation already exists for this email"))
		return
	}

	inv, err := h.store.Create(c.Request.Context(), uuid.NewString(), req.Email, req.TenantName,
		time.Now().Add(DefaultExpiry), claims.UserID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to create invitation", err))
		return
	}
	response.Created(c, inv)
}

// List handles GET /api/invitations (superadmin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Error(c, apperr.Internal("failed to list invitations", err))
		return
	}
	response.OK(c, list)
}

// Lookup handles GET /api/invitations/:code (public, used by the
// onboarding page to prefill email and restaurant name). An invitation
// past its expiry is transitioned to expired here.
func (h *Handler) Lookup(c *gin.Context) {
	inv, err := h.fetchRedeemable(c, c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, inv)
}

// RedeemRequest is the body for POST /api/invitations/redeem.
type RedeemRequest struct {
	Code     string `json:"code" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// RedeemResponse is returned after a successful redemption.
type RedeemResponse struct {
	Tenant models.Tenant     `json:"tenant"`
	User   models.UserPublic `json:"user"`
}

// Redeem handles POST /api/invitations/redeem. Redemption is single-use:
// it provisions the tenant and its admin user and transitions the
// invitation to used, all transactionally.
func (h *Handler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	if !models.ValidSlug(req.Slug) {
		response.Error(c, apperr.Validation("slug must be a valid subdomain label"))
		return
	}
	if h.reserved[req.Slug] {
		response.Error(c, apperr.Validation("slug is reserved"))
		return
	}

	inv, err := h.fetchRedeemable(c, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Error(c, apperr.Internal("failed to hash password", err))
		return
	}

	tenant, user, err := h.store.Redeem(c.Request.Context(), RedeemParams{
		Code:         req.Code,
		TenantSlug:   req.Slug,
		TenantName:   inv.TenantName,
		Username:     req.Username,
		Email:        inv.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
	})
	if err != nil {
		switch {
		case err == ErrNotRedeemable:
			response.Error(c, apperr.Conflict("invitation already used or expired"))
		case IsUniqueViolation(err):
			response.Error(c, apperr.Conflict("slug, username, or email already taken"))
		default:
			response.Error(c, apperr.Internal("failed to redeem invitation", err))
		}
		return
	}

	h.logger.Info("tenant provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug),
	)
	response.Created(c, RedeemResponse{Tenant: *tenant, User: user.ToPublic()})
}

// fetchRedeemable loads an invitation by code and applies the lazy
// pending→expired transition. It returns an apperr on any failure.
func (h *Handler) fetchRedeemable(c *gin.Context, code string) (*models.Invitation, error) {
	inv, err := h.store.GetByCode(c.Request.Context(), code)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperr.NotFound("invitation not found")
		}
		return nil, apperr.Internal("failed to load invitation", err)
	}
	if inv.Status == models.InvitationPending && inv.Expired(time.Now()) {
		if err := h.store.MarkExpired(c.Request.Context(), inv.ID); err != nil {
			h.logger.Warn("expire invitation", zap.Error(err))
		}
		return nil, apperr.Conflict("invitation expired")
	}
	if inv.Status != models.InvitationPending {
		return nil, apperr.Conflict("invitation already used or expired")
	}
	return inv, nil
}
