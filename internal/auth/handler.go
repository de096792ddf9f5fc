package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/response"
)

// TenantGetter loads the tenant record a user belongs to, so login can
// embed plan and status claims into the session token.
type TenantGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is returned by login and /me.
type SessionResponse struct {
	Token  string            `json:"token,omitempty"`
	User   models.UserPublic `json:"user"`
	Tenant *models.Tenant    `json:"tenant,omitempty"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	verifier *Verifier
	repo     *Repository
	tenants  TenantGetter
	sessions *SessionService
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(verifier *Verifier, repo *Repository, tenants TenantGetter, sessions *SessionService, logger *zap.Logger) *Handler {
	return &Handler{verifier: verifier, repo: repo, tenants: tenants, sessions: sessions, logger: logger}
}

// Login handles POST /api/auth/login. On success it sets the HTTP-only
// session cookie and returns the token for non-browser clients.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}

	user, err := h.verifier.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	tenant, err := h.tenants.GetByID(c.Request.Context(), user.TenantID)
	if err != nil {
		h.logger.Error("load tenant for login", zap.Error(err), zap.String("user_id", user.ID.String()))
		response.Error(c, apperr.Internal("failed to establish session", err))
		return
	}

	token, err := h.sessions.Issue(Identity{
		UserID:     user.ID,
		TenantID:   tenant.ID,
		Role:       user.Role,
		Plan:       tenant.SubscriptionPlan,
		PlanStatus: tenant.SubscriptionStatus,
	})
	if err != nil {
		response.Error(c, apperr.Internal("failed to issue token", err))
		return
	}

	h.sessions.SetCookie(c.Writer, token)
	response.OK(c, SessionResponse{Token: token, User: user.ToPublic(), Tenant: tenant})
}

// Logout handles POST /api/auth/logout. Sessions are stateless, so logout
// is cookie discard only.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c.Writer)
	response.NoContent(c)
}

// Me handles GET /api/auth/me for the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	claims := MustClaims(c)
	user, err := h.repo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, apperr.Unauthorized("session user no longer exists"))
		return
	}
	tenant, err := h.tenants.GetByID(c.Request.Context(), claims.TenantID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to load tenant", err))
		return
	}
	response.OK(c, SessionResponse{User: user.ToPublic(), Tenant: tenant})
}

// ListUsers handles GET /api/admin/users for the session tenant.
func (h *Handler) ListUsers(c *gin.Context) {
	claims := MustClaims(c)
	list, err := h.repo.ListByTenant(c.Request.Context(), claims.TenantID)
	if err != nil {
		response.Error(c, apperr.Internal("failed to list users", err))
		return
	}
	response.OK(c, list)
}

// UpdateUserRoleRequest is the body for PATCH /api/admin/users/:id/role.
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole handles PATCH /api/admin/users/:id/role, scoped to the
// session tenant.
func (h *Handler) UpdateUserRole(c *gin.Context) {
	claims := MustClaims(c)
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid user id"))
		return
	}
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok || role == models.RoleSuperadmin {
		response.Error(c, apperr.Validation("invalid role"))
		return
	}
	user, err := h.repo.UpdateRole(c.Request.Context(), claims.TenantID, userID, role)
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("user not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to update role", err))
		return
	}
	response.OK(c, user.ToPublic())
}

// SetUserActiveRequest is the body for PATCH /api/admin/users/:id/active.
type SetUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetUserActive handles PATCH /api/admin/users/:id/active, scoped to the
// session tenant. Users are soft-deactivated, never deleted.
func (h *Handler) SetUserActive(c *gin.Context) {
	claims := MustClaims(c)
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.Validation("invalid user id"))
		return
	}
	var req SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}
	user, err := h.repo.SetActive(c.Request.Context(), claims.TenantID, userID, *req.Active)
	if err != nil {
		if IsNotFound(err) {
			response.Error(c, apperr.NotFound("user not found"))
			return
		}
		response.Error(c, apperr.Internal("failed to update user", err))
		return
	}
	response.OK(c, user.ToPublic())
}
