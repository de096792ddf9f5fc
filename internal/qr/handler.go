package qr

import (
	"bytes"
	"context"
	"fmt"
	"image/color"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/authz"
	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/response"
	"github.com/viw-carta/backend/pkg/storage"
)

const defaultSize = 512

// TenantGetter loads the session tenant so the QR can encode its slug URL.
type TenantGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

// Handler renders the tenant's public menu URL as a QR PNG and stores it
// in S3.
type Handler struct {
	tenants    TenantGetter
	store      *storage.S3
	baseDomain string
	logger     *zap.Logger
}

// NewHandler creates a QR handler. store may be nil when S3 is not
// configured; generation then returns the PNG inline only.
func NewHandler(tenants TenantGetter, store *storage.S3, baseDomain string, logger *zap.Logger) *Handler {
	return &Handler{tenants: tenants, store: store, baseDomain: baseDomain, logger: logger}
}

// GenerateRequest is the body for POST /api/qr.
type GenerateRequest struct {
	Size       int    `json:"size"`
	Foreground string `json:"foreground"` // hex color, premium only
}

// GenerateResponse carries the stored object and a presigned download URL.
type GenerateResponse struct {
	MenuURL   string `json:"menu_url"`
	ObjectURL string `json:"object_url,omitempty"`
	SignedURL string `json:"signed_url,omitempty"`
}

// Generate handles POST /api/qr: renders the QR for the tenant's public
// URL and uploads it to the assets bucket. Foreground color customization
// is a premium feature; the base QR is available on every plan.
func (h *Handler) Generate(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("invalid request: "+err.Error()))
		return
	}

	tenant, err := h.tenants.GetByID(c.Request.Context(), claims.TenantID)
	if err != nil {
		response.Error(c, apperr.NotFound("tenant not found"))
		return
	}

	fg := color.Color(color.Black)
	if req.Foreground != "" {
		if !authz.Can(claims.Plan, claims.PlanStatus, authz.FeatureQRCustomization) {
			response.Error(c, apperr.ForbiddenPlan("QR customization requires a premium plan"))
			return
		}
		parsed, err := parseHexColor(req.Foreground)
		if err != nil {
			response.Error(c, apperr.Validation("invalid foreground color"))
			return
		}
		fg = parsed
	}

	size := req.Size
	if size <= 0 || size > 2048 {
		size = defaultSize
	}

	menuURL := fmt.Sprintf("https://%s.%s", tenant.Slug, h.baseDomain)
	code, err := qrcode.New(menuURL, qrcode.Medium)
	if err != nil {
		response.Error(c, apperr.Internal("failed to render QR code", err))
		return
	}
	code.ForegroundColor = fg
	png, err := code.PNG(size)
	if err != nil {
		response.Error(c, apperr.Internal("failed to render QR code", err))
		return
	}

	resp := GenerateResponse{MenuURL: menuURL}
	if h.store != nil {
		key := storage.QRKey(tenant.ID.String(), "menu")
		objectURL, err := h.store.Upload(c.Request.Context(), key, "image/png", bytes.NewReader(png))
		if err != nil {
			h.logger.Error("upload qr", zap.Error(err), zap.String("tenant_id", tenant.ID.String()))
			response.Error(c, apperr.Internal("failed to store QR code", err))
			return
		}
		signed, err := h.store.GeneratePresignedDownloadURL(c.Request.Context(), key, h.store.PresignExpire())
		if err != nil {
			response.Error(c, apperr.Internal("failed to sign QR URL", err))
			return
		}
		resp.ObjectURL = objectURL
		resp.SignedURL = signed
	}
	response.OK(c, resp)
}

func parseHexColor(s string) (color.Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return nil, fmt.Errorf("want 6 hex digits, got %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, err
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
