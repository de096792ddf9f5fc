package invitations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/models"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	invitations map[string]*models.Invitation
	redeemed    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{invitations: make(map[string]*models.Invitation)}
}

func (f *fakeStore) add(inv *models.Invitation) {
	f.invitations[inv.Code] = inv
}

func (f *fakeStore) HasPending(_ context.Context, email string, now time.Time) (bool, error) {
	for _, inv := range f.invitations {
		if inv.Email == email && inv.Status == models.InvitationPending && !inv.Expired(now) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, code, email, tenantName string, expiresAt time.Time, createdBy uuid.UUID) (*models.Invitation, error) {
	inv := &models.Invitation{
		ID:         uuid.New(),
		Code:       code,
		Email:      email,
		TenantName: tenantName,
		Status:     models.InvitationPending,
		ExpiresAt:  expiresAt,
		CreatedBy:  &createdBy,
	}
	f.invitations[code] = inv
	return inv, nil
}

func (f *fakeStore) List(_ context.Context) ([]models.Invitation, error) {
	var list []models.Invitation
	for _, inv := range f.invitations {
		list = append(list, *inv)
	}
	return list, nil
}

func (f *fakeStore) GetByCode(_ context.Context, code string) (*models.Invitation, error) {
	inv, ok := f.invitations[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeStore) MarkExpired(_ context.Context, id uuid.UUID) error {
	for _, inv := range f.invitations {
		if inv.ID == id && inv.Status == models.InvitationPending {
			inv.Status = models.InvitationExpired
		}
	}
	return nil
}

func (f *fakeStore) Redeem(_ context.Context, p RedeemParams) (*models.Tenant, *models.User, error) {
	inv, ok := f.invitations[p.Code]
	if !ok {
		return nil, nil, pgx.ErrNoRows
	}
	if !inv.Redeemable(time.Now()) {
		return nil, nil, ErrNotRedeemable
	}
	tenant := &models.Tenant{ID: uuid.New(), Slug: p.TenantSlug, Name: p.TenantName}
	user := &models.User{ID: uuid.New(), TenantID: tenant.ID, Username: p.Username,
		Email: p.Email, Role: models.RoleAdmin, Active: true}
	inv.Status = models.InvitationUsed
	inv.RedeemedBy = &user.ID
	f.redeemed++
	return tenant, user, nil
}

func setup(store Store, claims *auth.Claims) (*Handler, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, []string{"app", "www"}, zap.NewNop())
	r := gin.New()
	if claims != nil {
		r.Use(func(c *gin.Context) { c.Set(auth.ContextClaims, claims) })
	}
	return h, r
}

func superadminClaims() *auth.Claims {
	return &auth.Claims{UserID: uuid.New(), Role: models.RoleSuperadmin}
}

func pending(code, email string, expiresAt time.Time) *models.Invitation {
	return &models.Invitation{
		ID:         uuid.New(),
		Code:       code,
		Email:      email,
		TenantName: "Taco Town",
		Status:     models.InvitationPending,
		ExpiresAt:  expiresAt,
	}
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRejectsSecondPendingForEmail(t *testing.T) {
	store := newFakeStore()
	h, r := setup(store, superadminClaims())
	r.POST("/api/invitations", h.Create)

	body := gin.H{"email": "owner@example.com", "tenant_name": "Taco Town"}
	w := doJSON(r, http.MethodPost, "/api/invitations", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/invitations", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAllowsNewInvitationAfterExpiry(t *testing.T) {
	store := newFakeStore()
	store.add(pending("old-code", "owner@example.com", time.Now().Add(-time.Hour)))
	h, r := setup(store, superadminClaims())
	r.POST("/api/invitations", h.Create)

	w := doJSON(r, http.MethodPost, "/api/invitations",
		gin.H{"email": "owner@example.com", "tenant_name": "Taco Town"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLookupExpiresStaleInvitation(t *testing.T) {
	store := newFakeStore()
	inv := pending("stale", "owner@example.com", time.Now().Add(-time.Minute))
	store.add(inv)
	h, r := setup(store, nil)
	r.GET("/api/invitations/:code", h.Lookup)

	w := doJSON(r, http.MethodGet, "/api/invitations/stale", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.InvitationExpired, store.invitations["stale"].Status,
		"accessing a stale pending invitation must flip it to expired")
}

func TestLookupUnknownCode(t *testing.T) {
	h, r := setup(newFakeStore(), nil)
	r.GET("/api/invitations/:code", h.Lookup)

	w := doJSON(r, http.MethodGet, "/api/invitations/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRedeemIsSingleUse(t *testing.T) {
	store := newFakeStore()
	store.add(pending("golden", "owner@example.com", time.Now().Add(time.Hour)))
	h, r := setup(store, nil)
	r.POST("/api/invitations/redeem", h.Redeem)

	body := gin.H{
		"code":     "golden",
		"slug":     "taco-town",
		"username": "owner",
		"password": "hunter2hunter2",
	}
	w := doJSON(r, http.MethodPost, "/api/invitations/redeem", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, store.redeemed)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Tenant models.Tenant     `json:"tenant"`
			User   models.UserPublic `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "taco-town", resp.Data.Tenant.Slug)
	assert.Equal(t, models.RoleAdmin, resp.Data.User.Role)

	w = doJSON(r, http.MethodPost, "/api/invitations/redeem", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, store.redeemed, "second redemption must not provision again")
}

func TestRedeemValidatesSlug(t *testing.T) {
	store := newFakeStore()
	store.add(pending("golden", "owner@example.com", time.Now().Add(time.Hour)))
	h, r := setup(store, nil)
	r.POST("/api/invitations/redeem", h.Redeem)

	// Reserved labels are syntactically valid but owned by the host
	// router; a tenant provisioned under one would be unreachable.
	for _, slug := range []string{"Taco Town", "-leading", "trailing-", "UPPER", "a_b", "app", "www"} {
		w := doJSON(r, http.MethodPost, "/api/invitations/redeem", gin.H{
			"code":     "golden",
			"slug":     slug,
			"username": "owner",
			"password": "hunter2hunter2",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "slug %q", slug)
	}
	assert.Equal(t, 0, store.redeemed)
}
