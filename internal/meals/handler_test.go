package meals

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/models"
)

// fakeStore keys meals by (tenantID, mealID) so cross-tenant lookups miss
// exactly the way the tenant-scoped SQL does.
type fakeStore struct {
	meals map[uuid.UUID]map[uuid.UUID]*models.Meal
}

func newFakeStore() *fakeStore {
	return &fakeStore{meals: make(map[uuid.UUID]map[uuid.UUID]*models.Meal)}
}

func (f *fakeStore) add(tenantID uuid.UUID, m *models.Meal) {
	if f.meals[tenantID] == nil {
		f.meals[tenantID] = make(map[uuid.UUID]*models.Meal)
	}
	m.TenantID = tenantID
	f.meals[tenantID][m.ID] = m
}

func (f *fakeStore) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]models.Meal, error) {
	var list []models.Meal
	for _, m := range f.meals[tenantID] {
		list = append(list, *m)
	}
	return list, nil
}

func (f *fakeStore) GetByID(_ context.Context, tenantID, id uuid.UUID) (*models.Meal, error) {
	m, ok := f.meals[tenantID][id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, tenantID uuid.UUID, p MealParams) (*models.Meal, error) {
	m := &models.Meal{
		ID:          uuid.New(),
		TenantID:    tenantID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Available:   p.Available,
		Position:    p.Position,
	}
	f.add(tenantID, m)
	return m, nil
}

func (f *fakeStore) Update(_ context.Context, tenantID, id uuid.UUID, p MealParams) (*models.Meal, error) {
	m, ok := f.meals[tenantID][id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	m.Name = p.Name
	m.Description = p.Description
	m.PriceCents = p.PriceCents
	m.Available = p.Available
	m.Position = p.Position
	cp := *m
	return &cp, nil
}

func (f *fakeStore) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	if _, ok := f.meals[tenantID][id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.meals[tenantID], id)
	return nil
}

type fakeInvalidator struct {
	calls []uuid.UUID
}

func (f *fakeInvalidator) Invalidate(_ context.Context, tenantID uuid.UUID) {
	f.calls = append(f.calls, tenantID)
}

func setupRouter(store Store, inv MenuInvalidator, tenantID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, inv)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.ContextClaims, &auth.Claims{
			UserID:   uuid.New(),
			TenantID: tenantID,
			Role:     models.RoleAdmin,
		})
	})
	r.GET("/api/meals/master", h.List)
	r.GET("/api/meals/master/:id", h.Get)
	r.POST("/api/meals/master", h.Create)
	r.PUT("/api/meals/master/:id", h.Update)
	r.DELETE("/api/meals/master/:id", h.Delete)
	return r
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

func TestListReturnsOnlySessionTenantMeals(t *testing.T) {
	store := newFakeStore()
	mine := uuid.New()
	other := uuid.New()
	store.add(mine, &models.Meal{ID: uuid.New(), Name: "Carnitas"})
	store.add(other, &models.Meal{ID: uuid.New(), Name: "Pho"})

	r := setupRouter(store, &fakeInvalidator{}, mine)
	w := doJSON(r, http.MethodGet, "/api/meals/master", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Meal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Carnitas", resp.Data[0].Name)
}

func TestGetCrossTenantIDIsNotFound(t *testing.T) {
	store := newFakeStore()
	mine := uuid.New()
	other := uuid.New()
	theirs := &models.Meal{ID: uuid.New(), Name: "Pho"}
	store.add(other, theirs)

	r := setupRouter(store, &fakeInvalidator{}, mine)

	// A valid id belonging to another tenant looks exactly like a missing
	// row, never like a permission failure.
	w := doJSON(r, http.MethodGet, "/api/meals/master/"+theirs.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndDeleteAreTenantScoped(t *testing.T) {
	store := newFakeStore()
	mine := uuid.New()
	other := uuid.New()
	theirs := &models.Meal{ID: uuid.New(), Name: "Pho", PriceCents: 1200}
	store.add(other, theirs)

	r := setupRouter(store, &fakeInvalidator{}, mine)

	w := doJSON(r, http.MethodPut, "/api/meals/master/"+theirs.ID.String(),
		gin.H{"name": "Hijacked", "price_cents": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pho", store.meals[other][theirs.ID].Name)

	w = doJSON(r, http.MethodDelete, "/api/meals/master/"+theirs.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, store.meals[other], theirs.ID)
}

func TestMutationsInvalidateMenuCache(t *testing.T) {
	store := newFakeStore()
	inv := &fakeInvalidator{}
	tenantID := uuid.New()
	r := setupRouter(store, inv, tenantID)

	w := doJSON(r, http.MethodPost, "/api/meals/master",
		gin.H{"name": "Carnitas", "price_cents": 950})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, inv.calls, 1)
	assert.Equal(t, tenantID, inv.calls[0])

	// Reads never touch the cache invalidator.
	doJSON(r, http.MethodGet, "/api/meals/master", nil)
	assert.Len(t, inv.calls, 1)
}

func TestInvalidMealID(t *testing.T) {
	r := setupRouter(newFakeStore(), &fakeInvalidator{}, uuid.New())
	w := doJSON(r, http.MethodGet, "/api/meals/master/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
