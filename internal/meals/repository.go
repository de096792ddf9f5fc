package meals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viw-carta/backend/internal/models"
)

const mealColumns = `id, tenant_id, category_id, name, COALESCE(description,''),
	price_cents, available, position, created_at, updated_at`

// Repository handles meal persistence, always filtered by tenant id.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a meals repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanMeal(row pgx.Row) (*models.Meal, error) {
	var m models.Meal
	err := row.Scan(&m.ID, &m.TenantID, &m.CategoryID, &m.Name, &m.Description,
		&m.PriceCents, &m.Available, &m.Position, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByTenant returns all of the tenant's meals in display order.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Meal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE tenant_id = $1 ORDER BY position, name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// GetByID returns a meal within the tenant. A meal owned by another tenant
// is a no-rows result, indistinguishable from one that does not exist.
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Meal, error) {
	return scanMeal(r.pool.QueryRow(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE id = $2 AND tenant_id = $1`, tenantID, id))
}

// MealParams carries the writable meal fields.
type MealParams struct {
	CategoryID  *uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	Available   bool
	Position    int
}

// Create inserts a meal stamped with the session tenant id. The category,
// when set, must belong to the same tenant.
func (r *Repository) Create(ctx context.Context, tenantID uuid.UUID, p MealParams) (*models.Meal, error) {
	if err := r.checkCategory(ctx, tenantID, p.CategoryID); err != nil {
		return nil, err
	}
	const q = `INSERT INTO meals (tenant_id, category_id, name, description, price_cents, available, position)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, $6, $7) RETURNING ` + mealColumns
	return scanMeal(r.pool.QueryRow(ctx, q, tenantID, p.CategoryID, p.Name, p.Description,
		p.PriceCents, p.Available, p.Position))
}

// Update modifies a meal within the tenant.
func (r *Repository) Update(ctx context.Context, tenantID, id uuid.UUID, p MealParams) (*models.Meal, error) {
	if err := r.checkCategory(ctx, tenantID, p.CategoryID); err != nil {
		return nil, err
	}
	const q = `UPDATE meals SET category_id = $3, name = $4, description = NULLIF($5,''),
		price_cents = $6, available = $7, position = $8, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $1 RETURNING ` + mealColumns
	return scanMeal(r.pool.QueryRow(ctx, q, tenantID, id, p.CategoryID, p.Name, p.Description,
		p.PriceCents, p.Available, p.Position))
}

// Delete removes a meal within the tenant.
func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meals WHERE id = $2 AND tenant_id = $1`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// checkCategory verifies a referenced category belongs to the tenant.
// A cross-tenant category reference surfaces as no-rows.
func (r *Repository) checkCategory(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $2 AND tenant_id = $1)`,
		tenantID, *categoryID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return pgx.ErrNoRows
	}
	return nil
}

// IsNotFound reports whether err is a no-rows result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
