package tenants

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viw-carta/backend/internal/models"
)

const tenantColumns = `id, slug, name, COALESCE(description,''),
	subscription_plan, subscription_status, created_at, updated_at`

// Repository handles tenant persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tenants repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Description,
		&t.SubscriptionPlan, &t.SubscriptionStatus, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID returns a tenant by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

// GetBySlug returns a tenant by its routing slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
}

// List returns all tenants, newest first. Superadmin only at the handler.
func (r *Repository) List(ctx context.Context) ([]models.Tenant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// UpdateSubscription changes a tenant's plan and status.
func (r *Repository) UpdateSubscription(ctx context.Context, id uuid.UUID, plan models.Plan, status models.SubscriptionStatus) (*models.Tenant, error) {
	const q = `UPDATE tenants SET subscription_plan = $2, subscription_status = $3, updated_at = NOW()
		WHERE id = $1 RETURNING ` + tenantColumns
	return scanTenant(r.pool.QueryRow(ctx, q, id, string(plan), string(status)))
}

// UpdateSettings changes a tenant's display metadata.
func (r *Repository) UpdateSettings(ctx context.Context, id uuid.UUID, name, description string) (*models.Tenant, error) {
	const q = `UPDATE tenants SET name = $2, description = NULLIF($3,''), updated_at = NOW()
		WHERE id = $1 RETURNING ` + tenantColumns
	return scanTenant(r.pool.QueryRow(ctx, q, id, name, description))
}

// Stats holds cross-tenant platform counts for the superadmin dashboard.
type Stats struct {
	Tenants int64 `json:"tenants"`
	Users   int64 `json:"users"`
	Meals   int64 `json:"meals"`
	Orders  int64 `json:"orders"`
	Premium int64 `json:"premium_tenants"`
}

// PlatformStats returns cross-tenant counts.
func (r *Repository) PlatformStats(ctx context.Context) (*Stats, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM tenants),
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM meals),
		(SELECT COUNT(*) FROM orders),
		(SELECT COUNT(*) FROM tenants WHERE subscription_plan = 'premium')`
	var s Stats
	err := r.pool.QueryRow(ctx, q).Scan(&s.Tenants, &s.Users, &s.Meals, &s.Orders, &s.Premium)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// IsNotFound reports whether err is a no-rows result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// (duplicate slug).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
