package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viw-carta/backend/internal/models"
)

const categoryColumns = `id, tenant_id, name, position, created_at, updated_at`

// Repository handles category persistence. Every query filters on the
// tenant id passed by the handler, which always comes from the session.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a categories repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var cat models.Category
	err := row.Scan(&cat.ID, &cat.TenantID, &cat.Name, &cat.Position, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListByTenant returns the tenant's categories in display order.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE tenant_id = $1 ORDER BY position, name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *cat)
	}
	return list, rows.Err()
}

// Create inserts a category stamped with the session tenant id.
func (r *Repository) Create(ctx context.Context, tenantID uuid.UUID, name string, position int) (*models.Category, error) {
	const q = `INSERT INTO categories (tenant_id, name, position)
		VALUES ($1, $2, $3) RETURNING ` + categoryColumns
	return scanCategory(r.pool.QueryRow(ctx, q, tenantID, name, position))
}

// Update modifies a category within the tenant.
func (r *Repository) Update(ctx context.Context, tenantID, id uuid.UUID, name string, position int) (*models.Category, error) {
	const q = `UPDATE categories SET name = $3, position = $4, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $1 RETURNING ` + categoryColumns
	return scanCategory(r.pool.QueryRow(ctx, q, tenantID, id, name, position))
}

// Delete removes a category within the tenant, detaching its meals.
func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE meals SET category_id = NULL, updated_at = NOW() WHERE category_id = $2 AND tenant_id = $1`,
		tenantID, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $2 AND tenant_id = $1`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

// IsNotFound reports whether err is a no-rows result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
