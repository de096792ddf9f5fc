package orders

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viw-carta/backend/internal/models"
)

const orderColumns = `id, tenant_id, number, status, COALESCE(table_ref,''),
	COALESCE(notes,''), items, created_at, updated_at`

// Repository handles order persistence and per-tenant order numbering.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an orders repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var items []byte
	err := row.Scan(&o.ID, &o.TenantID, &o.Number, &o.Status, &o.TableRef,
		&o.Notes, &items, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

// NextNumber allocates the tenant's next order number with a single
// increment-or-insert statement, so concurrent requests never observe a
// duplicate.
func (r *Repository) NextNumber(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID) (int64, error) {
	const q = `INSERT INTO counters (tenant_id, name, value) VALUES ($1, 'order_number', 1)
		ON CONFLICT (tenant_id, name) DO UPDATE SET value = counters.value + 1
		RETURNING value`
	var n int64
	err := tx.QueryRow(ctx, q, tenantID).Scan(&n)
	return n, err
}

// Create inserts an order with a freshly allocated per-tenant number.
func (r *Repository) Create(ctx context.Context, tenantID uuid.UUID, tableRef, notes string, items []models.OrderItem) (*models.Order, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	number, err := r.NextNumber(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(tx.QueryRow(ctx,
		`INSERT INTO orders (tenant_id, number, table_ref, notes, items)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), $5)
		RETURNING `+orderColumns,
		tenantID, number, tableRef, notes, itemsJSON))
	if err != nil {
		return nil, err
	}
	return order, tx.Commit(ctx)
}

// ListByTenant returns the tenant's orders, newest first.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 ORDER BY number DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

// GetByID returns an order within the tenant.
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $2 AND tenant_id = $1`, tenantID, id))
}

// UpdateStatus moves an order from one status to another within the
// tenant. The expected current status is part of the predicate, so of two
// concurrent transitions only the first matches and the loser sees no
// rows instead of silently overwriting.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, from, to models.OrderStatus) (*models.Order, error) {
	const q = `UPDATE orders SET status = $4, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $1 AND status = $3 RETURNING ` + orderColumns
	return scanOrder(r.pool.QueryRow(ctx, q, tenantID, id, string(from), string(to)))
}

// IsNotFound reports whether err is a no-rows result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
