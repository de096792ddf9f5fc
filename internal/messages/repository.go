package messages

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viw-carta/backend/internal/models"
)

const messageColumns = `id, tenant_id, body, active, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanMessage(row pgx.Row) (*models.SystemMessage, error) {
	var m models.SystemMessage
	err := row.Scan(&m.ID, &m.TenantID, &m.Body, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.SystemMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM system_messages WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.SystemMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// ListActive returns the active messages shown on the public menu.
func (r *Repository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.SystemMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM system_messages WHERE tenant_id = $1 AND active ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.SystemMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

func (r *Repository) Create(ctx context.Context, tenantID uuid.UUID, body string, active bool) (*models.SystemMessage, error) {
	const q = `INSERT INTO system_messages (tenant_id, body, active)
		VALUES ($1, $2, $3) RETURNING ` + messageColumns
	return scanMessage(r.pool.QueryRow(ctx, q, tenantID, body, active))
}

func (r *Repository) Update(ctx context.Context, tenantID, id uuid.UUID, body string, active bool) (*models.SystemMessage, error) {
	const q = `UPDATE system_messages SET body = $3, active = $4, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $1 RETURNING ` + messageColumns
	return scanMessage(r.pool.QueryRow(ctx, q, tenantID, id, body, active))
}

func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM system_messages WHERE id = $2 AND tenant_id = $1`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
