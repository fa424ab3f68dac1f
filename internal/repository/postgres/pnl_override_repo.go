package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"contia/internal/domain"
	"contia/internal/port"
)

type pnlOverrideRepo struct {
	db *sqlx.DB
}

// NewPnlOverrideRepo creates a new PostgreSQL-backed PnlOverrideRepository.
func NewPnlOverrideRepo(db *sqlx.DB) port.PnlOverrideRepository {
	return &pnlOverrideRepo{db: db}
}

func (r *pnlOverrideRepo) Upsert(ctx context.Context, o *domain.PnlOverride) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.UpdatedAt = time.Now().UTC()

	query := `INSERT INTO pnl_overrides (id, company_id, year, line_key, value, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, year, line_key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.CompanyID, o.Year, o.LineKey, o.Value, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pnlOverrideRepo.Upsert: %w", err)
	}
	return nil
}

func (r *pnlOverrideRepo) Delete(ctx context.Context, companyID uuid.UUID, year int, lineKey string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM pnl_overrides WHERE company_id = $1 AND year = $2 AND line_key = $3",
		companyID, year, lineKey)
	if err != nil {
		return fmt.Errorf("pnlOverrideRepo.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pnlOverrideRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pnlOverrideRepo) ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.PnlOverride, error) {
	var out []domain.PnlOverride
	err := r.db.SelectContext(ctx, &out,
		"SELECT * FROM pnl_overrides WHERE company_id = $1 AND year = $2 ORDER BY line_key",
		companyID, year)
	if err != nil {
		return nil, fmt.Errorf("pnlOverrideRepo.ListByYear: %w", err)
	}
	return out, nil
}
