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

type billingRepo struct {
	db *sqlx.DB
}

// NewBillingRepo creates a new PostgreSQL-backed BillingRepository.
func NewBillingRepo(db *sqlx.DB) port.BillingRepository {
	return &billingRepo{db: db}
}

func (r *billingRepo) Create(ctx context.Context, entry *domain.BillingEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `INSERT INTO billing_entries (id, company_id, month, year, base, vat_rate, vat_charged, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.CompanyID, entry.Month, entry.Year,
		entry.Base, entry.VatRate, entry.VatCharged,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("billingRepo.Create: %w", err)
	}
	return nil
}

func (r *billingRepo) Update(ctx context.Context, entry *domain.BillingEntry) error {
	entry.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE billing_entries SET base = $1, vat_rate = $2, vat_charged = $3, updated_at = $4
		WHERE id = $5 AND company_id = $6`,
		entry.Base, entry.VatRate, entry.VatCharged, entry.UpdatedAt,
		entry.ID, entry.CompanyID)
	if err != nil {
		return fmt.Errorf("billingRepo.Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("billingRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *billingRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM billing_entries WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		return fmt.Errorf("billingRepo.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("billingRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *billingRepo) ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.BillingEntry, error) {
	var out []domain.BillingEntry
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM billing_entries WHERE company_id = $1 AND month = $2 AND year = $3
		ORDER BY created_at`,
		companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("billingRepo.ListByMonth: %w", err)
	}
	return out, nil
}

func (r *billingRepo) ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.BillingEntry, error) {
	var out []domain.BillingEntry
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM billing_entries WHERE company_id = $1 AND year = $2
		ORDER BY month, created_at`,
		companyID, year)
	if err != nil {
		return nil, fmt.Errorf("billingRepo.ListByYear: %w", err)
	}
	return out, nil
}
