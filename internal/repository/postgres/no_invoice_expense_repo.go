package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"contia/internal/domain"
	"contia/internal/port"
)

type noInvoiceExpenseRepo struct {
	db *sqlx.DB
}

// NewNoInvoiceExpenseRepo creates a new PostgreSQL-backed NoInvoiceExpenseRepository.
func NewNoInvoiceExpenseRepo(db *sqlx.DB) port.NoInvoiceExpenseRepository {
	return &noInvoiceExpenseRepo{db: db}
}

func (r *noInvoiceExpenseRepo) Create(ctx context.Context, e *domain.NoInvoiceExpense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `INSERT INTO no_invoice_expenses (id, company_id, expense_date, concept, amount,
		expense_type, deductible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.CompanyID, e.ExpenseDate, e.Concept, e.Amount,
		e.ExpenseType, e.Deductible, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("noInvoiceExpenseRepo.Create: %w", err)
	}
	return nil
}

func (r *noInvoiceExpenseRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.NoInvoiceExpense, error) {
	var e domain.NoInvoiceExpense
	err := r.db.GetContext(ctx, &e,
		"SELECT * FROM no_invoice_expenses WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("noInvoiceExpenseRepo.GetByID: %w", err)
	}
	return &e, nil
}

func (r *noInvoiceExpenseRepo) Update(ctx context.Context, e *domain.NoInvoiceExpense) error {
	e.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE no_invoice_expenses SET expense_date = $1, concept = $2, amount = $3,
		expense_type = $4, deductible = $5, updated_at = $6
		WHERE id = $7 AND company_id = $8`,
		e.ExpenseDate, e.Concept, e.Amount, e.ExpenseType, e.Deductible, e.UpdatedAt,
		e.ID, e.CompanyID)
	if err != nil {
		return fmt.Errorf("noInvoiceExpenseRepo.Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("noInvoiceExpenseRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *noInvoiceExpenseRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM no_invoice_expenses WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		return fmt.Errorf("noInvoiceExpenseRepo.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("noInvoiceExpenseRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *noInvoiceExpenseRepo) ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.NoInvoiceExpense, error) {
	var out []domain.NoInvoiceExpense
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM no_invoice_expenses
		WHERE company_id = $1
		AND EXTRACT(MONTH FROM expense_date) = $2 AND EXTRACT(YEAR FROM expense_date) = $3
		ORDER BY expense_date, created_at`,
		companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("noInvoiceExpenseRepo.ListByMonth: %w", err)
	}
	return out, nil
}

func (r *noInvoiceExpenseRepo) ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.NoInvoiceExpense, error) {
	var out []domain.NoInvoiceExpense
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM no_invoice_expenses
		WHERE company_id = $1 AND EXTRACT(YEAR FROM expense_date) = $2
		ORDER BY expense_date, created_at`,
		companyID, year)
	if err != nil {
		return nil, fmt.Errorf("noInvoiceExpenseRepo.ListByYear: %w", err)
	}
	return out, nil
}
