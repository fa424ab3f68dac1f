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

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (id, company_id, kind, issue_date, counterparty,
		base_amount, vat_rate, vat_amount, total_amount, vat_breakdown,
		expense_category, payment_date, payment_dates,
		original_filename, stored_filename, analysis_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.CompanyID, doc.Kind, doc.IssueDate, doc.Counterparty,
		doc.BaseAmount, doc.VatRate, doc.VatAmount, doc.TotalAmount, doc.VatBreakdown,
		doc.ExpenseCategory, doc.PaymentDate, doc.PaymentDates,
		doc.OriginalFilename, doc.StoredFilename, doc.AnalysisText,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	query := `UPDATE documents SET issue_date = $1, counterparty = $2,
		base_amount = $3, vat_rate = $4, vat_amount = $5, total_amount = $6,
		vat_breakdown = $7, expense_category = $8, payment_date = $9,
		payment_dates = $10, analysis_text = $11, updated_at = $12
		WHERE id = $13 AND company_id = $14`

	res, err := r.db.ExecContext(ctx, query,
		doc.IssueDate, doc.Counterparty,
		doc.BaseAmount, doc.VatRate, doc.VatAmount, doc.TotalAmount,
		doc.VatBreakdown, doc.ExpenseCategory, doc.PaymentDate,
		doc.PaymentDates, doc.AnalysisText, doc.UpdatedAt,
		doc.ID, doc.CompanyID)
	if err != nil {
		return fmt.Errorf("documentRepo.Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("documentRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("documentRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) ListByMonth(ctx context.Context, companyID uuid.UUID, kind domain.DocumentKind, month, year int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents
		WHERE company_id = $1 AND kind = $2
		AND EXTRACT(MONTH FROM issue_date) = $3 AND EXTRACT(YEAR FROM issue_date) = $4
		ORDER BY issue_date, created_at`,
		companyID, kind, month, year)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByMonth: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents
		WHERE company_id = $1 AND EXTRACT(YEAR FROM issue_date) = $2
		ORDER BY issue_date, created_at`,
		companyID, year)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByYear: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) AvailableYears(ctx context.Context, companyID uuid.UUID) ([]int, error) {
	var years []int
	err := r.db.SelectContext(ctx, &years,
		`SELECT DISTINCT EXTRACT(YEAR FROM issue_date)::int AS year
		FROM documents WHERE company_id = $1 ORDER BY year DESC`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.AvailableYears: %w", err)
	}
	return years, nil
}
