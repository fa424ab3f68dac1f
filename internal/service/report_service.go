package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/pnl"
	"contia/internal/port"
)

// OverrideInput sets one P&L line to a manual value.
type OverrideInput struct {
	LineKey string          `json:"line_key" binding:"required"`
	Value   decimal.Decimal `json:"value"`
}

// ReportService computes the annual profit-and-loss statement and manages
// its sticky line overrides.
type ReportService interface {
	Statement(ctx context.Context, companyID uuid.UUID, year int) (*pnl.Statement, error)
	SetOverride(ctx context.Context, companyID uuid.UUID, year int, input OverrideInput) (*pnl.Statement, error)
	ClearOverride(ctx context.Context, companyID uuid.UUID, year int, lineKey string) (*pnl.Statement, error)
}

type reportService struct {
	companyRepo  port.CompanyRepository
	overrideRepo port.PnlOverrideRepository
	summaries    SummaryService
}

// NewReportService creates a new ReportService implementation.
func NewReportService(companyRepo port.CompanyRepository, overrideRepo port.PnlOverrideRepository, summaries SummaryService) ReportService {
	return &reportService{
		companyRepo:  companyRepo,
		overrideRepo: overrideRepo,
		summaries:    summaries,
	}
}

// Statement computes the year's statement from the ledger totals and the
// stored overrides. Nothing is cached: edits elsewhere show up on the next
// call.
func (s *reportService) Statement(ctx context.Context, companyID uuid.UUID, year int) (*pnl.Statement, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("report.Statement: %w", err)
	}

	income, expenses, err := s.summaries.AnnualFigures(ctx, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("report.Statement: %w", err)
	}

	stored, err := s.overrideRepo.ListByYear(ctx, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("report.Statement: %w", err)
	}
	overrides := make(map[string]decimal.Decimal, len(stored))
	for _, o := range stored {
		overrides[o.LineKey] = o.Value
	}

	return pnl.Compute(year, income, expenses, company.Filer, overrides), nil
}

// SetOverride stores a manual line value and returns the recomputed
// statement. Overrides stick across recomputations until cleared.
func (s *reportService) SetOverride(ctx context.Context, companyID uuid.UUID, year int, input OverrideInput) (*pnl.Statement, error) {
	if !pnl.IsOverridableKey(input.LineKey) {
		return nil, domain.ValidationErrors{{Field: "line_key", Message: "unknown profit and loss line"}}
	}
	if err := s.overrideRepo.Upsert(ctx, &domain.PnlOverride{
		CompanyID: companyID,
		Year:      year,
		LineKey:   input.LineKey,
		Value:     input.Value,
	}); err != nil {
		return nil, fmt.Errorf("report.SetOverride: %w", err)
	}
	return s.Statement(ctx, companyID, year)
}

// ClearOverride removes a manual value; the line falls back to its computed
// figure in the returned statement.
func (s *reportService) ClearOverride(ctx context.Context, companyID uuid.UUID, year int, lineKey string) (*pnl.Statement, error) {
	if err := s.overrideRepo.Delete(ctx, companyID, year, lineKey); err != nil {
		return nil, err
	}
	return s.Statement(ctx, companyID, year)
}
