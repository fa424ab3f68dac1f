package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/period"
	"contia/internal/port"
	"contia/internal/tax"
)

// gateKey scopes filter generations per company and document kind, so an
// expenses filter change never invalidates an income request in flight.
type gateKey struct {
	companyID uuid.UUID
	kind      domain.DocumentKind
}

// FilterGate implements last-filter-wins for dashboard summaries. Every new
// request bumps the generation for its scope; an older request that finishes
// after a newer one started observes a stale generation and is discarded.
type FilterGate struct {
	mu  sync.Mutex
	gen map[gateKey]uint64
}

// NewFilterGate creates an empty gate.
func NewFilterGate() *FilterGate {
	return &FilterGate{gen: make(map[gateKey]uint64)}
}

// Begin registers a new request and returns its generation token.
func (g *FilterGate) Begin(companyID uuid.UUID, kind domain.DocumentKind) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := gateKey{companyID: companyID, kind: kind}
	g.gen[k]++
	return g.gen[k]
}

// Stale reports whether a newer request superseded the given token.
func (g *FilterGate) Stale(companyID uuid.UUID, kind domain.DocumentKind, token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen[gateKey{companyID: companyID, kind: kind}] != token
}

// SummaryFilter selects the reporting window of a dashboard request.
type SummaryFilter struct {
	Kind   domain.DocumentKind
	Period domain.PeriodType
	Month  int
	Year   int
}

// SummaryService computes dashboard period summaries and annual figures.
type SummaryService interface {
	Summary(ctx context.Context, companyID uuid.UUID, filter SummaryFilter) (*domain.PeriodSummary, error)
	BillingSummary(ctx context.Context, companyID uuid.UUID, month, year int, periodType domain.PeriodType) (*domain.PeriodSummary, error)
	AnnualFigures(ctx context.Context, companyID uuid.UUID, year int) (income, expenses decimal.Decimal, err error)
}

type summaryService struct {
	docRepo     port.DocumentRepository
	billingRepo port.BillingRepository
	extraRepo   port.NoInvoiceExpenseRepository
	gate        *FilterGate
}

// NewSummaryService creates a new SummaryService implementation.
func NewSummaryService(
	docRepo port.DocumentRepository,
	billingRepo port.BillingRepository,
	extraRepo port.NoInvoiceExpenseRepository,
	gate *FilterGate,
) SummaryService {
	return &summaryService{
		docRepo:     docRepo,
		billingRepo: billingRepo,
		extraRepo:   extraRepo,
		gate:        gate,
	}
}

// Summary computes the month or quarter view for one document kind. Quarter
// requests fetch the three months concurrently and merge the results. When a
// newer filter arrives while this one is still computing, the stale result is
// dropped and domain.ErrStaleFilter returned.
func (s *summaryService) Summary(ctx context.Context, companyID uuid.UUID, filter SummaryFilter) (*domain.PeriodSummary, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	token := s.gate.Begin(companyID, filter.Kind)

	var summary *domain.PeriodSummary
	var err error
	switch filter.Period {
	case domain.PeriodQuarter:
		summary, err = s.quarterSummary(ctx, companyID, filter)
	default:
		summary, err = s.monthSummary(ctx, companyID, filter)
	}
	if err != nil {
		return nil, err
	}

	if s.gate.Stale(companyID, filter.Kind, token) {
		return nil, domain.ErrStaleFilter
	}
	return summary, nil
}

func (s *summaryService) monthSummary(ctx context.Context, companyID uuid.UUID, filter SummaryFilter) (*domain.PeriodSummary, error) {
	docs, err := s.docRepo.ListByMonth(ctx, companyID, filter.Kind, filter.Month, filter.Year)
	if err != nil {
		return nil, fmt.Errorf("summary.month: %w", err)
	}
	return period.MonthlySummary(docs, filter.Month, filter.Year), nil
}

func (s *summaryService) quarterSummary(ctx context.Context, companyID uuid.UUID, filter SummaryFilter) (*domain.PeriodSummary, error) {
	months := period.QuarterMonths(filter.Month)
	perMonth := make([]*domain.PeriodSummary, len(months))
	errs := make(chan error, len(months))

	var wg sync.WaitGroup
	for i, m := range months {
		wg.Add(1)
		go func(i, m int) {
			defer wg.Done()
			docs, err := s.docRepo.ListByMonth(ctx, companyID, filter.Kind, m, filter.Year)
			if err != nil {
				errs <- fmt.Errorf("summary.quarter month %d: %w", m, err)
				return
			}
			perMonth[i] = period.MonthlySummary(docs, m, filter.Year)
		}(i, m)
	}
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return nil, err
	}

	return period.MergeSummaries(perMonth), nil
}

// BillingSummary aggregates manually declared billing entries over a month or
// the containing quarter: per-rate base and VAT-charged buckets plus totals.
func (s *summaryService) BillingSummary(ctx context.Context, companyID uuid.UUID, month, year int, periodType domain.PeriodType) (*domain.PeriodSummary, error) {
	months := []int{month}
	if periodType == domain.PeriodQuarter {
		months = period.QuarterMonths(month)
	}

	summary := &domain.PeriodSummary{
		Months:     months,
		Year:       year,
		BaseTotals: map[string]decimal.Decimal{"0": decimal.Zero, "4": decimal.Zero, "10": decimal.Zero, "21": decimal.Zero},
		VatTotals:  map[string]decimal.Decimal{"0": decimal.Zero, "4": decimal.Zero, "10": decimal.Zero, "21": decimal.Zero},
	}
	for _, m := range months {
		entries, err := s.billingRepo.ListByMonth(ctx, companyID, m, year)
		if err != nil {
			return nil, fmt.Errorf("summary.billing: %w", err)
		}
		monthTotal := decimal.Zero
		for _, e := range entries {
			key := tax.NormalizeRate(e.VatRate).String()
			summary.BaseTotals[key] = summary.BaseTotals[key].Add(e.Base)
			summary.VatTotals[key] = summary.VatTotals[key].Add(e.VatCharged)
			summary.Total = summary.Total.Add(e.Base)
			summary.TotalVat = summary.TotalVat.Add(e.VatCharged)
			monthTotal = monthTotal.Add(e.Base)
		}
		summary.MonthlyTotals = append(summary.MonthlyTotals, tax.Round2(monthTotal))
	}

	for k, v := range summary.BaseTotals {
		summary.BaseTotals[k] = tax.Round2(v)
	}
	for k, v := range summary.VatTotals {
		summary.VatTotals[k] = tax.Round2(v)
	}
	summary.Total = tax.Round2(summary.Total)
	summary.TotalVat = tax.Round2(summary.TotalVat)
	return summary, nil
}

// AnnualFigures returns the net income and deductible expense totals of a
// year, the two inputs of the profit-and-loss statement.
func (s *summaryService) AnnualFigures(ctx context.Context, companyID uuid.UUID, year int) (decimal.Decimal, decimal.Decimal, error) {
	docs, err := s.docRepo.ListByYear(ctx, companyID, year)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summary.annual: %w", err)
	}
	billing, err := s.billingRepo.ListByYear(ctx, companyID, year)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summary.annual: %w", err)
	}
	extras, err := s.extraRepo.ListByYear(ctx, companyID, year)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summary.annual: %w", err)
	}

	income := period.AnnualIncome(docs, billing, year)
	expenses := period.AnnualDeductibleExpenses(docs, extras, year)
	return income, expenses, nil
}

func validateFilter(filter SummaryFilter) error {
	var errs domain.ValidationErrors
	if !domain.ValidDocumentKinds[filter.Kind] {
		errs = append(errs, domain.ValidationError{Field: "kind", Message: "kind must be expense or income"})
	}
	if filter.Month < 1 || filter.Month > 12 {
		errs = append(errs, domain.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if filter.Year < 2000 || filter.Year > 2100 {
		errs = append(errs, domain.ValidationError{Field: "year", Message: "year out of range"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
