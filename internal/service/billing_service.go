package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/port"
	"contia/internal/tax"
)

// BillingInput is the DTO for manual billing declarations. The JSON keys are
// Spanish, matching the historical API.
type BillingInput struct {
	Month      int             `json:"mes" binding:"required"`
	Year       int             `json:"anio" binding:"required"`
	Base       decimal.Decimal `json:"base_facturada"`
	VatRate    decimal.Decimal `json:"tipo_iva"`
	VatCharged decimal.Decimal `json:"iva_repercutido"`
}

// BillingService manages manually declared monthly income.
type BillingService interface {
	Create(ctx context.Context, companyID uuid.UUID, input BillingInput) (*domain.BillingEntry, error)
	Update(ctx context.Context, companyID, id uuid.UUID, input BillingInput) (*domain.BillingEntry, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.BillingEntry, error)
}

type billingService struct {
	repo port.BillingRepository
}

// NewBillingService creates a new BillingService implementation.
func NewBillingService(repo port.BillingRepository) BillingService {
	return &billingService{repo: repo}
}

func (s *billingService) Create(ctx context.Context, companyID uuid.UUID, input BillingInput) (*domain.BillingEntry, error) {
	entry, err := s.fromInput(companyID, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("billing.Create: %w", err)
	}
	return entry, nil
}

func (s *billingService) Update(ctx context.Context, companyID, id uuid.UUID, input BillingInput) (*domain.BillingEntry, error) {
	entry, err := s.fromInput(companyID, input)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *billingService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.Delete(ctx, companyID, id)
}

func (s *billingService) ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.BillingEntry, error) {
	return s.repo.ListByMonth(ctx, companyID, month, year)
}

// fromInput validates and normalizes a declaration. A missing VAT-charged
// figure is derived from base and rate.
func (s *billingService) fromInput(companyID uuid.UUID, input BillingInput) (*domain.BillingEntry, error) {
	var errs domain.ValidationErrors
	if input.Month < 1 || input.Month > 12 {
		errs = append(errs, domain.ValidationError{Field: "mes", Message: "month must be between 1 and 12"})
	}
	if input.Year < 2000 || input.Year > 2100 {
		errs = append(errs, domain.ValidationError{Field: "anio", Message: "year out of range"})
	}
	if input.Base.IsNegative() {
		errs = append(errs, domain.ValidationError{Field: "base_facturada", Message: "base cannot be negative"})
	}
	if input.VatRate.IsNegative() {
		errs = append(errs, domain.ValidationError{Field: "tipo_iva", Message: "rate cannot be negative"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	charged := input.VatCharged
	if charged.IsZero() && !input.Base.IsZero() && !input.VatRate.IsZero() {
		charged = tax.Round2(input.Base.Mul(input.VatRate).Div(decimal.NewFromInt(100)))
	}

	return &domain.BillingEntry{
		CompanyID:  companyID,
		Month:      input.Month,
		Year:       input.Year,
		Base:       tax.Round2(input.Base),
		VatRate:    tax.NormalizeRate(input.VatRate),
		VatCharged: charged,
	}, nil
}
