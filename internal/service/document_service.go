package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/port"
	"contia/internal/reconcile"
	"contia/internal/tax"
)

// DocumentInput is the DTO for direct document creation and full updates.
type DocumentInput struct {
	Kind            domain.DocumentKind    `json:"kind" binding:"required"`
	IssueDate       string                 `json:"issue_date" binding:"required"`
	Counterparty    string                 `json:"counterparty" binding:"required"`
	BaseAmount      decimal.Decimal        `json:"base_amount"`
	VatRate         decimal.Decimal        `json:"vat_rate"`
	VatAmount       decimal.Decimal        `json:"vat_amount"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	VatBreakdown    domain.VatLines        `json:"vat_breakdown"`
	ExpenseCategory domain.ExpenseCategory `json:"expense_category"`
	PaymentDate     string                 `json:"payment_date"`
}

// FieldEditInput is the DTO for single-field money edits.
type FieldEditInput struct {
	Field string          `json:"field" binding:"required"`
	Value decimal.Decimal `json:"value"`
}

// DocumentService defines the persisted-document contract.
type DocumentService interface {
	Create(ctx context.Context, companyID uuid.UUID, input DocumentInput) (*domain.Document, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error)
	Update(ctx context.Context, companyID, id uuid.UUID, input DocumentInput) (*domain.Document, error)
	EditMoneyField(ctx context.Context, companyID, id uuid.UUID, input FieldEditInput) (*domain.Document, error)
	UpdateBreakdown(ctx context.Context, companyID, id uuid.UUID, lines domain.VatLines) (*domain.Document, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	ListByMonth(ctx context.Context, companyID uuid.UUID, kind domain.DocumentKind, month, year int) ([]domain.Document, error)
	AvailableYears(ctx context.Context, companyID uuid.UUID) ([]int, error)
}

type documentService struct {
	docRepo     port.DocumentRepository
	companyRepo port.CompanyRepository
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(docRepo port.DocumentRepository, companyRepo port.CompanyRepository) DocumentService {
	return &documentService{docRepo: docRepo, companyRepo: companyRepo}
}

func (s *documentService) Create(ctx context.Context, companyID uuid.UUID, input DocumentInput) (*domain.Document, error) {
	doc, err := s.fromInput(companyID, input)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("document.Create: %w", err)
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, companyID, id)
}

func (s *documentService) Update(ctx context.Context, companyID, id uuid.UUID, input DocumentInput) (*domain.Document, error) {
	existing, err := s.docRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	doc, err := s.fromInput(companyID, input)
	if err != nil {
		return nil, err
	}
	doc.ID = existing.ID
	doc.Kind = existing.Kind
	doc.OriginalFilename = existing.OriginalFilename
	doc.StoredFilename = existing.StoredFilename
	doc.AnalysisText = existing.AnalysisText
	doc.CreatedAt = existing.CreatedAt

	if err := s.validate(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("document.Update: %w", err)
	}
	return doc, nil
}

// EditMoneyField applies a single-figure edit and re-derives the rest of the
// trio. Documents carrying a breakdown reject flat edits: their flat fields
// are mirrors and only line changes may move them.
func (s *documentService) EditMoneyField(ctx context.Context, companyID, id uuid.UUID, input FieldEditInput) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if doc.HasBreakdown() {
		return nil, domain.ValidationErrors{{
			Field:   input.Field,
			Message: "flat amounts mirror the VAT breakdown; edit the breakdown lines instead",
		}}
	}

	f := tax.Figures{
		Base:      doc.BaseAmount,
		Rate:      doc.VatRate,
		VatAmount: doc.VatAmount,
		Total:     doc.TotalAmount,
	}
	switch input.Field {
	case domain.FieldBaseAmount:
		f.Base = input.Value
	case domain.FieldVatRate:
		f.Rate = input.Value
	case domain.FieldVatAmount:
		f.VatAmount = input.Value
	case domain.FieldTotalAmount:
		f.Total = input.Value
	default:
		return nil, domain.ValidationErrors{{Field: input.Field, Message: "not an editable money field"}}
	}
	f = tax.ApplyEdit(f, input.Field)

	doc.BaseAmount = f.Base
	doc.VatRate = f.Rate
	doc.VatAmount = f.VatAmount
	doc.TotalAmount = f.Total

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("document.EditMoneyField: %w", err)
	}
	return doc, nil
}

// UpdateBreakdown replaces the breakdown lines and recomputes the flat
// mirrors. An empty list removes the breakdown and leaves the flat figures
// as they are, now directly editable again.
func (s *documentService) UpdateBreakdown(ctx context.Context, companyID, id uuid.UUID, lines domain.VatLines) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	normalized, err := breakdownFromInput(lines)
	if err != nil {
		return nil, err
	}
	doc.VatBreakdown = normalized
	if len(normalized) > 0 {
		base, vat, total := tax.Aggregate(normalized)
		doc.BaseAmount = base
		doc.VatAmount = vat
		doc.TotalAmount = total
		doc.VatRate = tax.PrimaryRate(normalized, doc.VatRate)
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("document.UpdateBreakdown: %w", err)
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.docRepo.Delete(ctx, companyID, id)
}

func (s *documentService) ListByMonth(ctx context.Context, companyID uuid.UUID, kind domain.DocumentKind, month, year int) ([]domain.Document, error) {
	return s.docRepo.ListByMonth(ctx, companyID, kind, month, year)
}

func (s *documentService) AvailableYears(ctx context.Context, companyID uuid.UUID) ([]int, error) {
	return s.docRepo.AvailableYears(ctx, companyID)
}

// breakdownFromInput re-derives each line's VAT amount and total from its
// rate and base. Per-line figures sent by the client are never trusted: the
// single-rate formula with line-level rounding is the only source of them.
func breakdownFromInput(lines domain.VatLines) (domain.VatLines, error) {
	var errs domain.ValidationErrors
	raws := make([]tax.RawLine, 0, len(lines))
	for i, l := range lines {
		if l.Rate.IsNegative() {
			errs = append(errs, domain.ValidationError{
				Field:   fmt.Sprintf("vat_breakdown[%d].rate", i),
				Message: "rate cannot be negative",
			})
		}
		if l.Base.IsNegative() {
			errs = append(errs, domain.ValidationError{
				Field:   fmt.Sprintf("vat_breakdown[%d].base", i),
				Message: "base cannot be negative",
			})
		}
		raws = append(raws, tax.RawLine{
			Rate: decimal.NewNullDecimal(l.Rate),
			Base: decimal.NewNullDecimal(l.Base),
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return tax.NormalizeLines(raws), nil
}

func (s *documentService) fromInput(companyID uuid.UUID, input DocumentInput) (*domain.Document, error) {
	issueDate, err := time.Parse(domain.DateLayout, input.IssueDate)
	if err != nil {
		return nil, domain.ValidationErrors{{Field: domain.FieldIssueDate, Message: "issue date must be YYYY-MM-DD"}}
	}

	doc := &domain.Document{
		CompanyID:       companyID,
		Kind:            input.Kind,
		IssueDate:       issueDate,
		Counterparty:    input.Counterparty,
		BaseAmount:      input.BaseAmount,
		VatRate:         input.VatRate,
		VatAmount:       input.VatAmount,
		TotalAmount:     input.TotalAmount,
		ExpenseCategory: input.ExpenseCategory,
	}

	if input.PaymentDate != "" {
		pay, err := time.Parse(domain.DateLayout, input.PaymentDate)
		if err != nil {
			return nil, domain.ValidationErrors{{Field: domain.FieldPaymentDate, Message: "payment date must be YYYY-MM-DD"}}
		}
		doc.PaymentDate = &pay
		doc.PaymentDates = domain.DateList{input.PaymentDate}
	}

	// The breakdown, when present, is authoritative over the flat figures.
	if len(input.VatBreakdown) > 0 {
		lines, err := breakdownFromInput(input.VatBreakdown)
		if err != nil {
			return nil, err
		}
		doc.VatBreakdown = lines
		base, vat, total := tax.Aggregate(lines)
		doc.BaseAmount = base
		doc.VatAmount = vat
		doc.TotalAmount = total
		doc.VatRate = tax.PrimaryRate(lines, doc.VatRate)
	}

	return doc, nil
}

func (s *documentService) validate(ctx context.Context, doc *domain.Document) error {
	company, err := s.companyRepo.GetByID(ctx, doc.CompanyID)
	if err != nil {
		return fmt.Errorf("document.validate: %w", err)
	}
	if errs := reconcile.ValidateForSubmit(doc, []string{company.Name, company.LegalName}); len(errs) > 0 {
		return errs
	}
	return nil
}
