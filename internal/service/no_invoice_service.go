package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/port"
	"contia/internal/tax"
)

// NoInvoiceExpenseInput is the DTO for expenses with no backing document.
type NoInvoiceExpenseInput struct {
	ExpenseDate string                      `json:"expense_date" binding:"required"`
	Concept     string                      `json:"concept" binding:"required"`
	Amount      decimal.Decimal             `json:"amount"`
	ExpenseType domain.NoInvoiceExpenseType `json:"expense_type" binding:"required"`
	Deductible  *bool                       `json:"deductible"`
}

// NoInvoiceExpenseService manages expenses with no backing document.
type NoInvoiceExpenseService interface {
	Create(ctx context.Context, companyID uuid.UUID, input NoInvoiceExpenseInput) (*domain.NoInvoiceExpense, error)
	Update(ctx context.Context, companyID, id uuid.UUID, input NoInvoiceExpenseInput) (*domain.NoInvoiceExpense, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.NoInvoiceExpense, error)
}

type noInvoiceExpenseService struct {
	repo port.NoInvoiceExpenseRepository
}

// NewNoInvoiceExpenseService creates a new NoInvoiceExpenseService implementation.
func NewNoInvoiceExpenseService(repo port.NoInvoiceExpenseRepository) NoInvoiceExpenseService {
	return &noInvoiceExpenseService{repo: repo}
}

func (s *noInvoiceExpenseService) Create(ctx context.Context, companyID uuid.UUID, input NoInvoiceExpenseInput) (*domain.NoInvoiceExpense, error) {
	e, err := s.fromInput(companyID, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("noInvoice.Create: %w", err)
	}
	return e, nil
}

func (s *noInvoiceExpenseService) Update(ctx context.Context, companyID, id uuid.UUID, input NoInvoiceExpenseInput) (*domain.NoInvoiceExpense, error) {
	existing, err := s.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	e, err := s.fromInput(companyID, input)
	if err != nil {
		return nil, err
	}
	e.ID = existing.ID
	e.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("noInvoice.Update: %w", err)
	}
	return e, nil
}

func (s *noInvoiceExpenseService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.Delete(ctx, companyID, id)
}

func (s *noInvoiceExpenseService) ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.NoInvoiceExpense, error) {
	return s.repo.ListByMonth(ctx, companyID, month, year)
}

func (s *noInvoiceExpenseService) fromInput(companyID uuid.UUID, input NoInvoiceExpenseInput) (*domain.NoInvoiceExpense, error) {
	var errs domain.ValidationErrors

	expenseDate, err := time.Parse(domain.DateLayout, input.ExpenseDate)
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "expense_date", Message: "expense date must be YYYY-MM-DD"})
	}
	if input.Concept == "" {
		errs = append(errs, domain.ValidationError{Field: "concept", Message: "concept is required"})
	}
	if input.Amount.IsNegative() {
		errs = append(errs, domain.ValidationError{Field: "amount", Message: "amount cannot be negative"})
	}
	if !domain.ValidNoInvoiceExpenseTypes[input.ExpenseType] {
		errs = append(errs, domain.ValidationError{Field: "expense_type", Message: "unknown expense type"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	// Deductible defaults to true unless explicitly declined.
	deductible := true
	if input.Deductible != nil {
		deductible = *input.Deductible
	}

	return &domain.NoInvoiceExpense{
		CompanyID:   companyID,
		ExpenseDate: expenseDate,
		Concept:     input.Concept,
		Amount:      tax.Round2(input.Amount),
		ExpenseType: input.ExpenseType,
		Deductible:  deductible,
	}, nil
}
