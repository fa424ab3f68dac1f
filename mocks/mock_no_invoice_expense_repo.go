package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"contia/internal/domain"
)

// MockNoInvoiceExpenseRepo is a mock implementation of port.NoInvoiceExpenseRepository.
type MockNoInvoiceExpenseRepo struct {
	mock.Mock
}

func (m *MockNoInvoiceExpenseRepo) Create(ctx context.Context, e *domain.NoInvoiceExpense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockNoInvoiceExpenseRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.NoInvoiceExpense, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NoInvoiceExpense), args.Error(1)
}

func (m *MockNoInvoiceExpenseRepo) Update(ctx context.Context, e *domain.NoInvoiceExpense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockNoInvoiceExpenseRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockNoInvoiceExpenseRepo) ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.NoInvoiceExpense, error) {
	args := m.Called(ctx, companyID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NoInvoiceExpense), args.Error(1)
}

func (m *MockNoInvoiceExpenseRepo) ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.NoInvoiceExpense, error) {
	args := m.Called(ctx, companyID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NoInvoiceExpense), args.Error(1)
}
