package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"contia/internal/domain"
)

// MockBillingRepo is a mock implementation of port.BillingRepository.
type MockBillingRepo struct {
	mock.Mock
}

func (m *MockBillingRepo) Create(ctx context.Context, entry *domain.BillingEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBillingRepo) Update(ctx context.Context, entry *domain.BillingEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBillingRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockBillingRepo) ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.BillingEntry, error) {
	args := m.Called(ctx, companyID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillingEntry), args.Error(1)
}

func (m *MockBillingRepo) ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.BillingEntry, error) {
	args := m.Called(ctx, companyID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillingEntry), args.Error(1)
}
