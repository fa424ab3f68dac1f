package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"contia/internal/domain"
)

// MockPnlOverrideRepo is a mock implementation of port.PnlOverrideRepository.
type MockPnlOverrideRepo struct {
	mock.Mock
}

func (m *MockPnlOverrideRepo) Upsert(ctx context.Context, o *domain.PnlOverride) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockPnlOverrideRepo) Delete(ctx context.Context, companyID uuid.UUID, year int, lineKey string) error {
	args := m.Called(ctx, companyID, year, lineKey)
	return args.Error(0)
}

func (m *MockPnlOverrideRepo) ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.PnlOverride, error) {
	args := m.Called(ctx, companyID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PnlOverride), args.Error(1)
}
