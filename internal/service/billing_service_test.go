package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contia/internal/domain"
	"contia/internal/service"
	"contia/mocks"
)

func TestBillingService_Create(t *testing.T) {
	companyID := uuid.New()

	t.Run("derives the VAT charged when omitted", func(t *testing.T) {
		repo := new(mocks.MockBillingRepo)
		svc := service.NewBillingService(repo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BillingEntry")).Return(nil)

		entry, err := svc.Create(context.Background(), companyID, service.BillingInput{
			Month:   3,
			Year:    2024,
			Base:    d("1000"),
			VatRate: d("21"),
		})
		require.NoError(t, err)
		assertDec(t, "210.00", entry.VatCharged)
		assertDec(t, "1000.00", entry.Base)
	})

	t.Run("keeps an explicit VAT charged figure", func(t *testing.T) {
		repo := new(mocks.MockBillingRepo)
		svc := service.NewBillingService(repo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BillingEntry")).Return(nil)

		entry, err := svc.Create(context.Background(), companyID, service.BillingInput{
			Month:      3,
			Year:       2024,
			Base:       d("1000"),
			VatRate:    d("21"),
			VatCharged: d("209.99"),
		})
		require.NoError(t, err)
		assertDec(t, "209.99", entry.VatCharged)
	})

	t.Run("normalizes the rate", func(t *testing.T) {
		repo := new(mocks.MockBillingRepo)
		svc := service.NewBillingService(repo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BillingEntry")).Return(nil)

		entry, err := svc.Create(context.Background(), companyID, service.BillingInput{
			Month:   3,
			Year:    2024,
			Base:    d("100"),
			VatRate: d("21.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "21", entry.VatRate.String())
	})

	t.Run("rejects out-of-range months and negative amounts", func(t *testing.T) {
		repo := new(mocks.MockBillingRepo)
		svc := service.NewBillingService(repo)

		_, err := svc.Create(context.Background(), companyID, service.BillingInput{
			Month:   13,
			Year:    2024,
			Base:    d("-5"),
			VatRate: decimal.Zero,
		})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestBillingService_Update(t *testing.T) {
	companyID := uuid.New()
	entryID := uuid.New()
	repo := new(mocks.MockBillingRepo)
	svc := service.NewBillingService(repo)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.BillingEntry")).Return(nil)

	entry, err := svc.Update(context.Background(), companyID, entryID, service.BillingInput{
		Month:   6,
		Year:    2024,
		Base:    d("500"),
		VatRate: d("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, entryID, entry.ID)
	assertDec(t, "50.00", entry.VatCharged)
}
