package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contia/internal/domain"
	"contia/internal/pnl"
	"contia/internal/service"
	"contia/mocks"
)

type reportFixture struct {
	companyRepo  *mocks.MockCompanyRepo
	overrideRepo *mocks.MockPnlOverrideRepo
	docRepo      *mocks.MockDocumentRepo
	billingRepo  *mocks.MockBillingRepo
	extraRepo    *mocks.MockNoInvoiceExpenseRepo
	svc          service.ReportService
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		companyRepo:  new(mocks.MockCompanyRepo),
		overrideRepo: new(mocks.MockPnlOverrideRepo),
		docRepo:      new(mocks.MockDocumentRepo),
		billingRepo:  new(mocks.MockBillingRepo),
		extraRepo:    new(mocks.MockNoInvoiceExpenseRepo),
	}
	summaries := service.NewSummaryService(f.docRepo, f.billingRepo, f.extraRepo, service.NewFilterGate())
	f.svc = service.NewReportService(f.companyRepo, f.overrideRepo, summaries)
	return f
}

func (f *reportFixture) withYear(companyID uuid.UUID, year int) {
	income := expenseDoc(companyID, time.Date(year, 2, 1, 0, 0, 0, 0, time.UTC), "Cliente SA", "3000", "21")
	income.Kind = domain.KindIncome
	income.ExpenseCategory = ""
	expense := expenseDoc(companyID, time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC), "Proveedor A", "1000", "21")

	f.companyRepo.On("GetByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
	f.docRepo.On("ListByYear", mock.Anything, companyID, year).Return([]domain.Document{income, expense}, nil)
	f.billingRepo.On("ListByYear", mock.Anything, companyID, year).Return([]domain.BillingEntry{}, nil)
	f.extraRepo.On("ListByYear", mock.Anything, companyID, year).Return([]domain.NoInvoiceExpense{}, nil)
}

func TestReportService_Statement(t *testing.T) {
	companyID := uuid.New()
	f := newReportFixture()
	f.withYear(companyID, 2024)
	f.overrideRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.PnlOverride{}, nil)

	st, err := f.svc.Statement(context.Background(), companyID, 2024)
	require.NoError(t, err)

	assertDec(t, "3000.00", st.Lines[pnl.KeyNetRevenue])
	assertDec(t, "1000.00", st.Lines[pnl.KeyCostOfGoods])
	assertDec(t, "2000.00", st.OperatingResult)
	assertDec(t, "2000.00", st.PreTaxResult)
	// Individual filer pays the 15% IRPF estimate.
	assertDec(t, "300.00", st.TaxesEstimate)
	assertDec(t, "1700.00", st.NetResult)
	assert.Empty(t, st.Overridden)
}

func TestReportService_Statement_AppliesStoredOverrides(t *testing.T) {
	companyID := uuid.New()
	f := newReportFixture()
	f.withYear(companyID, 2024)
	f.overrideRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.PnlOverride{
		{CompanyID: companyID, Year: 2024, LineKey: pnl.KeyPersonnel, Value: d("500")},
	}, nil)

	st, err := f.svc.Statement(context.Background(), companyID, 2024)
	require.NoError(t, err)

	assertDec(t, "500.00", st.Lines[pnl.KeyPersonnel])
	assert.True(t, st.Overridden[pnl.KeyPersonnel])
	assertDec(t, "1500.00", st.PreTaxResult)
	assertDec(t, "225.00", st.TaxesEstimate)
	assertDec(t, "1275.00", st.NetResult)
}

func TestReportService_SetOverride(t *testing.T) {
	companyID := uuid.New()

	t.Run("persists and returns the recomputed statement", func(t *testing.T) {
		f := newReportFixture()
		f.withYear(companyID, 2024)
		f.overrideRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.PnlOverride")).Return(nil)
		f.overrideRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.PnlOverride{
			{CompanyID: companyID, Year: 2024, LineKey: pnl.KeyRents, Value: d("250")},
		}, nil)

		st, err := f.svc.SetOverride(context.Background(), companyID, 2024, service.OverrideInput{
			LineKey: pnl.KeyRents,
			Value:   d("250"),
		})
		require.NoError(t, err)
		assertDec(t, "250.00", st.Lines[pnl.KeyRents])
		assert.True(t, st.Overridden[pnl.KeyRents])
		f.overrideRepo.AssertCalled(t, "Upsert", mock.Anything, mock.AnythingOfType("*domain.PnlOverride"))
	})

	t.Run("rejects unknown line keys", func(t *testing.T) {
		f := newReportFixture()

		_, err := f.svc.SetOverride(context.Background(), companyID, 2024, service.OverrideInput{
			LineKey: "made_up_line",
			Value:   d("1"),
		})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		f.overrideRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("the taxes line itself is overridable", func(t *testing.T) {
		f := newReportFixture()
		f.withYear(companyID, 2024)
		f.overrideRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.PnlOverride")).Return(nil)
		f.overrideRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.PnlOverride{
			{CompanyID: companyID, Year: 2024, LineKey: pnl.KeyTaxes, Value: d("123.45")},
		}, nil)

		st, err := f.svc.SetOverride(context.Background(), companyID, 2024, service.OverrideInput{
			LineKey: pnl.KeyTaxes,
			Value:   d("123.45"),
		})
		require.NoError(t, err)
		assertDec(t, "123.45", st.TaxesEstimate)
		assertDec(t, "1876.55", st.NetResult)
	})
}

func TestReportService_ClearOverride(t *testing.T) {
	companyID := uuid.New()
	f := newReportFixture()
	f.withYear(companyID, 2024)
	f.overrideRepo.On("Delete", mock.Anything, companyID, 2024, pnl.KeyPersonnel).Return(nil)
	f.overrideRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.PnlOverride{}, nil)

	st, err := f.svc.ClearOverride(context.Background(), companyID, 2024, pnl.KeyPersonnel)
	require.NoError(t, err)
	assertDec(t, "0.00", st.Lines[pnl.KeyPersonnel])
	assert.False(t, st.Overridden[pnl.KeyPersonnel])
	f.overrideRepo.AssertCalled(t, "Delete", mock.Anything, companyID, 2024, pnl.KeyPersonnel)
}
