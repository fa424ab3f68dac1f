package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contia/internal/domain"
	"contia/internal/service"
	"contia/mocks"
)

func expenseDoc(companyID uuid.UUID, issue time.Time, counterparty, base, rate string) domain.Document {
	b := d(base)
	r := d(rate)
	vat := b.Mul(r).Div(decimal.NewFromInt(100)).Round(2)
	return domain.Document{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Kind:            domain.KindExpense,
		IssueDate:       issue,
		Counterparty:    counterparty,
		BaseAmount:      b,
		VatRate:         r,
		VatAmount:       vat,
		TotalAmount:     b.Add(vat),
		ExpenseCategory: domain.CategoryWithInvoice,
	}
}

func TestSummaryService_MonthSummary(t *testing.T) {
	companyID := uuid.New()
	docRepo := new(mocks.MockDocumentRepo)
	svc := service.NewSummaryService(docRepo, new(mocks.MockBillingRepo), new(mocks.MockNoInvoiceExpenseRepo), service.NewFilterGate())

	march := func(day int) time.Time {
		return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
	}
	docRepo.On("ListByMonth", mock.Anything, companyID, domain.KindExpense, 3, 2024).Return([]domain.Document{
		expenseDoc(companyID, march(5), "Proveedor A", "100", "21"),
		expenseDoc(companyID, march(5), "Proveedor A", "50", "21"),
		expenseDoc(companyID, march(20), "Proveedor B", "200", "10"),
	}, nil)

	summary, err := svc.Summary(context.Background(), companyID, service.SummaryFilter{
		Kind:   domain.KindExpense,
		Period: domain.PeriodMonth,
		Month:  3,
		Year:   2024,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{3}, summary.Months)
	assertDec(t, "150.00", summary.BaseTotals["21"])
	assertDec(t, "200.00", summary.BaseTotals["10"])
	assertDec(t, "31.50", summary.VatTotals["21"])
	assertDec(t, "20.00", summary.VatTotals["10"])
	assertDec(t, "51.50", summary.TotalVat)
	assertDec(t, "401.50", summary.Total)
	assertDec(t, "181.50", summary.SupplierTotals["Proveedor A"])

	// March has 31 days; the cumulative curve covers all of them.
	require.Len(t, summary.Cumulative, 31)
	assertDec(t, "181.50", summary.Cumulative[4])
	assertDec(t, "181.50", summary.Cumulative[18])
	assertDec(t, "401.50", summary.Cumulative[30])
}

func TestSummaryService_QuarterSummary(t *testing.T) {
	companyID := uuid.New()
	docRepo := new(mocks.MockDocumentRepo)
	svc := service.NewSummaryService(docRepo, new(mocks.MockBillingRepo), new(mocks.MockNoInvoiceExpenseRepo), service.NewFilterGate())

	docRepo.On("ListByMonth", mock.Anything, companyID, domain.KindExpense, 4, 2024).Return([]domain.Document{
		expenseDoc(companyID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "Proveedor A", "100", "21"),
	}, nil)
	docRepo.On("ListByMonth", mock.Anything, companyID, domain.KindExpense, 5, 2024).Return([]domain.Document{}, nil)
	docRepo.On("ListByMonth", mock.Anything, companyID, domain.KindExpense, 6, 2024).Return([]domain.Document{
		expenseDoc(companyID, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), "Proveedor B", "300", "10"),
	}, nil)

	summary, err := svc.Summary(context.Background(), companyID, service.SummaryFilter{
		Kind:   domain.KindExpense,
		Period: domain.PeriodQuarter,
		Month:  5,
		Year:   2024,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{4, 5, 6}, summary.Months)
	assertDec(t, "451.00", summary.Total)
	require.Len(t, summary.MonthlyTotals, 3)
	assertDec(t, "121.00", summary.MonthlyTotals[0])
	assertDec(t, "0.00", summary.MonthlyTotals[1])
	assertDec(t, "330.00", summary.MonthlyTotals[2])
	assert.Empty(t, summary.Days)
	docRepo.AssertNumberOfCalls(t, "ListByMonth", 3)
}

func TestSummaryService_StaleFilterIsDiscarded(t *testing.T) {
	companyID := uuid.New()
	docRepo := new(mocks.MockDocumentRepo)
	gate := service.NewFilterGate()
	svc := service.NewSummaryService(docRepo, new(mocks.MockBillingRepo), new(mocks.MockNoInvoiceExpenseRepo), gate)

	// A newer filter for the same company and kind arrives while this
	// request is still fetching.
	docRepo.On("ListByMonth", mock.Anything, companyID, domain.KindExpense, 3, 2024).
		Run(func(args mock.Arguments) {
			gate.Begin(companyID, domain.KindExpense)
		}).
		Return([]domain.Document{}, nil)

	_, err := svc.Summary(context.Background(), companyID, service.SummaryFilter{
		Kind:   domain.KindExpense,
		Period: domain.PeriodMonth,
		Month:  3,
		Year:   2024,
	})
	assert.ErrorIs(t, err, domain.ErrStaleFilter)
}

func TestSummaryService_FilterScopesDoNotInterfere(t *testing.T) {
	companyID := uuid.New()
	docRepo := new(mocks.MockDocumentRepo)
	gate := service.NewFilterGate()
	svc := service.NewSummaryService(docRepo, new(mocks.MockBillingRepo), new(mocks.MockNoInvoiceExpenseRepo), gate)

	// An income filter change must not invalidate an expense request.
	docRepo.On("ListByMonth", mock.Anything, companyID, domain.KindExpense, 3, 2024).
		Run(func(args mock.Arguments) {
			gate.Begin(companyID, domain.KindIncome)
		}).
		Return([]domain.Document{}, nil)

	_, err := svc.Summary(context.Background(), companyID, service.SummaryFilter{
		Kind:   domain.KindExpense,
		Period: domain.PeriodMonth,
		Month:  3,
		Year:   2024,
	})
	assert.NoError(t, err)
}

func TestSummaryService_ValidatesFilter(t *testing.T) {
	svc := service.NewSummaryService(new(mocks.MockDocumentRepo), new(mocks.MockBillingRepo), new(mocks.MockNoInvoiceExpenseRepo), service.NewFilterGate())

	_, err := svc.Summary(context.Background(), uuid.New(), service.SummaryFilter{
		Kind:   "refund",
		Period: domain.PeriodMonth,
		Month:  13,
		Year:   1999,
	})
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestSummaryService_BillingSummary(t *testing.T) {
	companyID := uuid.New()
	billingRepo := new(mocks.MockBillingRepo)
	svc := service.NewSummaryService(new(mocks.MockDocumentRepo), billingRepo, new(mocks.MockNoInvoiceExpenseRepo), service.NewFilterGate())

	billingRepo.On("ListByMonth", mock.Anything, companyID, 1, 2024).Return([]domain.BillingEntry{
		{Month: 1, Year: 2024, Base: d("1000"), VatRate: d("21"), VatCharged: d("210")},
	}, nil)
	billingRepo.On("ListByMonth", mock.Anything, companyID, 2, 2024).Return([]domain.BillingEntry{
		{Month: 2, Year: 2024, Base: d("500"), VatRate: d("10"), VatCharged: d("50")},
		{Month: 2, Year: 2024, Base: d("200"), VatRate: d("21.00"), VatCharged: d("42")},
	}, nil)
	billingRepo.On("ListByMonth", mock.Anything, companyID, 3, 2024).Return([]domain.BillingEntry{}, nil)

	summary, err := svc.BillingSummary(context.Background(), companyID, 2, 2024, domain.PeriodQuarter)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, summary.Months)
	// "21.00" normalizes into the same bucket as "21".
	assertDec(t, "1200.00", summary.BaseTotals["21"])
	assertDec(t, "500.00", summary.BaseTotals["10"])
	assertDec(t, "252.00", summary.VatTotals["21"])
	assertDec(t, "1700.00", summary.Total)
	assertDec(t, "302.00", summary.TotalVat)
	require.Len(t, summary.MonthlyTotals, 3)
	assertDec(t, "1000.00", summary.MonthlyTotals[0])
	assertDec(t, "700.00", summary.MonthlyTotals[1])
	assertDec(t, "0.00", summary.MonthlyTotals[2])
}

func TestSummaryService_AnnualFigures(t *testing.T) {
	companyID := uuid.New()
	docRepo := new(mocks.MockDocumentRepo)
	billingRepo := new(mocks.MockBillingRepo)
	extraRepo := new(mocks.MockNoInvoiceExpenseRepo)
	svc := service.NewSummaryService(docRepo, billingRepo, extraRepo, service.NewFilterGate())

	income := expenseDoc(companyID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "Cliente SA", "2000", "21")
	income.Kind = domain.KindIncome
	income.ExpenseCategory = ""
	nonDeductible := expenseDoc(companyID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Proveedor C", "400", "21")
	nonDeductible.ExpenseCategory = domain.CategoryNonDeductible

	docRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.Document{
		income,
		expenseDoc(companyID, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "Proveedor A", "300", "21"),
		nonDeductible,
	}, nil)
	billingRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.BillingEntry{
		{Month: 6, Year: 2024, Base: d("1500"), VatRate: d("21"), VatCharged: d("315")},
	}, nil)
	extraRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.NoInvoiceExpense{
		{ExpenseDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), Concept: "Nómina enero", Amount: d("1200"), ExpenseType: domain.NoInvoicePayroll, Deductible: true},
		{ExpenseDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), Concept: "Multa", Amount: d("90"), ExpenseType: domain.NoInvoiceOther, Deductible: false},
	}, nil)

	gotIncome, gotExpenses, err := svc.AnnualFigures(context.Background(), companyID, 2024)
	require.NoError(t, err)
	assertDec(t, "3500.00", gotIncome)
	assertDec(t, "1500.00", gotExpenses)
}
