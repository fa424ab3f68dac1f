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
	"contia/internal/service"
	"contia/mocks"
)

func TestCalendarService_Month(t *testing.T) {
	companyID := uuid.New()
	docRepo := new(mocks.MockDocumentRepo)
	extraRepo := new(mocks.MockNoInvoiceExpenseRepo)
	svc := service.NewCalendarService(docRepo, extraRepo)

	// Issued December 15th with no explicit payment date: due January 14th.
	rollover := expenseDoc(companyID, time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC), "Proveedor Diciembre", "100", "21")

	// Explicit payment date pins the due day regardless of issue date.
	pinned := expenseDoc(companyID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "Proveedor Enero", "200", "21")
	due := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
	pinned.PaymentDate = &due
	pinned.PaymentDates = domain.DateList{"2024-01-25"}

	// Due in February, outside the requested month.
	outside := expenseDoc(companyID, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "Proveedor Febrero", "50", "21")

	docRepo.On("ListByYear", mock.Anything, companyID, 2023).Return([]domain.Document{rollover}, nil)
	docRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.Document{pinned, outside}, nil)
	extraRepo.On("ListByMonth", mock.Anything, companyID, 1, 2024).Return([]domain.NoInvoiceExpense{
		{ExpenseDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), Concept: "Nómina enero", Amount: d("1200"), ExpenseType: domain.NoInvoicePayroll, Deductible: true},
	}, nil)

	cal, err := svc.Month(context.Background(), companyID, 1, 2024)
	require.NoError(t, err)

	assert.Equal(t, 1, cal.Month)
	assert.Equal(t, 2024, cal.Year)
	require.Len(t, cal.Items, 3)
	assertDec(t, "121.00", cal.DayTotals[14])
	assertDec(t, "242.00", cal.DayTotals[25])
	assertDec(t, "1200.00", cal.DayTotals[31])
	assert.Equal(t, "Proveedor Diciembre", cal.ItemsByDay[14][0].Counterparty)
	assert.Equal(t, domain.CalendarNoInvoice, cal.ItemsByDay[31][0].Type)
}

func TestCalendarService_UpdateDueDate(t *testing.T) {
	companyID := uuid.New()
	docID := uuid.New()

	t.Run("sets an explicit payment date", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewCalendarService(docRepo, new(mocks.MockNoInvoiceExpenseRepo))

		doc := expenseDoc(companyID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "Proveedor", "100", "21")
		doc.ID = docID
		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(&doc, nil)
		docRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		updated, err := svc.UpdateDueDate(context.Background(), companyID, docID, "2024-02-10")
		require.NoError(t, err)
		require.NotNil(t, updated.PaymentDate)
		assert.Equal(t, "2024-02-10", updated.PaymentDate.Format(domain.DateLayout))
		assert.Equal(t, domain.DateList{"2024-02-10"}, updated.PaymentDates)
	})

	t.Run("keeps the alternate candidate dates", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewCalendarService(docRepo, new(mocks.MockNoInvoiceExpenseRepo))

		doc := expenseDoc(companyID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "Proveedor", "100", "21")
		doc.ID = docID
		due := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
		doc.PaymentDate = &due
		doc.PaymentDates = domain.DateList{"2024-01-25", "2024-02-10"}
		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(&doc, nil)
		docRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		updated, err := svc.UpdateDueDate(context.Background(), companyID, docID, "2024-01-30")
		require.NoError(t, err)
		require.NotNil(t, updated.PaymentDate)
		assert.Equal(t, "2024-01-30", updated.PaymentDate.Format(domain.DateLayout))
		assert.Equal(t, domain.DateList{"2024-01-30", "2024-02-10"}, updated.PaymentDates)
	})

	t.Run("empty date clears the override", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewCalendarService(docRepo, new(mocks.MockNoInvoiceExpenseRepo))

		doc := expenseDoc(companyID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "Proveedor", "100", "21")
		doc.ID = docID
		due := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
		doc.PaymentDate = &due
		doc.PaymentDates = domain.DateList{"2024-02-10"}
		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(&doc, nil)
		docRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		updated, err := svc.UpdateDueDate(context.Background(), companyID, docID, "")
		require.NoError(t, err)
		assert.Nil(t, updated.PaymentDate)
		assert.Nil(t, updated.PaymentDates)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewCalendarService(docRepo, new(mocks.MockNoInvoiceExpenseRepo))

		doc := expenseDoc(companyID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "Proveedor", "100", "21")
		doc.ID = docID
		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(&doc, nil)

		_, err := svc.UpdateDueDate(context.Background(), companyID, docID, "10/02/2024")
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		docRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestCalendarService_Upcoming(t *testing.T) {
	companyID := uuid.New()
	docRepo := new(mocks.MockDocumentRepo)
	extraRepo := new(mocks.MockNoInvoiceExpenseRepo)
	svc := service.NewCalendarService(docRepo, extraRepo)

	// Horizon crosses the year boundary: December 20th plus 30 days.
	from := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)

	inWindow := expenseDoc(companyID, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), "Proveedor Dic", "100", "21")
	tooLate := expenseDoc(companyID, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "Proveedor Lejano", "50", "21")

	docRepo.On("ListByYear", mock.Anything, companyID, 2024).Return([]domain.Document{inWindow}, nil)
	docRepo.On("ListByYear", mock.Anything, companyID, 2025).Return([]domain.Document{tooLate}, nil)
	extraRepo.On("ListByMonth", mock.Anything, companyID, 12, 2024).Return([]domain.NoInvoiceExpense{
		{ExpenseDate: time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC), Concept: "Seguridad social", Amount: d("300"), ExpenseType: domain.NoInvoiceSocialSecurity, Deductible: true},
	}, nil)
	extraRepo.On("ListByMonth", mock.Anything, companyID, 1, 2025).Return([]domain.NoInvoiceExpense{}, nil)

	items, err := svc.Upcoming(context.Background(), companyID, from, 30)
	require.NoError(t, err)

	// Document due December 31st, expense due December 28th; the January
	// document falls due February 9th, past the horizon.
	require.Len(t, items, 2)
	assert.Equal(t, "Seguridad social", items[0].Concept)
	assert.Equal(t, "2024-12-28", items[0].DueDate.Format(domain.DateLayout))
	assert.Equal(t, "Proveedor Dic", items[1].Counterparty)
	assert.Equal(t, "2024-12-31", items[1].DueDate.Format(domain.DateLayout))
}
