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

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func testCompany(id uuid.UUID) *domain.Company {
	return &domain.Company{
		ID:        id,
		Name:      "Mi Negocio",
		LegalName: "Mi Negocio SL",
		Filer:     domain.FilerIndividual,
	}
}

func validDocumentInput() service.DocumentInput {
	return service.DocumentInput{
		Kind:            domain.KindExpense,
		IssueDate:       "2024-03-10",
		Counterparty:    "Proveedor Textil SL",
		BaseAmount:      d("100"),
		VatRate:         d("21"),
		VatAmount:       d("21"),
		TotalAmount:     d("121"),
		ExpenseCategory: domain.CategoryWithInvoice,
	}
}

func TestDocumentService_Create(t *testing.T) {
	companyID := uuid.New()

	t.Run("persists a consistent document", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		companyRepo := new(mocks.MockCompanyRepo)
		svc := service.NewDocumentService(docRepo, companyRepo)

		companyRepo.On("GetByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
		docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		doc, err := svc.Create(context.Background(), companyID, validDocumentInput())
		require.NoError(t, err)
		assert.Equal(t, companyID, doc.CompanyID)
		assert.Equal(t, "Proveedor Textil SL", doc.Counterparty)
		docRepo.AssertExpectations(t)
	})

	t.Run("breakdown is authoritative over flat figures", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		companyRepo := new(mocks.MockCompanyRepo)
		svc := service.NewDocumentService(docRepo, companyRepo)

		companyRepo.On("GetByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
		docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		input := validDocumentInput()
		input.BaseAmount = d("999")
		input.TotalAmount = d("999")
		input.VatBreakdown = domain.VatLines{
			{Rate: d("21"), Base: d("100"), VatAmount: d("21"), Total: d("121")},
			{Rate: d("10"), Base: d("50"), VatAmount: d("5"), Total: d("55")},
		}

		doc, err := svc.Create(context.Background(), companyID, input)
		require.NoError(t, err)
		assertDec(t, "150.00", doc.BaseAmount)
		assertDec(t, "26.00", doc.VatAmount)
		assertDec(t, "176.00", doc.TotalAmount)
		assertDec(t, "21.00", doc.VatRate)
	})

	t.Run("rejects a malformed issue date", func(t *testing.T) {
		svc := service.NewDocumentService(new(mocks.MockDocumentRepo), new(mocks.MockCompanyRepo))

		input := validDocumentInput()
		input.IssueDate = "10/03/2024"

		_, err := svc.Create(context.Background(), companyID, input)
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})

	t.Run("rejects the company itself as counterparty", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		companyRepo := new(mocks.MockCompanyRepo)
		svc := service.NewDocumentService(docRepo, companyRepo)

		companyRepo.On("GetByID", mock.Anything, companyID).Return(testCompany(companyID), nil)

		input := validDocumentInput()
		input.Counterparty = "Mi Negocio, S.L."

		_, err := svc.Create(context.Background(), companyID, input)
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_EditMoneyField(t *testing.T) {
	companyID := uuid.New()
	docID := uuid.New()

	flatDoc := func() *domain.Document {
		return &domain.Document{
			ID:          docID,
			CompanyID:   companyID,
			Kind:        domain.KindExpense,
			BaseAmount:  d("100"),
			VatRate:     d("21"),
			VatAmount:   d("21"),
			TotalAmount: d("121"),
		}
	}

	t.Run("base edit re-derives vat and total", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewDocumentService(docRepo, new(mocks.MockCompanyRepo))

		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(flatDoc(), nil)
		docRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		doc, err := svc.EditMoneyField(context.Background(), companyID, docID, service.FieldEditInput{
			Field: domain.FieldBaseAmount,
			Value: d("200"),
		})
		require.NoError(t, err)
		assertDec(t, "200.00", doc.BaseAmount)
		assertDec(t, "42.00", doc.VatAmount)
		assertDec(t, "242.00", doc.TotalAmount)
	})

	t.Run("total edit back-solves the base", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewDocumentService(docRepo, new(mocks.MockCompanyRepo))

		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(flatDoc(), nil)
		docRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		doc, err := svc.EditMoneyField(context.Background(), companyID, docID, service.FieldEditInput{
			Field: domain.FieldTotalAmount,
			Value: d("242"),
		})
		require.NoError(t, err)
		assertDec(t, "200.00", doc.BaseAmount)
		assertDec(t, "42.00", doc.VatAmount)
	})

	t.Run("flat edits are rejected while a breakdown exists", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewDocumentService(docRepo, new(mocks.MockCompanyRepo))

		doc := flatDoc()
		doc.VatBreakdown = domain.VatLines{{Rate: d("21"), Base: d("100"), VatAmount: d("21"), Total: d("121")}}
		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(doc, nil)

		_, err := svc.EditMoneyField(context.Background(), companyID, docID, service.FieldEditInput{
			Field: domain.FieldBaseAmount,
			Value: d("500"),
		})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		docRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewDocumentService(docRepo, new(mocks.MockCompanyRepo))

		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(flatDoc(), nil)

		_, err := svc.EditMoneyField(context.Background(), companyID, docID, service.FieldEditInput{
			Field: "counterparty",
			Value: d("1"),
		})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})
}

func TestDocumentService_UpdateBreakdown(t *testing.T) {
	companyID := uuid.New()
	docID := uuid.New()

	existing := func() *domain.Document {
		return &domain.Document{
			ID:          docID,
			CompanyID:   companyID,
			Kind:        domain.KindExpense,
			BaseAmount:  d("100"),
			VatRate:     d("21"),
			VatAmount:   d("21"),
			TotalAmount: d("121"),
		}
	}

	t.Run("replaces lines and recomputes the flat mirrors", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewDocumentService(docRepo, new(mocks.MockCompanyRepo))

		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(existing(), nil)
		docRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		lines := domain.VatLines{
			{Rate: d("10"), Base: d("80"), VatAmount: d("8"), Total: d("88")},
			{Rate: d("4"), Base: d("20"), VatAmount: d("0.80"), Total: d("20.80")},
		}
		doc, err := svc.UpdateBreakdown(context.Background(), companyID, docID, lines)
		require.NoError(t, err)
		assertDec(t, "100.00", doc.BaseAmount)
		assertDec(t, "8.80", doc.VatAmount)
		assertDec(t, "108.80", doc.TotalAmount)
		assertDec(t, "10.00", doc.VatRate)
	})

	t.Run("line figures come from rate and base, never from the client", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewDocumentService(docRepo, new(mocks.MockCompanyRepo))

		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(existing(), nil)
		docRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

		lines := domain.VatLines{
			{Rate: d("21"), Base: d("100"), VatAmount: d("5"), Total: d("105")},
		}
		doc, err := svc.UpdateBreakdown(context.Background(), companyID, docID, lines)
		require.NoError(t, err)
		require.Len(t, doc.VatBreakdown, 1)
		assertDec(t, "21.00", doc.VatBreakdown[0].VatAmount)
		assertDec(t, "121.00", doc.VatBreakdown[0].Total)
		assertDec(t, "21.00", doc.VatAmount)
		assertDec(t, "121.00", doc.TotalAmount)
	})

	t.Run("negative lines are rejected", func(t *testing.T) {
		docRepo := new(mocks.MockDocumentRepo)
		svc := service.NewDocumentService(docRepo, new(mocks.MockCompanyRepo))

		docRepo.On("GetByID", mock.Anything, companyID, docID).Return(existing(), nil)

		lines := domain.VatLines{
			{Rate: d("-21"), Base: d("100")},
		}
		_, err := svc.UpdateBreakdown(context.Background(), companyID, docID, lines)
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		docRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
