package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contia/internal/config"
	"contia/internal/domain"
	"contia/internal/service"
	"contia/mocks"
)

type reminderFixture struct {
	docRepo   *mocks.MockDocumentRepo
	extraRepo *mocks.MockNoInvoiceExpenseRepo
	sender    *mocks.MockEmailSender
	svc       service.ReminderService
}

func newReminderFixture() *reminderFixture {
	f := &reminderFixture{
		docRepo:   new(mocks.MockDocumentRepo),
		extraRepo: new(mocks.MockNoInvoiceExpenseRepo),
		sender:    new(mocks.MockEmailSender),
	}
	calendar := service.NewCalendarService(f.docRepo, f.extraRepo)
	f.svc = service.NewReminderService(calendar, f.sender, config.ReminderConfig{HorizonDays: 7})
	return f
}

func TestReminderService_SendDigest(t *testing.T) {
	companyID := uuid.New()
	f := newReminderFixture()

	// Due in three days via explicit payment date.
	due := time.Now().UTC().AddDate(0, 0, 3)
	doc := expenseDoc(companyID, due.AddDate(0, 0, -20), "Proveedor Textil SL", "100", "21")
	doc.PaymentDate = &due
	doc.PaymentDates = domain.DateList{due.Format(domain.DateLayout)}

	f.docRepo.On("ListByYear", mock.Anything, companyID, mock.AnythingOfType("int")).Return([]domain.Document{doc}, nil)
	f.extraRepo.On("ListByMonth", mock.Anything, companyID, mock.AnythingOfType("int"), mock.AnythingOfType("int")).Return([]domain.NoInvoiceExpense{}, nil)

	var gotSubject, gotBody string
	f.sender.On("Send", mock.Anything, "dueno@negocio.es", "Ana", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			gotSubject = args.String(3)
			gotBody = args.String(4)
		}).
		Return(nil)

	count, err := f.svc.SendDigest(context.Background(), companyID, "dueno@negocio.es", "Ana")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Contains(t, gotSubject, "1 vencimientos")
	assert.Contains(t, gotSubject, "7 días")
	assert.Contains(t, gotBody, "Hola Ana")
	assert.Contains(t, gotBody, "Proveedor Textil SL")
	assert.Contains(t, gotBody, "121.00 €")
}

func TestReminderService_SendDigest_NothingDue(t *testing.T) {
	companyID := uuid.New()
	f := newReminderFixture()

	f.docRepo.On("ListByYear", mock.Anything, companyID, mock.AnythingOfType("int")).Return([]domain.Document{}, nil)
	f.extraRepo.On("ListByMonth", mock.Anything, companyID, mock.AnythingOfType("int"), mock.AnythingOfType("int")).Return([]domain.NoInvoiceExpense{}, nil)

	count, err := f.svc.SendDigest(context.Background(), companyID, "dueno@negocio.es", "Ana")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderService_SendDigest_SenderFailure(t *testing.T) {
	companyID := uuid.New()
	f := newReminderFixture()

	due := time.Now().UTC().AddDate(0, 0, 2)
	doc := expenseDoc(companyID, due.AddDate(0, 0, -10), "Proveedor", "50", "21")
	doc.PaymentDate = &due
	doc.PaymentDates = domain.DateList{due.Format(domain.DateLayout)}

	f.docRepo.On("ListByYear", mock.Anything, companyID, mock.AnythingOfType("int")).Return([]domain.Document{doc}, nil)
	f.extraRepo.On("ListByMonth", mock.Anything, companyID, mock.AnythingOfType("int"), mock.AnythingOfType("int")).Return([]domain.NoInvoiceExpense{}, nil)
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("ses throttled"))

	count, err := f.svc.SendDigest(context.Background(), companyID, "dueno@negocio.es", "Ana")
	assert.Error(t, err)
	assert.Equal(t, 0, count)
}
