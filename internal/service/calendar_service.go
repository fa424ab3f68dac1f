package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contia/internal/domain"
	"contia/internal/port"
	"contia/internal/reconcile"
	"contia/internal/schedule"
)

// CalendarService builds the month payment calendar and edits due dates.
type CalendarService interface {
	Month(ctx context.Context, companyID uuid.UUID, month, year int) (*domain.PaymentCalendar, error)
	UpdateDueDate(ctx context.Context, companyID, docID uuid.UUID, dueDate string) (*domain.Document, error)
	Upcoming(ctx context.Context, companyID uuid.UUID, from time.Time, horizonDays int) ([]schedule.Item, error)
}

type calendarService struct {
	docRepo   port.DocumentRepository
	extraRepo port.NoInvoiceExpenseRepository
}

// NewCalendarService creates a new CalendarService implementation.
func NewCalendarService(docRepo port.DocumentRepository, extraRepo port.NoInvoiceExpenseRepository) CalendarService {
	return &calendarService{docRepo: docRepo, extraRepo: extraRepo}
}

// Month rebuilds the calendar for one month from scratch. Candidates span the
// requested year and the previous one, since a document issued late in a year
// can fall due in the next.
func (s *calendarService) Month(ctx context.Context, companyID uuid.UUID, month, year int) (*domain.PaymentCalendar, error) {
	items, err := s.candidates(ctx, companyID, year)
	if err != nil {
		return nil, err
	}

	extras, err := s.extraRepo.ListByMonth(ctx, companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("calendar.Month: %w", err)
	}
	for i := range extras {
		items = append(items, schedule.FromNoInvoiceExpense(&extras[i]))
	}

	return schedule.Build(month, year, items), nil
}

// UpdateDueDate sets an explicit payment date on a document. The next
// calendar build picks it up; nothing else is recomputed.
func (s *calendarService) UpdateDueDate(ctx context.Context, companyID, docID uuid.UUID, dueDate string) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}

	if dueDate == "" {
		doc.PaymentDate = nil
		doc.PaymentDates = nil
	} else {
		ts, err := time.Parse(domain.DateLayout, dueDate)
		if err != nil {
			return nil, domain.ValidationErrors{{Field: domain.FieldPaymentDate, Message: "payment date must be YYYY-MM-DD"}}
		}
		reconcile.SetPaymentDate(doc, dueDate, ts)
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("calendar.UpdateDueDate: %w", err)
	}
	return doc, nil
}

// Upcoming returns the payment obligations due in the next horizonDays,
// ordered by due date. Feeds the reminder digest.
func (s *calendarService) Upcoming(ctx context.Context, companyID uuid.UUID, from time.Time, horizonDays int) ([]schedule.Item, error) {
	end := from.AddDate(0, 0, horizonDays)
	items, err := s.candidates(ctx, companyID, end.Year())
	if err != nil {
		return nil, err
	}
	for m, y := int(from.Month()), from.Year(); y < end.Year() || (y == end.Year() && m <= int(end.Month())); {
		extras, err := s.extraRepo.ListByMonth(ctx, companyID, m, y)
		if err != nil {
			return nil, fmt.Errorf("calendar.Upcoming: %w", err)
		}
		for i := range extras {
			items = append(items, schedule.FromNoInvoiceExpense(&extras[i]))
		}
		m++
		if m > 12 {
			m = 1
			y++
		}
	}

	return schedule.DueWithin(items, from, horizonDays), nil
}

func (s *calendarService) candidates(ctx context.Context, companyID uuid.UUID, year int) ([]schedule.Item, error) {
	var items []schedule.Item
	for _, y := range []int{year - 1, year} {
		docs, err := s.docRepo.ListByYear(ctx, companyID, y)
		if err != nil {
			return nil, fmt.Errorf("calendar.candidates: %w", err)
		}
		for i := range docs {
			items = append(items, schedule.FromDocument(&docs[i]))
		}
	}
	return items, nil
}
