// Package schedule builds the month payment calendar: every document and
// no-document expense whose resolved due date falls inside the month,
// indexed and totalled per day.
package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/reconcile"
	"contia/internal/tax"
)

// Item is one payment obligation candidate, before month filtering.
type Item struct {
	DocumentID   *uuid.UUID
	Type         domain.CalendarItemType
	Counterparty string
	Concept      string
	Amount       decimal.Decimal
	DueDate      time.Time
}

// FromDocument turns a persisted document into a calendar item. An explicit
// payment date wins; otherwise the due date is the issue date plus 30 days.
func FromDocument(doc *domain.Document) Item {
	itemType := domain.CalendarExpense
	if doc.Kind == domain.KindIncome {
		itemType = domain.CalendarIncome
	}
	id := doc.ID
	return Item{
		DocumentID:   &id,
		Type:         itemType,
		Counterparty: doc.Counterparty,
		Amount:       doc.TotalAmount,
		DueDate:      reconcile.ResolveDueDate(doc.PaymentDate, doc.IssueDate),
	}
}

// FromNoInvoiceExpense turns a no-document expense into a calendar item due
// on its expense date.
func FromNoInvoiceExpense(e *domain.NoInvoiceExpense) Item {
	return Item{
		Type:    domain.CalendarNoInvoice,
		Concept: e.Concept,
		Amount:  e.Amount,
		DueDate: e.ExpenseDate,
	}
}

// Build indexes the items due inside (month, year) by day. Items outside the
// month are dropped; the caller passes all candidates and rebuilds per
// request, so a due-date edit simply rebuilds the month.
func Build(month, year int, items []Item) *domain.PaymentCalendar {
	cal := &domain.PaymentCalendar{
		Month:      month,
		Year:       year,
		DayTotals:  make(map[int]decimal.Decimal),
		ItemsByDay: make(map[int][]domain.CalendarItem),
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DueDate.Before(items[j].DueDate)
	})

	for _, it := range items {
		if it.DueDate.Year() != year || int(it.DueDate.Month()) != month {
			continue
		}
		day := it.DueDate.Day()
		entry := domain.CalendarItem{
			DocumentID:   it.DocumentID,
			Type:         it.Type,
			Counterparty: it.Counterparty,
			Concept:      it.Concept,
			Amount:       it.Amount,
			DueDate:      it.DueDate.Format(domain.DateLayout),
		}
		cal.DayTotals[day] = tax.Round2(cal.DayTotals[day].Add(it.Amount))
		cal.ItemsByDay[day] = append(cal.ItemsByDay[day], entry)
		cal.Items = append(cal.Items, entry)
	}

	return cal
}

// DueWithin returns the items due in the next horizon days starting at from,
// ordered by due date. Used by the reminder digest.
func DueWithin(items []Item, from time.Time, horizon int) []Item {
	end := from.AddDate(0, 0, horizon)
	var due []Item
	for _, it := range items {
		if it.DueDate.Before(from) || it.DueDate.After(end) {
			continue
		}
		due = append(due, it)
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DueDate.Before(due[j].DueDate)
	})
	return due
}
