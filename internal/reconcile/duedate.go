package reconcile

import (
	"time"

	"contia/internal/domain"
)

// DueDateGraceDays is the fallback payment term when an invoice names no
// payment date.
const DueDateGraceDays = 30

// ComputeDueDate is the fallback due date for an invoice with no explicit
// payment date: the issue date plus 30 days.
func ComputeDueDate(issueDate time.Time) time.Time {
	return issueDate.AddDate(0, 0, DueDateGraceDays)
}

// ResolveDueDate picks the effective due date: an explicit payment date
// always wins over the computed fallback.
func ResolveDueDate(explicit *time.Time, issueDate time.Time) time.Time {
	if explicit != nil {
		return *explicit
	}
	return ComputeDueDate(issueDate)
}

// SetPaymentDate installs a new working payment date. On documents carrying
// several extracted candidate dates, the candidate matching the previous
// working date is swapped for the new one and the alternates are kept; a new
// date with no matching candidate is put first so it stays the working one.
func SetPaymentDate(doc *domain.Document, value string, ts time.Time) {
	var prev string
	if doc.PaymentDate != nil {
		prev = doc.PaymentDate.Format(domain.DateLayout)
	}
	doc.PaymentDate = &ts

	if len(doc.PaymentDates) == 0 {
		doc.PaymentDates = domain.DateList{value}
		return
	}
	for i, candidate := range doc.PaymentDates {
		if candidate == prev {
			doc.PaymentDates[i] = value
			return
		}
	}
	doc.PaymentDates = append(domain.DateList{value}, doc.PaymentDates...)
}
