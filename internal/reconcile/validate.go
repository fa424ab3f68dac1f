package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/tax"
)

// amountTolerance absorbs cent-level drift between independently rounded
// figures.
var amountTolerance = decimal.NewFromFloat(0.01)

// ValidateForSubmit checks a document right before it leaves the draft stage.
// It returns every problem found, or nil when the document is consistent.
func ValidateForSubmit(doc *domain.Document, companyNames []string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	add := func(field, message string) {
		errs = append(errs, domain.ValidationError{Field: field, Message: message})
	}

	if !domain.ValidDocumentKinds[doc.Kind] {
		add("kind", "document kind must be expense or income")
	}
	if doc.IssueDate.IsZero() {
		add(domain.FieldIssueDate, "issue date is required")
	}

	counterparty := strings.TrimSpace(doc.Counterparty)
	switch {
	case counterparty == "":
		add(domain.FieldCounterparty, "counterparty is required")
	case SameEntity(counterparty, companyNames):
		add(domain.FieldCounterparty, "counterparty cannot be the company itself")
	}

	if doc.Kind == domain.KindExpense && !domain.ValidExpenseCategories[doc.ExpenseCategory] {
		add(domain.FieldExpenseCategory, "expense category must be with_invoice, without_invoice or non_deductible")
	}

	if doc.BaseAmount.IsNegative() {
		add(domain.FieldBaseAmount, "base amount cannot be negative")
	}
	if doc.VatRate.IsNegative() {
		add(domain.FieldVatRate, "VAT rate cannot be negative")
	}
	if doc.TotalAmount.IsNegative() {
		add(domain.FieldTotalAmount, "total amount cannot be negative")
	}

	if doc.HasBreakdown() {
		base, vat, total := tax.Aggregate(doc.VatBreakdown)
		if !base.Equal(doc.BaseAmount) || !vat.Equal(doc.VatAmount) || !total.Equal(doc.TotalAmount) {
			add(domain.FieldVatBreakdown, "flat amounts do not mirror the VAT breakdown")
		}
	} else if doc.BaseAmount.Add(doc.VatAmount).Sub(doc.TotalAmount).Abs().GreaterThan(amountTolerance) {
		add(domain.FieldTotalAmount, "total does not equal base plus VAT")
	}

	return errs
}
