package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/tax"
)

// moneyFields are the flat figures a breakdown install overwrites.
var moneyFields = []string{
	domain.FieldBaseAmount,
	domain.FieldVatRate,
	domain.FieldVatAmount,
	domain.FieldTotalAmount,
}

// Apply merges an extraction result into a draft. Fields the user already
// edited are never overwritten; everything else the extractor produced a
// usable value for is filled and marked auto. A non-ok status records the
// classification and routes the draft to manual entry without touching any
// field.
func Apply(draft *domain.Draft, ext *domain.ExtractionResult, companyNames []string) {
	draft.AnalysisPending = false
	draft.AnalysisStatus = ext.Status
	draft.Doc.AnalysisText = ext.AnalysisText
	draft.UpdatedAt = time.Now().UTC()

	if ext.Status != domain.AnalysisOK {
		return
	}

	if draft.CanAutoFill(domain.FieldCounterparty) &&
		PlausibleCounterparty(ext.Counterparty, companyNames) {
		draft.Doc.Counterparty = ext.Counterparty
		draft.MarkAuto(domain.FieldCounterparty)
	}

	if ext.InvoiceDate != "" && draft.CanAutoFill(domain.FieldIssueDate) {
		if ts, err := time.Parse(domain.DateLayout, ext.InvoiceDate); err == nil {
			draft.Doc.IssueDate = ts
			draft.MarkAuto(domain.FieldIssueDate)
		}
	}

	applyPaymentDates(draft, ext)
	applyAmounts(draft, ext)
	applyBreakdown(draft, ext)
}

// applyPaymentDates keeps the full ordered candidate list and selects the
// first as the working payment date.
func applyPaymentDates(draft *domain.Draft, ext *domain.ExtractionResult) {
	if !draft.CanAutoFill(domain.FieldPaymentDate) {
		return
	}
	candidates := ext.PaymentDates
	if len(candidates) == 0 && ext.PaymentDate != "" {
		candidates = []string{ext.PaymentDate}
	}
	var dates domain.DateList
	for _, c := range candidates {
		if _, err := time.Parse(domain.DateLayout, c); err == nil {
			dates = append(dates, c)
		}
	}
	if len(dates) == 0 {
		return
	}
	first, _ := time.Parse(domain.DateLayout, dates[0])
	draft.Doc.PaymentDates = dates
	draft.Doc.PaymentDate = &first
	draft.MarkAuto(domain.FieldPaymentDate)
}

// applyAmounts resolves the flat trio from the extracted figures and writes
// each member the user does not own. When no rate was detected and the user
// never set one, the general 21% rate applies.
func applyAmounts(draft *domain.Draft, ext *domain.ExtractionResult) {
	if !ext.BaseAmount.Valid && !ext.TotalAmount.Valid {
		return
	}

	rate := ext.VatRate
	if !rate.Valid {
		if draft.Origin(domain.FieldVatRate) == domain.FieldOriginUser {
			rate = decimal.NullDecimal{Decimal: draft.Doc.VatRate, Valid: true}
		} else {
			rate = decimal.NullDecimal{Decimal: tax.DefaultRate, Valid: true}
		}
	}

	source := tax.SourceBase
	if ext.TotalAmount.Valid {
		source = tax.SourceTotal
	}
	res := tax.Resolve(ext.BaseAmount, ext.TotalAmount, rate, source)

	if res.Base.Valid && draft.CanAutoFill(domain.FieldBaseAmount) {
		draft.Doc.BaseAmount = res.Base.Decimal
		draft.MarkAuto(domain.FieldBaseAmount)
	}
	if res.VatAmount.Valid && draft.CanAutoFill(domain.FieldVatAmount) {
		draft.Doc.VatAmount = res.VatAmount.Decimal
		draft.MarkAuto(domain.FieldVatAmount)
	}
	if res.Total.Valid && draft.CanAutoFill(domain.FieldTotalAmount) {
		draft.Doc.TotalAmount = res.Total.Decimal
		draft.MarkAuto(domain.FieldTotalAmount)
	}
	if draft.CanAutoFill(domain.FieldVatRate) {
		draft.Doc.VatRate = rate.Decimal
		draft.MarkAuto(domain.FieldVatRate)
	}
}

// applyBreakdown installs an extracted breakdown and recomputes the flat
// mirrors. Because the install overwrites every flat figure, it is skipped
// if the user owns any of them (or the breakdown itself).
func applyBreakdown(draft *domain.Draft, ext *domain.ExtractionResult) {
	if len(ext.VatBreakdown) == 0 {
		return
	}
	if !draft.CanAutoFill(domain.FieldVatBreakdown) {
		return
	}
	for _, f := range moneyFields {
		if !draft.CanAutoFill(f) {
			return
		}
	}

	base, vat, total := tax.Aggregate(ext.VatBreakdown)
	draft.Doc.VatBreakdown = ext.VatBreakdown
	draft.Doc.BaseAmount = base
	draft.Doc.VatAmount = vat
	draft.Doc.TotalAmount = total
	draft.Doc.VatRate = tax.PrimaryRate(ext.VatBreakdown, tax.DefaultRate)
	draft.MarkAuto(domain.FieldVatBreakdown)
	for _, f := range moneyFields {
		draft.MarkAuto(f)
	}
}
