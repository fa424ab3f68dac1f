// Package period rolls documents up into monthly, quarterly and annual
// summaries. Summaries are pure views computed per request, never persisted.
package period

import (
	"time"

	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/tax"
)

// standardRateKeys seed every summary so the dashboard always sees the four
// Spanish VAT buckets, even when empty.
var standardRateKeys = []string{"0", "4", "10", "21"}

// QuarterStart returns the first month of the quarter containing month.
func QuarterStart(month int) int {
	return (month-1)/3*3 + 1
}

// QuarterMonths returns the three months of the quarter containing month.
func QuarterMonths(month int) []int {
	start := QuarterStart(month)
	return []int{start, start + 1, start + 2}
}

func lastDayOf(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func newRateBuckets() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(standardRateKeys))
	for _, k := range standardRateKeys {
		m[k] = decimal.Zero
	}
	return m
}

// MonthlySummary aggregates one month of documents: per-rate base and VAT
// buckets, counterparty totals, and the day-indexed cumulative spend curve.
// Documents outside the month are ignored. Buckets accumulate unrounded and
// are rounded once at the end.
func MonthlySummary(docs []domain.Document, month, year int) *domain.PeriodSummary {
	lastDay := lastDayOf(month, year)

	baseTotals := newRateBuckets()
	vatTotals := newRateBuckets()
	supplierTotals := make(map[string]decimal.Decimal)
	dayTotals := make(map[int]decimal.Decimal, lastDay)
	total := decimal.Zero
	totalVat := decimal.Zero

	for _, doc := range docs {
		if doc.IssueDate.Year() != year || int(doc.IssueDate.Month()) != month {
			continue
		}

		day := doc.IssueDate.Day()
		dayTotals[day] = dayTotals[day].Add(doc.TotalAmount)
		total = total.Add(doc.TotalAmount)
		totalVat = totalVat.Add(doc.VatAmount)
		if doc.Counterparty != "" {
			supplierTotals[doc.Counterparty] = supplierTotals[doc.Counterparty].Add(doc.TotalAmount)
		}

		if doc.HasBreakdown() {
			for _, line := range doc.VatBreakdown {
				key := line.Rate.String()
				baseTotals[key] = baseTotals[key].Add(line.Base)
				vatTotals[key] = vatTotals[key].Add(line.VatAmount)
			}
		} else {
			key := tax.NormalizeRate(doc.VatRate).String()
			baseTotals[key] = baseTotals[key].Add(doc.BaseAmount)
			vatTotals[key] = vatTotals[key].Add(doc.VatAmount)
		}
	}

	days := make([]int, lastDay)
	cumulative := make([]decimal.Decimal, lastDay)
	running := decimal.Zero
	for d := 1; d <= lastDay; d++ {
		days[d-1] = d
		running = running.Add(dayTotals[d])
		cumulative[d-1] = tax.Round2(running)
	}

	roundBuckets(baseTotals)
	roundBuckets(vatTotals)
	roundBuckets(supplierTotals)
	total = tax.Round2(total)

	return &domain.PeriodSummary{
		Months:         []int{month},
		Year:           year,
		Total:          total,
		TotalVat:       tax.Round2(totalVat),
		BaseTotals:     baseTotals,
		VatTotals:      vatTotals,
		SupplierTotals: supplierTotals,
		MonthlyTotals:  []decimal.Decimal{total},
		Days:           days,
		Cumulative:     cumulative,
	}
}

func roundBuckets(m map[string]decimal.Decimal) {
	for k, v := range m {
		m[k] = tax.Round2(v)
	}
}

// MergeSummaries combines per-month summaries into one period view. A single
// month passes through untouched. Multi-month merges sum every bucket
// element-wise, keep one scalar per month in MonthlyTotals, and drop the day
// series: a cumulative day curve has no meaning across month boundaries.
func MergeSummaries(perMonth []*domain.PeriodSummary) *domain.PeriodSummary {
	if len(perMonth) == 0 {
		return nil
	}
	if len(perMonth) == 1 {
		return perMonth[0]
	}

	merged := &domain.PeriodSummary{
		Year:           perMonth[0].Year,
		BaseTotals:     newRateBuckets(),
		VatTotals:      newRateBuckets(),
		SupplierTotals: make(map[string]decimal.Decimal),
	}
	for _, s := range perMonth {
		merged.Months = append(merged.Months, s.Months...)
		merged.Total = merged.Total.Add(s.Total)
		merged.TotalVat = merged.TotalVat.Add(s.TotalVat)
		merged.MonthlyTotals = append(merged.MonthlyTotals, s.Total)
		addBuckets(merged.BaseTotals, s.BaseTotals)
		addBuckets(merged.VatTotals, s.VatTotals)
		addBuckets(merged.SupplierTotals, s.SupplierTotals)
	}
	return merged
}

func addBuckets(dst, src map[string]decimal.Decimal) {
	for k, v := range src {
		dst[k] = dst[k].Add(v)
	}
}

// AnnualIncome is the net (VAT-exclusive) revenue of a year: bases of income
// documents plus manually declared billing bases.
func AnnualIncome(docs []domain.Document, billing []domain.BillingEntry, year int) decimal.Decimal {
	total := decimal.Zero
	for _, doc := range docs {
		if doc.Kind == domain.KindIncome && doc.IssueDate.Year() == year {
			total = total.Add(doc.BaseAmount)
		}
	}
	for _, b := range billing {
		if b.Year == year {
			total = total.Add(b.Base)
		}
	}
	return tax.Round2(total)
}

// AnnualDeductibleExpenses sums expense-document bases for the year,
// excluding the non_deductible category, plus no-document expenses flagged
// deductible.
func AnnualDeductibleExpenses(docs []domain.Document, extras []domain.NoInvoiceExpense, year int) decimal.Decimal {
	total := decimal.Zero
	for _, doc := range docs {
		if doc.Kind != domain.KindExpense || doc.IssueDate.Year() != year {
			continue
		}
		if doc.ExpenseCategory == domain.CategoryNonDeductible {
			continue
		}
		total = total.Add(doc.BaseAmount)
	}
	for _, e := range extras {
		if e.Deductible && e.ExpenseDate.Year() == year {
			total = total.Add(e.Amount)
		}
	}
	return tax.Round2(total)
}
