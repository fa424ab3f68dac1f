package tax

import (
	"github.com/shopspring/decimal"

	"contia/internal/domain"
)

// RawLine is one extracted breakdown line before validation. Null members
// mean the value could not be parsed.
type RawLine struct {
	Rate decimal.NullDecimal
	Base decimal.NullDecimal
}

var rateSnap = decimal.NewFromFloat(0.001)

// NormalizeRate snaps a rate to a whole number when it is within 0.001 of
// one, otherwise keeps it at 2 decimals.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	nearest := rate.Round(0)
	if rate.Sub(nearest).Abs().LessThanOrEqual(rateSnap) {
		return nearest
	}
	return rate.Round(2)
}

// NormalizeLines validates and derives extracted breakdown lines. Lines with
// an unknown or negative rate, or a missing or negative base, are dropped.
// Each surviving line carries its own rounded VAT amount and total.
func NormalizeLines(raws []RawLine) domain.VatLines {
	var lines domain.VatLines
	for _, raw := range raws {
		if !raw.Rate.Valid || raw.Rate.Decimal.IsNegative() {
			continue
		}
		if !raw.Base.Valid || raw.Base.Decimal.IsNegative() {
			continue
		}
		rate := NormalizeRate(raw.Rate.Decimal)
		base := Round2(raw.Base.Decimal)
		vat := Round2(base.Mul(rate).Div(oneHundred))
		lines = append(lines, domain.VatLine{
			Rate:      rate,
			Base:      base,
			VatAmount: vat,
			Total:     base.Add(vat),
		})
	}
	return lines
}

// Aggregate consolidates a breakdown into the flat trio by summing the
// already-rounded per-line values. Totals are never re-derived from the
// summed base, so the flat figures always equal the sum of the lines.
func Aggregate(lines domain.VatLines) (base, vatAmount, total decimal.Decimal) {
	for _, l := range lines {
		base = base.Add(l.Base)
		vatAmount = vatAmount.Add(l.VatAmount)
		total = total.Add(l.Total)
	}
	return base, vatAmount, total
}

// Rates returns the distinct rates of a breakdown in first-seen order.
func Rates(lines domain.VatLines) []decimal.Decimal {
	var rates []decimal.Decimal
	for _, l := range lines {
		seen := false
		for _, r := range rates {
			if r.Equal(l.Rate) {
				seen = true
				break
			}
		}
		if !seen {
			rates = append(rates, l.Rate)
		}
	}
	return rates
}

// IsMixed reports whether a breakdown spans more than one rate.
func IsMixed(lines domain.VatLines) bool {
	return len(Rates(lines)) > 1
}

// PrimaryRate is the representative rate shown next to consolidated figures:
// the first line's rate, or fallback for an empty breakdown.
func PrimaryRate(lines domain.VatLines, fallback decimal.Decimal) decimal.Decimal {
	if len(lines) == 0 {
		return fallback
	}
	return lines[0].Rate
}
