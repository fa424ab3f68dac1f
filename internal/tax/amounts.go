// Package tax implements the money arithmetic shared by drafts, documents
// and period summaries: resolving the base/VAT/total trio from partial
// figures and consolidating multi-rate VAT breakdowns.
package tax

import (
	"github.com/shopspring/decimal"

	"contia/internal/domain"
)

// DefaultRate is the general Spanish VAT rate, applied when no rate was
// entered or detected.
var DefaultRate = decimal.NewFromInt(21)

var oneHundred = decimal.NewFromInt(100)

// Source names which detected figure anchors the resolution.
type Source string

const (
	SourceTotal Source = "total"
	SourceBase  Source = "base"
)

// Amounts is a resolved trio. Null members mean "unknown", never zero.
type Amounts struct {
	Base      decimal.NullDecimal
	VatAmount decimal.NullDecimal
	Total     decimal.NullDecimal
}

// Round2 rounds to 2 decimals, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func null() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func known(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Resolve derives the full trio from whichever figures are known.
//
// Without a usable rate the known figures pass through rounded and the VAT
// amount stays unknown. With a rate, the anchor named by source wins; when
// that figure is absent the other one anchors instead. A total anchor is
// split as base = total / (1 + rate/100); a base anchor is grossed up as
// total = base * (1 + rate/100). Every returned figure is rounded.
func Resolve(base, total decimal.NullDecimal, ratePercent decimal.NullDecimal, source Source) Amounts {
	if !ratePercent.Valid || ratePercent.Decimal.IsNegative() {
		out := Amounts{VatAmount: null()}
		if base.Valid {
			out.Base = known(Round2(base.Decimal))
		}
		if total.Valid {
			out.Total = known(Round2(total.Decimal))
		}
		return out
	}

	rate := ratePercent.Decimal

	fromTotal := func(t decimal.Decimal) Amounts {
		b := Round2(t.Div(one().Add(rate.Div(oneHundred))))
		t = Round2(t)
		return Amounts{
			Base:      known(b),
			VatAmount: known(t.Sub(b)),
			Total:     known(t),
		}
	}
	fromBase := func(b decimal.Decimal) Amounts {
		b = Round2(b)
		v := Round2(b.Mul(rate).Div(oneHundred))
		return Amounts{
			Base:      known(b),
			VatAmount: known(v),
			Total:     known(b.Add(v)),
		}
	}

	switch {
	case source == SourceTotal && total.Valid:
		return fromTotal(total.Decimal)
	case source == SourceBase && base.Valid:
		return fromBase(base.Decimal)
	case total.Valid:
		return fromTotal(total.Decimal)
	case base.Valid:
		return fromBase(base.Decimal)
	default:
		return Amounts{}
	}
}

func one() decimal.Decimal {
	return decimal.NewFromInt(1)
}

// Figures is the flat money state of a document: all members are concrete
// because a persisted document always carries the full trio.
type Figures struct {
	Base      decimal.Decimal
	Rate      decimal.Decimal
	VatAmount decimal.Decimal
	Total     decimal.Decimal
}

// ApplyEdit recomputes the trio after a manual edit. The edited value must
// already be set on f; field names the member that changed.
//
// Base and rate edits keep the base authoritative and re-derive VAT and
// total. A total edit back-solves the base. A VAT-amount edit only moves the
// total forward (total = base + vat); the base is never back-solved from VAT.
func ApplyEdit(f Figures, field string) Figures {
	switch field {
	case domain.FieldBaseAmount, domain.FieldVatRate:
		f.Base = Round2(f.Base)
		f.VatAmount = Round2(f.Base.Mul(f.Rate).Div(oneHundred))
		f.Total = f.Base.Add(f.VatAmount)
	case domain.FieldVatAmount:
		f.VatAmount = Round2(f.VatAmount)
		f.Total = Round2(f.Base.Add(f.VatAmount))
	case domain.FieldTotalAmount:
		f.Total = Round2(f.Total)
		f.Base = Round2(f.Total.Div(one().Add(f.Rate.Div(oneHundred))))
		f.VatAmount = f.Total.Sub(f.Base)
	}
	return f
}
