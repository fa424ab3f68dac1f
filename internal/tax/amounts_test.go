package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contia/internal/domain"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func dn(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	return decimal.NullDecimal{Decimal: d(t, s), Valid: true}
}

func TestRound2(t *testing.T) {
	// Half away from zero on both sides.
	assert.True(t, Round2(d(t, "2.675")).Equal(d(t, "2.68")))
	assert.True(t, Round2(d(t, "-2.675")).Equal(d(t, "-2.68")))
	assert.True(t, Round2(d(t, "0.005")).Equal(d(t, "0.01")))
	assert.True(t, Round2(d(t, "10")).Equal(d(t, "10")))
}

func TestResolve(t *testing.T) {
	t.Run("base anchor grosses up", func(t *testing.T) {
		got := Resolve(dn(t, "100"), decimal.NullDecimal{}, dn(t, "21"), SourceBase)
		require.True(t, got.Base.Valid)
		require.True(t, got.VatAmount.Valid)
		require.True(t, got.Total.Valid)
		assert.True(t, got.Base.Decimal.Equal(d(t, "100")))
		assert.True(t, got.VatAmount.Decimal.Equal(d(t, "21.00")))
		assert.True(t, got.Total.Decimal.Equal(d(t, "121.00")))
	})

	t.Run("total anchor splits", func(t *testing.T) {
		got := Resolve(decimal.NullDecimal{}, dn(t, "121"), dn(t, "21"), SourceTotal)
		require.True(t, got.Base.Valid)
		assert.True(t, got.Base.Decimal.Equal(d(t, "100.00")))
		assert.True(t, got.VatAmount.Decimal.Equal(d(t, "21.00")))
		assert.True(t, got.Total.Decimal.Equal(d(t, "121.00")))
	})

	t.Run("zero rate keeps base equal to total", func(t *testing.T) {
		got := Resolve(decimal.NullDecimal{}, dn(t, "50"), dn(t, "0"), SourceTotal)
		assert.True(t, got.Base.Decimal.Equal(d(t, "50.00")))
		assert.True(t, got.VatAmount.Decimal.IsZero())
		assert.True(t, got.Total.Decimal.Equal(d(t, "50.00")))
	})

	t.Run("source total without total falls back to base", func(t *testing.T) {
		got := Resolve(dn(t, "200"), decimal.NullDecimal{}, dn(t, "10"), SourceTotal)
		require.True(t, got.Total.Valid)
		assert.True(t, got.VatAmount.Decimal.Equal(d(t, "20.00")))
		assert.True(t, got.Total.Decimal.Equal(d(t, "220.00")))
	})

	t.Run("source base without base falls back to total", func(t *testing.T) {
		got := Resolve(decimal.NullDecimal{}, dn(t, "110"), dn(t, "10"), SourceBase)
		require.True(t, got.Base.Valid)
		assert.True(t, got.Base.Decimal.Equal(d(t, "100.00")))
	})

	t.Run("missing rate passes figures through", func(t *testing.T) {
		got := Resolve(dn(t, "100"), dn(t, "121"), decimal.NullDecimal{}, SourceTotal)
		assert.True(t, got.Base.Valid)
		assert.True(t, got.Total.Valid)
		assert.False(t, got.VatAmount.Valid)
	})

	t.Run("negative rate treated as missing", func(t *testing.T) {
		got := Resolve(dn(t, "100"), decimal.NullDecimal{}, dn(t, "-5"), SourceBase)
		assert.True(t, got.Base.Valid)
		assert.False(t, got.VatAmount.Valid)
		assert.False(t, got.Total.Valid)
	})

	t.Run("nothing known resolves to nothing", func(t *testing.T) {
		got := Resolve(decimal.NullDecimal{}, decimal.NullDecimal{}, dn(t, "21"), SourceTotal)
		assert.False(t, got.Base.Valid)
		assert.False(t, got.VatAmount.Valid)
		assert.False(t, got.Total.Valid)
	})

	t.Run("uneven split rounds each figure", func(t *testing.T) {
		got := Resolve(decimal.NullDecimal{}, dn(t, "100"), dn(t, "21"), SourceTotal)
		assert.True(t, got.Base.Decimal.Equal(d(t, "82.64")))
		assert.True(t, got.VatAmount.Decimal.Equal(d(t, "17.36")))
		assert.True(t, got.Total.Decimal.Equal(d(t, "100.00")))
	})
}

func TestApplyEdit(t *testing.T) {
	start := Figures{
		Base:      d(t, "100"),
		Rate:      d(t, "21"),
		VatAmount: d(t, "21"),
		Total:     d(t, "121"),
	}

	t.Run("base edit rederives vat and total", func(t *testing.T) {
		f := start
		f.Base = d(t, "200")
		got := ApplyEdit(f, domain.FieldBaseAmount)
		assert.True(t, got.VatAmount.Equal(d(t, "42.00")))
		assert.True(t, got.Total.Equal(d(t, "242.00")))
	})

	t.Run("rate edit keeps base authoritative", func(t *testing.T) {
		f := start
		f.Rate = d(t, "10")
		got := ApplyEdit(f, domain.FieldVatRate)
		assert.True(t, got.Base.Equal(d(t, "100")))
		assert.True(t, got.VatAmount.Equal(d(t, "10.00")))
		assert.True(t, got.Total.Equal(d(t, "110.00")))
	})

	t.Run("vat edit only moves total forward", func(t *testing.T) {
		f := start
		f.VatAmount = d(t, "20")
		got := ApplyEdit(f, domain.FieldVatAmount)
		assert.True(t, got.Base.Equal(d(t, "100")), "base is never back-solved from VAT")
		assert.True(t, got.Total.Equal(d(t, "120.00")))
	})

	t.Run("total edit back-solves base", func(t *testing.T) {
		f := start
		f.Total = d(t, "242")
		got := ApplyEdit(f, domain.FieldTotalAmount)
		assert.True(t, got.Base.Equal(d(t, "200.00")))
		assert.True(t, got.VatAmount.Equal(d(t, "42.00")))
	})
}
