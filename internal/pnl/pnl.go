// Package pnl computes the annual profit-and-loss statement and the
// income-tax estimate (IRPF for individuals, IS for companies) from the
// year's aggregated figures.
package pnl

import (
	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/tax"
)

// Block separates the statement into its two result sections.
type Block string

const (
	BlockOperating Block = "operating"
	BlockFinancial Block = "financial"
)

// LineDef describes one statement line. Sign is +1 for income lines and -1
// for expense lines, so every value is entered as a positive number.
type LineDef struct {
	Key   string
	Label string
	Block Block
	Sign  int
}

// Line keys. KeyNetRevenue and KeyCostOfGoods auto-fill from the year's
// aggregates; every line is user-overridable.
const (
	KeyNetRevenue          = "net_revenue"
	KeyOtherIncome         = "other_operating_income"
	KeyInventoryVariation  = "inventory_variation"
	KeyCostOfGoods         = "cost_of_goods"
	KeyPersonnel           = "personnel_costs"
	KeySocialSecurity      = "social_security_costs"
	KeyExternalServices    = "external_services"
	KeyRents               = "rents_and_leases"
	KeyRepairs             = "repairs_and_maintenance"
	KeyProfessionalSvcs    = "professional_services"
	KeyInsurance           = "insurance_premiums"
	KeySupplies            = "supplies"
	KeyAdvertising         = "advertising"
	KeyDepreciation        = "depreciation_and_amortization"
	KeyOtherOperating      = "other_operating_expenses"
	KeyFinancialIncome     = "financial_income"
	KeyFinancialExpenses   = "financial_expenses"
	KeyExchangeDifferences = "exchange_differences"
	KeyFinancialImpairment = "impairment_of_financial_instruments"
	KeyOtherFinancial      = "other_financial_results"

	// KeyTaxes overrides the estimated taxes line itself.
	KeyTaxes = "taxes"
)

// Lines is the statement layout, in presentation order. Labels follow the
// abbreviated PGC income statement.
var Lines = []LineDef{
	{KeyNetRevenue, "Importe neto de la cifra de negocios", BlockOperating, +1},
	{KeyOtherIncome, "Otros ingresos de explotación", BlockOperating, +1},
	{KeyInventoryVariation, "Variación de existencias", BlockOperating, -1},
	{KeyCostOfGoods, "Aprovisionamientos", BlockOperating, -1},
	{KeyPersonnel, "Gastos de personal", BlockOperating, -1},
	{KeySocialSecurity, "Seguridad social a cargo de la empresa", BlockOperating, -1},
	{KeyExternalServices, "Servicios exteriores", BlockOperating, -1},
	{KeyRents, "Arrendamientos y cánones", BlockOperating, -1},
	{KeyRepairs, "Reparaciones y conservación", BlockOperating, -1},
	{KeyProfessionalSvcs, "Servicios de profesionales independientes", BlockOperating, -1},
	{KeyInsurance, "Primas de seguros", BlockOperating, -1},
	{KeySupplies, "Suministros", BlockOperating, -1},
	{KeyAdvertising, "Publicidad y propaganda", BlockOperating, -1},
	{KeyDepreciation, "Amortización del inmovilizado", BlockOperating, -1},
	{KeyOtherOperating, "Otros gastos de explotación", BlockOperating, -1},
	{KeyFinancialIncome, "Ingresos financieros", BlockFinancial, +1},
	{KeyFinancialExpenses, "Gastos financieros", BlockFinancial, -1},
	{KeyExchangeDifferences, "Diferencias de cambio", BlockFinancial, +1},
	{KeyFinancialImpairment, "Deterioro de instrumentos financieros", BlockFinancial, -1},
	{KeyOtherFinancial, "Otros resultados financieros", BlockFinancial, +1},
}

var lineIndex = func() map[string]LineDef {
	m := make(map[string]LineDef, len(Lines))
	for _, l := range Lines {
		m[l.Key] = l
	}
	return m
}()

// IsOverridableKey reports whether key names a statement line or the taxes
// line, the set accepted by the override endpoint.
func IsOverridableKey(key string) bool {
	if key == KeyTaxes {
		return true
	}
	_, ok := lineIndex[key]
	return ok
}

// Tax rates by filer kind.
var (
	RateIS   = decimal.NewFromFloat(0.25)
	RateIRPF = decimal.NewFromFloat(0.15)
)

// Statement is the computed annual view. Overridden marks lines the user
// owns; their values came from pnl_overrides rather than the aggregates.
type Statement struct {
	Year            int                        `json:"year"`
	Lines           map[string]decimal.Decimal `json:"lines"`
	Overridden      map[string]bool            `json:"overridden"`
	OperatingResult decimal.Decimal            `json:"operatingResult"`
	FinancialResult decimal.Decimal            `json:"financialResult"`
	PreTaxResult    decimal.Decimal            `json:"preTaxResult"`
	TaxRate         decimal.Decimal            `json:"taxRate"`
	TaxesEstimate   decimal.Decimal            `json:"taxesEstimate"`
	NetResult       decimal.Decimal            `json:"netResult"`
}

// Compute builds the statement for one year. Net revenue auto-fills from the
// annual income, cost of goods from the annual deductible expenses; any
// override wins over the auto-filled value. The taxes line defaults to
// max(preTaxResult, 0) times the filer's rate and is overridable like any
// other line.
func Compute(year int, annualIncome, annualDeductibleExpenses decimal.Decimal, filer domain.FilerKind, overrides map[string]decimal.Decimal) *Statement {
	values := make(map[string]decimal.Decimal, len(Lines))
	overridden := make(map[string]bool, len(overrides))

	for _, l := range Lines {
		values[l.Key] = decimal.Zero
	}
	values[KeyNetRevenue] = annualIncome
	values[KeyCostOfGoods] = annualDeductibleExpenses

	for key, v := range overrides {
		if _, ok := lineIndex[key]; !ok {
			continue
		}
		values[key] = v
		overridden[key] = true
	}

	operating := decimal.Zero
	financial := decimal.Zero
	for _, l := range Lines {
		signed := values[l.Key]
		if l.Sign < 0 {
			signed = signed.Neg()
		}
		if l.Block == BlockOperating {
			operating = operating.Add(signed)
		} else {
			financial = financial.Add(signed)
		}
	}
	operating = tax.Round2(operating)
	financial = tax.Round2(financial)
	preTax := operating.Add(financial)

	rate := RateIRPF
	if filer == domain.FilerCompany {
		rate = RateIS
	}

	taxes := decimal.Zero
	if preTax.IsPositive() {
		taxes = tax.Round2(preTax.Mul(rate))
	}
	if v, ok := overrides[KeyTaxes]; ok {
		taxes = v
		overridden[KeyTaxes] = true
	}

	return &Statement{
		Year:            year,
		Lines:           values,
		Overridden:      overridden,
		OperatingResult: operating,
		FinancialResult: financial,
		PreTaxResult:    preTax,
		TaxRate:         rate,
		TaxesEstimate:   taxes,
		NetResult:       preTax.Sub(taxes),
	}
}
