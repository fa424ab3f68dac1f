// Package xlsxexport renders reports as Excel workbooks.
package xlsxexport

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"contia/internal/domain"
	"contia/internal/pnl"
)

const moneyFormat = "#,##0.00"

// StatementWorkbook renders the annual profit-and-loss statement as a
// two-column sheet: one row per line, result rows after each block.
func StatementWorkbook(st *pnl.Statement) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Cuenta de resultados"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx statement: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(moneyFormat)})
	if err != nil {
		return nil, fmt.Errorf("xlsx statement: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: ptr(moneyFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx statement: %w", err)
	}

	row := 1
	setCell(f, sheet, row, fmt.Sprintf("Cuenta de resultados %d", st.Year), 0, 0)
	row += 2

	writeResult := func(label string, v float64) {
		setCell(f, sheet, row, label, v, boldStyle)
		row++
	}

	block := pnl.BlockOperating
	for _, def := range pnl.Lines {
		if def.Block != block {
			writeResult("Resultado de explotación", st.OperatingResult.InexactFloat64())
			row++
			block = def.Block
		}
		line := st.Lines[def.Key]
		label := def.Label
		if st.Overridden[def.Key] {
			label += " *"
		}
		setCell(f, sheet, row, label, line.InexactFloat64(), moneyStyle)
		row++
	}
	writeResult("Resultado financiero", st.FinancialResult.InexactFloat64())
	row++
	writeResult("Resultado antes de impuestos", st.PreTaxResult.InexactFloat64())
	writeResult(fmt.Sprintf("Impuestos (%s%%)", st.TaxRate.Mul(decimal.NewFromInt(100)).String()), st.TaxesEstimate.InexactFloat64())
	writeResult("Resultado neto", st.NetResult.InexactFloat64())

	if err := f.SetColWidth(sheet, "A", "A", 42); err != nil {
		return nil, fmt.Errorf("xlsx statement: %w", err)
	}
	return f, nil
}

// SummaryWorkbook renders a period summary: per-rate base and VAT buckets
// plus the counterparty totals.
func SummaryWorkbook(s *domain.PeriodSummary, title string) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Resumen IVA"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx summary: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(moneyFormat)})
	if err != nil {
		return nil, fmt.Errorf("xlsx summary: %w", err)
	}

	row := 1
	setCell(f, sheet, row, title, 0, 0)
	row += 2

	setCell(f, sheet, row, "Tipo IVA", 0, 0)
	_ = f.SetCellValue(sheet, cell("B", row), "Base")
	_ = f.SetCellValue(sheet, cell("C", row), "Cuota")
	row++
	for _, key := range sortedRateKeys(s.BaseTotals) {
		setCell(f, sheet, row, key+"%", s.BaseTotals[key].InexactFloat64(), moneyStyle)
		_ = f.SetCellValue(sheet, cell("C", row), s.VatTotals[key].InexactFloat64())
		_ = f.SetCellStyle(sheet, cell("C", row), cell("C", row), moneyStyle)
		row++
	}
	setCell(f, sheet, row, "Total", s.Total.InexactFloat64(), moneyStyle)
	_ = f.SetCellValue(sheet, cell("C", row), s.TotalVat.InexactFloat64())
	_ = f.SetCellStyle(sheet, cell("C", row), cell("C", row), moneyStyle)
	row += 2

	if len(s.SupplierTotals) > 0 {
		setCell(f, sheet, row, "Contraparte", 0, 0)
		_ = f.SetCellValue(sheet, cell("B", row), "Total")
		row++
		for _, name := range sortedKeys(s.SupplierTotals) {
			setCell(f, sheet, row, name, s.SupplierTotals[name].InexactFloat64(), moneyStyle)
			row++
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 36); err != nil {
		return nil, fmt.Errorf("xlsx summary: %w", err)
	}
	return f, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// setCell writes label in column A and, when style is non-zero, value in
// column B with the given style.
func setCell(f *excelize.File, sheet string, row int, label string, value float64, style int) {
	_ = f.SetCellValue(sheet, cell("A", row), label)
	if style != 0 {
		_ = f.SetCellValue(sheet, cell("B", row), value)
		_ = f.SetCellStyle(sheet, cell("B", row), cell("B", row), style)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedRateKeys orders rate buckets numerically, so 4 comes before 10.
func sortedRateKeys[V any](m map[string]V) []string {
	keys := sortedKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(keys[i], 64)
		b, errB := strconv.ParseFloat(keys[j], 64)
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}

func ptr(s string) *string { return &s }
