package extractor

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"contia/internal/domain"
	"contia/internal/tax"
)

// NormalizeAmount parses a monetary value from model output. It accepts JSON
// numbers and the string formats found on Spanish invoices: "1.234,56",
// "1,234.56", "1234.56" and thousands-only "1.234".
func NormalizeAmount(v interface{}) decimal.NullDecimal {
	switch t := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case float64:
		return nullDec(decimal.NewFromFloat(t))
	case json.Number:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return nullDec(d)
		}
		return decimal.NullDecimal{}
	case string:
		return normalizeAmountString(t)
	default:
		return decimal.NullDecimal{}
	}
}

func normalizeAmountString(raw string) decimal.NullDecimal {
	raw = strings.ReplaceAll(raw, "EUR", "")
	raw = strings.ReplaceAll(raw, "euro", "")
	raw = strings.ReplaceAll(raw, "€", "")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return decimal.NullDecimal{}
	}

	commas := strings.Count(raw, ",")
	dots := strings.Count(raw, ".")
	switch {
	case commas >= 1 && dots >= 1:
		// European layout: dots are thousands, comma is the decimal mark.
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	case commas == 1 && dots == 0:
		raw = strings.ReplaceAll(raw, ",", ".")
	case dots >= 1 && commas == 0:
		parts := strings.Split(raw, ".")
		if len(parts[len(parts)-1]) == 2 {
			raw = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
		} else {
			raw = strings.ReplaceAll(raw, ".", "")
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return nullDec(d)
}

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)
	ymdDateRe = regexp.MustCompile(`^(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)
)

// NormalizeDate converts DD/MM/YYYY, DD-MM-YY and YYYY/MM/DD forms to ISO
// format. It returns "" when the value is not a recognizable date.
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if isoDateRe.MatchString(value) {
		return value
	}
	if m := dmyDateRe.FindStringSubmatch(value); m != nil {
		day, month, year := m[1], m[2], m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return pad4(year) + "-" + pad2(month) + "-" + pad2(day)
	}
	if m := ymdDateRe.FindStringSubmatch(value); m != nil {
		return pad4(m[1]) + "-" + pad2(m[2]) + "-" + pad2(m[3])
	}
	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func pad4(s string) string {
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// NormalizeRate parses a VAT rate ("21", "21 %", "21,0", JSON number) and
// rejects negatives. Rates within 0.001 of an integer snap to it.
func NormalizeRate(v interface{}) decimal.NullDecimal {
	var numeric decimal.Decimal
	switch t := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case float64:
		numeric = decimal.NewFromFloat(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.NullDecimal{}
		}
		numeric = d
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(t, "%", ""))
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
		if cleaned == "" {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.NullDecimal{}
		}
		numeric = d
	default:
		return decimal.NullDecimal{}
	}
	if numeric.IsNegative() {
		return decimal.NullDecimal{}
	}
	return nullDec(tax.NormalizeRate(numeric))
}

func nullDec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// spanishRates is the set accepted for OCR-derived breakdown lines. Free-form
// model output loves inventing rates; anything outside the national set is
// discarded.
var spanishRates = map[string]bool{"0": true, "4": true, "10": true, "21": true}

// NormalizeBreakdown converts the model's vat_breakdown value (list, single
// object, or JSON-encoded string of either) into validated lines. Lines
// without a Spanish rate or without any amount are dropped; a missing base is
// back-solved from the line total.
func NormalizeBreakdown(v interface{}) domain.VatLines {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		var decoded interface{}
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil
		}
		v = decoded
	}
	var entries []interface{}
	switch t := v.(type) {
	case []interface{}:
		entries = t
	case map[string]interface{}:
		entries = []interface{}{t}
	default:
		return nil
	}

	var raws []tax.RawLine
	for _, e := range entries {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		rate := NormalizeRate(pick(m, "rate", "vat_rate", "vat", "iva_rate", "iva"))
		if !rate.Valid || !spanishRates[rate.Decimal.String()] {
			continue
		}
		base := NormalizeAmount(pick(m, "base", "base_amount"))
		total := NormalizeAmount(pick(m, "total", "total_amount"))
		if !base.Valid && total.Valid {
			divisor := decimal.NewFromInt(1).Add(rate.Decimal.Div(decimal.NewFromInt(100)))
			base = nullDec(tax.Round2(total.Decimal.Div(divisor)))
		}
		raws = append(raws, tax.RawLine{Rate: rate, Base: base})
	}
	return tax.NormalizeLines(raws)
}

func pick(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v
		}
	}
	return nil
}

var (
	fenceRe = regexp.MustCompile("^```[a-zA-Z]*")
	braceRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON recovers a JSON object from model output that may be wrapped
// in code fences or surrounded by prose. It returns nil when no object can
// be decoded.
func ExtractJSON(text string) map[string]interface{} {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil
	}
	if strings.HasPrefix(cleaned, "```") {
		cleaned = fenceRe.ReplaceAllString(cleaned, "")
		cleaned = strings.Trim(cleaned, "` \n")
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &out); err == nil {
		return out
	}
	if m := braceRe.FindString(cleaned); m != "" {
		if err := json.Unmarshal([]byte(m), &out); err == nil {
			return out
		}
	}
	return nil
}

// IsLowQualityOCR flags text too thin or too garbled to analyze: fewer than
// minChars alphanumeric characters, or letters below 30% of them.
func IsLowQualityOCR(text string, minChars int) bool {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return true
	}
	alnum, letters := 0, 0
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if alnum < minChars {
		return true
	}
	return float64(letters)/float64(alnum) < 0.3
}
