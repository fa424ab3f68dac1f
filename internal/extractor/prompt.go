package extractor

import "contia/internal/domain"

// Prompts are in Spanish because the documents are. Both variants demand
// bare JSON with a fixed key set and null for anything uncertain.

const expensePrompt = "Analiza el siguiente texto extraido de una factura recibida (gasto). " +
	"Devuelve SOLO JSON valido con estas claves: " +
	"supplier, invoice_date, payment_dates, base_amount, vat_rate, vat_amount, total_amount, vat_breakdown. " +
	"vat_breakdown es una lista opcional de lineas IVA con {rate, base, vat_amount, total}. " +
	"El supplier debe ser la razon social del emisor (forma juridica si aparece) " +
	"y no debe ser el cliente/receptor. " +
	"payment_dates debe ser una lista de fechas (YYYY-MM-DD) y puede estar vacia. " +
	"Usa null si no puedes inferir un dato con seguridad. " +
	"No incluyas texto adicional fuera del JSON.\n\nTEXTO_FACTURA:\n"

const incomePrompt = "Analiza el siguiente texto extraido de una factura emitida (ingreso). " +
	"Devuelve SOLO JSON valido con estas claves: " +
	"client, invoice_date, payment_dates, base_amount, vat_rate, vat_amount, total_amount, vat_breakdown. " +
	"vat_breakdown es una lista opcional de lineas IVA con {rate, base, vat_amount, total}. " +
	"payment_dates debe ser una lista de fechas (YYYY-MM-DD) y puede estar vacia. " +
	"Usa null si no puedes inferir un dato con seguridad. " +
	"No incluyas texto adicional fuera del JSON.\n\nTEXTO_FACTURA:\n"

func buildPrompt(kind domain.DocumentKind, text string) string {
	if kind == domain.KindIncome {
		return incomePrompt + text
	}
	return expensePrompt + text
}
