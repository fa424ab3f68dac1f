package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"contia/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Tipo",
	"Fecha factura",
	"Contraparte",
	"Base imponible",
	"Tipo IVA",
	"Cuota IVA",
	"Total",
	"Categoría",
	"Fecha de pago",
	"Desglose IVA",
	"Archivo",
	"Creado",
}

// Writer wraps csv.Writer for exporting documents as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments converts a batch of documents to CSV rows and writes them.
func (w *Writer) WriteDocuments(docs []domain.Document) error {
	for i := range docs {
		if err := w.csv.Write(documentToRow(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func documentToRow(doc *domain.Document) []string {
	row := make([]string, len(columns))
	row[0] = string(doc.Kind)
	row[1] = doc.IssueDate.Format(domain.DateLayout)
	row[2] = doc.Counterparty
	row[3] = doc.BaseAmount.StringFixed(2)
	row[4] = doc.VatRate.String()
	row[5] = doc.VatAmount.StringFixed(2)
	row[6] = doc.TotalAmount.StringFixed(2)
	row[7] = string(doc.ExpenseCategory)
	if doc.PaymentDate != nil {
		row[8] = doc.PaymentDate.Format(domain.DateLayout)
	}
	row[9] = breakdownSummary(doc.VatBreakdown)
	row[10] = doc.OriginalFilename
	row[11] = doc.CreatedAt.Format(time.RFC3339)
	return row
}

// breakdownSummary flattens the lines into "rate%: base" pairs.
func breakdownSummary(lines domain.VatLines) string {
	if len(lines) == 0 {
		return ""
	}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s%%: %s", l.Rate.String(), l.Base.StringFixed(2)))
	}
	return strings.Join(parts, " | ")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_prefix}_{YYYY}-{MM}.csv
func BuildFilename(prefix string, month, year int) string {
	return fmt.Sprintf("%s_%04d-%02d.csv", SanitizeFilename(prefix), year, month)
}
