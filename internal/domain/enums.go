package domain

// DocumentKind distinguishes received invoices (expenses) from issued ones (income).
type DocumentKind string

const (
	KindExpense DocumentKind = "expense"
	KindIncome  DocumentKind = "income"
)

// ValidDocumentKinds is the accepted set for document creation.
var ValidDocumentKinds = map[DocumentKind]bool{
	KindExpense: true,
	KindIncome:  true,
}

// ExpenseCategory classifies an expense document for deductibility.
type ExpenseCategory string

const (
	CategoryWithInvoice    ExpenseCategory = "with_invoice"
	CategoryWithoutInvoice ExpenseCategory = "without_invoice"
	CategoryNonDeductible  ExpenseCategory = "non_deductible"
)

// ValidExpenseCategories is the accepted set for expense documents.
var ValidExpenseCategories = map[ExpenseCategory]bool{
	CategoryWithInvoice:    true,
	CategoryWithoutInvoice: true,
	CategoryNonDeductible:  true,
}

// NoInvoiceExpenseType classifies expenses that have no backing document.
// The wire values are Spanish and match the historical data set.
type NoInvoiceExpenseType string

const (
	NoInvoicePayroll        NoInvoiceExpenseType = "nomina"
	NoInvoiceSocialSecurity NoInvoiceExpenseType = "seguridad_social"
	NoInvoiceAmortization   NoInvoiceExpenseType = "amortizacion"
	NoInvoiceMileage        NoInvoiceExpenseType = "kilometraje"
	NoInvoiceOther          NoInvoiceExpenseType = "otro"
)

// ValidNoInvoiceExpenseTypes is the accepted set for no-document expenses.
var ValidNoInvoiceExpenseTypes = map[NoInvoiceExpenseType]bool{
	NoInvoicePayroll:        true,
	NoInvoiceSocialSecurity: true,
	NoInvoiceAmortization:   true,
	NoInvoiceMileage:        true,
	NoInvoiceOther:          true,
}

// FilerKind selects the annual tax regime: IRPF for individuals, IS for companies.
type FilerKind string

const (
	FilerIndividual FilerKind = "individual"
	FilerCompany    FilerKind = "company"
)

// AnalysisStatus is the outcome classification of a document extraction attempt.
type AnalysisStatus string

const (
	AnalysisOK             AnalysisStatus = "ok"
	AnalysisLowQualityScan AnalysisStatus = "low_quality_scan"
	AnalysisFailed         AnalysisStatus = "failed"
)

// FieldOrigin records who last wrote a draft field. Extraction may only fill
// fields whose origin is not FieldOriginUser.
type FieldOrigin string

const (
	FieldOriginUnset FieldOrigin = "unset"
	FieldOriginAuto  FieldOrigin = "auto"
	FieldOriginUser  FieldOrigin = "user"
)

// PeriodType is the dashboard reporting window.
type PeriodType string

const (
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
)

// CalendarItemType tags entries in the payment calendar.
type CalendarItemType string

const (
	CalendarIncome    CalendarItemType = "income"
	CalendarExpense   CalendarItemType = "expense"
	CalendarNoInvoice CalendarItemType = "no_invoice"
)

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps upload MIME types to their FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}
