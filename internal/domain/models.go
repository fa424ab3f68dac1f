package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

func init() {
	// Monetary fields serialize as JSON numbers, matching the API contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// Company is the business the authenticated user files taxes for.
type Company struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	LegalName string    `db:"legal_name" json:"legal_name"`
	Filer     FilerKind `db:"filer_kind" json:"filer_kind"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User is an account scoped to one company.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CompanyID    uuid.UUID `db:"company_id" json:"company_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// VatLine is one rate line of a multi-rate invoice. Base, VatAmount and Total
// are stored already rounded to 2 decimals.
type VatLine struct {
	Rate      decimal.Decimal `json:"rate"`
	Base      decimal.Decimal `json:"base"`
	VatAmount decimal.Decimal `json:"vat_amount"`
	Total     decimal.Decimal `json:"total"`
}

// VatLines is an ordered VAT breakdown stored as a JSONB column.
type VatLines []VatLine

// Value implements driver.Valuer.
func (v VatLines) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner.
func (v *VatLines) Scan(src interface{}) error {
	if src == nil {
		*v = nil
		return nil
	}
	var data []byte
	switch t := src.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return fmt.Errorf("unsupported type for VatLines: %T", src)
	}
	return json.Unmarshal(data, v)
}

// DateList is an ordered list of ISO dates stored as a JSONB column.
type DateList []string

// Value implements driver.Valuer.
func (d DateList) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *DateList) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	var data []byte
	switch t := src.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return fmt.Errorf("unsupported type for DateList: %T", src)
	}
	return json.Unmarshal(data, d)
}

// Document is a persisted invoice, either an expense (received) or income
// (issued). When VatBreakdown is non-empty it is authoritative and the flat
// money fields are recomputed mirrors of its aggregate.
type Document struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	CompanyID        uuid.UUID       `db:"company_id" json:"company_id"`
	Kind             DocumentKind    `db:"kind" json:"kind"`
	IssueDate        time.Time       `db:"issue_date" json:"issue_date"`
	Counterparty     string          `db:"counterparty" json:"counterparty"`
	BaseAmount       decimal.Decimal `db:"base_amount" json:"base_amount"`
	VatRate          decimal.Decimal `db:"vat_rate" json:"vat_rate"`
	VatAmount        decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	TotalAmount      decimal.Decimal `db:"total_amount" json:"total_amount"`
	VatBreakdown     VatLines        `db:"vat_breakdown" json:"vat_breakdown,omitempty"`
	ExpenseCategory  ExpenseCategory `db:"expense_category" json:"expense_category,omitempty"`
	PaymentDate      *time.Time      `db:"payment_date" json:"payment_date,omitempty"`
	PaymentDates     DateList        `db:"payment_dates" json:"payment_dates,omitempty"`
	OriginalFilename string          `db:"original_filename" json:"original_filename,omitempty"`
	StoredFilename   string          `db:"stored_filename" json:"-"`
	AnalysisText     string          `db:"analysis_text" json:"analysis_text,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// HasBreakdown reports whether the document carries a multi-rate breakdown.
func (d *Document) HasBreakdown() bool {
	return len(d.VatBreakdown) > 0
}

// NoInvoiceExpense is a deductible or informative expense with no backing
// document (payroll, social security, amortization, mileage, other).
type NoInvoiceExpense struct {
	ID          uuid.UUID            `db:"id" json:"id"`
	CompanyID   uuid.UUID            `db:"company_id" json:"company_id"`
	ExpenseDate time.Time            `db:"expense_date" json:"expense_date"`
	Concept     string               `db:"concept" json:"concept"`
	Amount      decimal.Decimal      `db:"amount" json:"amount"`
	ExpenseType NoInvoiceExpenseType `db:"expense_type" json:"expense_type"`
	Deductible  bool                 `db:"deductible" json:"deductible"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
}

// BillingEntry is manually declared monthly income for businesses that do not
// upload issued invoices.
type BillingEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	CompanyID  uuid.UUID       `db:"company_id" json:"company_id"`
	Month      int             `db:"month" json:"mes"`
	Year       int             `db:"year" json:"anio"`
	Base       decimal.Decimal `db:"base" json:"base_facturada"`
	VatRate    decimal.Decimal `db:"vat_rate" json:"tipo_iva"`
	VatCharged decimal.Decimal `db:"vat_charged" json:"iva_repercutido"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// PnlOverride is a sticky user override of one profit-and-loss line.
type PnlOverride struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	CompanyID uuid.UUID       `db:"company_id" json:"company_id"`
	Year      int             `db:"year" json:"year"`
	LineKey   string          `db:"line_key" json:"line_key"`
	Value     decimal.Decimal `db:"value" json:"value"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Draft field names, used as keys of the per-field origin map.
const (
	FieldCounterparty    = "counterparty"
	FieldIssueDate       = "issue_date"
	FieldBaseAmount      = "base_amount"
	FieldVatRate         = "vat_rate"
	FieldVatAmount       = "vat_amount"
	FieldTotalAmount     = "total_amount"
	FieldPaymentDate     = "payment_date"
	FieldVatBreakdown    = "vat_breakdown"
	FieldExpenseCategory = "expense_category"
)

// Draft is an in-progress document being reconciled between extraction
// results and user edits. Drafts live in memory only and are destroyed on
// submission.
type Draft struct {
	ID              uuid.UUID              `json:"id"`
	CompanyID       uuid.UUID              `json:"company_id"`
	Doc             Document               `json:"document"`
	FieldOrigins    map[string]FieldOrigin `json:"field_origins"`
	AnalysisPending bool                   `json:"analysis_pending"`
	AnalysisStatus  AnalysisStatus         `json:"analysis_status,omitempty"`
	AnalysisError   string                 `json:"analysis_error,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// Origin returns the recorded origin of a field, defaulting to unset.
func (d *Draft) Origin(field string) FieldOrigin {
	if d.FieldOrigins == nil {
		return FieldOriginUnset
	}
	if o, ok := d.FieldOrigins[field]; ok {
		return o
	}
	return FieldOriginUnset
}

// CanAutoFill reports whether extraction is allowed to write the field.
func (d *Draft) CanAutoFill(field string) bool {
	return d.Origin(field) != FieldOriginUser
}

// MarkAuto records an extraction write. User-owned fields are never demoted.
func (d *Draft) MarkAuto(field string) {
	if d.FieldOrigins == nil {
		d.FieldOrigins = make(map[string]FieldOrigin)
	}
	if d.FieldOrigins[field] != FieldOriginUser {
		d.FieldOrigins[field] = FieldOriginAuto
	}
}

// MarkUser records a manual edit; the field is owned by the user from then on.
func (d *Draft) MarkUser(field string) {
	if d.FieldOrigins == nil {
		d.FieldOrigins = make(map[string]FieldOrigin)
	}
	d.FieldOrigins[field] = FieldOriginUser
}

// ExtractionResult is the normalized output of the document extractor.
// Null decimals distinguish "not detected" from zero.
type ExtractionResult struct {
	Status       AnalysisStatus      `json:"analysis_status"`
	Counterparty string              `json:"counterparty"`
	InvoiceDate  string              `json:"invoice_date"`
	PaymentDate  string              `json:"payment_date"`
	PaymentDates []string            `json:"payment_dates"`
	BaseAmount   decimal.NullDecimal `json:"base_amount"`
	VatRate      decimal.NullDecimal `json:"vat_rate"`
	VatAmount    decimal.NullDecimal `json:"vat_amount"`
	TotalAmount  decimal.NullDecimal `json:"total_amount"`
	VatBreakdown VatLines            `json:"vat_breakdown"`
	AnalysisText string              `json:"analysis_text"`
}

// PeriodSummary is a pure view over one month or one quarter of documents.
// Map keys are normalized rate strings ("0", "4", "10", "21", ...).
type PeriodSummary struct {
	Months         []int                      `json:"months"`
	Year           int                        `json:"year"`
	Total          decimal.Decimal            `json:"total"`
	TotalVat       decimal.Decimal            `json:"totalVat"`
	BaseTotals     map[string]decimal.Decimal `json:"baseTotals"`
	VatTotals      map[string]decimal.Decimal `json:"vatTotals"`
	SupplierTotals map[string]decimal.Decimal `json:"supplierTotals"`
	MonthlyTotals  []decimal.Decimal          `json:"monthlyTotals"`
	Days           []int                      `json:"days,omitempty"`
	Cumulative     []decimal.Decimal          `json:"cumulative,omitempty"`
}

// CalendarItem is one payment due inside the calendar month.
type CalendarItem struct {
	DocumentID   *uuid.UUID       `json:"document_id,omitempty"`
	Type         CalendarItemType `json:"type"`
	Counterparty string           `json:"counterparty"`
	Concept      string           `json:"concept,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	DueDate      string           `json:"due_date"`
}

// PaymentCalendar is the month view: items grouped and totalled per day.
type PaymentCalendar struct {
	Month      int                     `json:"month"`
	Year       int                     `json:"year"`
	DayTotals  map[int]decimal.Decimal `json:"dayTotals"`
	ItemsByDay map[int][]CalendarItem  `json:"itemsByDay"`
	Items      []CalendarItem          `json:"items"`
}
