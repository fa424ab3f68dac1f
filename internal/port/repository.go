package port

import (
	"context"

	"github.com/google/uuid"

	"contia/internal/domain"
)

// CompanyRepository defines the contract for company persistence.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	Update(ctx context.Context, company *domain.Company) error
}

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// DocumentRepository defines the contract for document persistence.
// All query methods include companyID to enforce company isolation at the
// data layer.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	ListByMonth(ctx context.Context, companyID uuid.UUID, kind domain.DocumentKind, month, year int) ([]domain.Document, error)
	ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.Document, error)
	AvailableYears(ctx context.Context, companyID uuid.UUID) ([]int, error)
}

// NoInvoiceExpenseRepository defines the contract for no-document expense
// persistence.
type NoInvoiceExpenseRepository interface {
	Create(ctx context.Context, e *domain.NoInvoiceExpense) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.NoInvoiceExpense, error)
	Update(ctx context.Context, e *domain.NoInvoiceExpense) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.NoInvoiceExpense, error)
	ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.NoInvoiceExpense, error)
}

// BillingRepository defines the contract for manual billing entries.
type BillingRepository interface {
	Create(ctx context.Context, entry *domain.BillingEntry) error
	Update(ctx context.Context, entry *domain.BillingEntry) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	ListByMonth(ctx context.Context, companyID uuid.UUID, month, year int) ([]domain.BillingEntry, error)
	ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.BillingEntry, error)
}

// PnlOverrideRepository defines the contract for sticky P&L line overrides.
type PnlOverrideRepository interface {
	Upsert(ctx context.Context, o *domain.PnlOverride) error
	Delete(ctx context.Context, companyID uuid.UUID, year int, lineKey string) error
	ListByYear(ctx context.Context, companyID uuid.UUID, year int) ([]domain.PnlOverride, error)
}
