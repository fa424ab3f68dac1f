package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"contia/internal/config"
	"contia/internal/domain"
	"contia/internal/port"
	"contia/internal/reconcile"
	"contia/internal/tax"
)

// DraftUploadInput carries an uploaded invoice file plus its extracted text.
type DraftUploadInput struct {
	Kind        domain.DocumentKind
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Text        string
}

// DraftTextEditInput edits one non-money draft field.
type DraftTextEditInput struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// DraftService manages the in-memory draft lifecycle: upload, extraction,
// user edits and final submission into the document ledger.
type DraftService interface {
	CreateFromUpload(ctx context.Context, companyID uuid.UUID, input DraftUploadInput) (*domain.Draft, error)
	CreateManual(ctx context.Context, companyID uuid.UUID, kind domain.DocumentKind) (*domain.Draft, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*domain.Draft, error)
	List(ctx context.Context, companyID uuid.UUID) ([]*domain.Draft, error)
	EditTextField(ctx context.Context, companyID, id uuid.UUID, input DraftTextEditInput) (*domain.Draft, error)
	EditMoneyField(ctx context.Context, companyID, id uuid.UUID, input FieldEditInput) (*domain.Draft, error)
	UpdateBreakdown(ctx context.Context, companyID, id uuid.UUID, lines domain.VatLines) (*domain.Draft, error)
	Submit(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error)
	Discard(ctx context.Context, companyID, id uuid.UUID) error
	FileURL(ctx context.Context, companyID, id uuid.UUID) (string, error)
}

type draftService struct {
	store       *reconcile.DraftStore
	docRepo     port.DocumentRepository
	companyRepo port.CompanyRepository
	storage     port.ObjectStorage
	extractor   port.DocumentExtractor
	cfg         config.S3Config
}

// NewDraftService creates a new DraftService implementation.
func NewDraftService(
	store *reconcile.DraftStore,
	docRepo port.DocumentRepository,
	companyRepo port.CompanyRepository,
	storage port.ObjectStorage,
	extractor port.DocumentExtractor,
	cfg config.S3Config,
) DraftService {
	return &draftService{
		store:       store,
		docRepo:     docRepo,
		companyRepo: companyRepo,
		storage:     storage,
		extractor:   extractor,
		cfg:         cfg,
	}
}

// CreateFromUpload stores the file, creates a draft and runs extraction
// before returning, so the caller gets the reconciled draft in one round
// trip. Extraction failures degrade the draft to manual entry instead of
// failing the upload.
func (s *draftService) CreateFromUpload(ctx context.Context, companyID uuid.UUID, input DraftUploadInput) (*domain.Draft, error) {
	if !domain.ValidDocumentKinds[input.Kind] {
		return nil, domain.ValidationErrors{{Field: "kind", Message: "kind must be expense or income"}}
	}
	fileType, ok := domain.AllowedContentTypes[input.ContentType]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if input.Size > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	draftID := uuid.New()
	storedName := fmt.Sprintf("%s/%s.%s", companyID, draftID, fileType)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         storedName,
		Body:        input.Body,
		ContentType: input.ContentType,
		Size:        input.Size,
	}); err != nil {
		log.Printf("draft: upload failed for company %s: %v", companyID, err)
		return nil, domain.ErrUploadFailed
	}

	now := time.Now().UTC()
	draft := &domain.Draft{
		ID:        draftID,
		CompanyID: companyID,
		Doc: domain.Document{
			CompanyID:        companyID,
			Kind:             input.Kind,
			OriginalFilename: input.Filename,
			StoredFilename:   storedName,
		},
		FieldOrigins:    make(map[string]domain.FieldOrigin),
		AnalysisPending: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.Kind == domain.KindExpense {
		draft.Doc.ExpenseCategory = domain.CategoryWithInvoice
	}
	s.store.Put(draft)

	s.analyze(ctx, draft, input.Text)
	return draft, nil
}

// CreateManual opens an empty draft for hand entry, no file attached.
func (s *draftService) CreateManual(ctx context.Context, companyID uuid.UUID, kind domain.DocumentKind) (*domain.Draft, error) {
	if !domain.ValidDocumentKinds[kind] {
		return nil, domain.ValidationErrors{{Field: "kind", Message: "kind must be expense or income"}}
	}
	now := time.Now().UTC()
	draft := &domain.Draft{
		ID:        uuid.New(),
		CompanyID: companyID,
		Doc: domain.Document{
			CompanyID: companyID,
			Kind:      kind,
		},
		FieldOrigins: make(map[string]domain.FieldOrigin),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if kind == domain.KindExpense {
		draft.Doc.ExpenseCategory = domain.CategoryWithInvoice
	}
	s.store.Put(draft)
	return draft, nil
}

func (s *draftService) analyze(ctx context.Context, draft *domain.Draft, text string) {
	result, err := s.extractor.Analyze(ctx, port.ExtractInput{
		Kind:     draft.Doc.Kind,
		Text:     text,
		Filename: draft.Doc.OriginalFilename,
	})
	if err != nil {
		log.Printf("draft: analysis failed for draft %s: %v", draft.ID, err)
		draft.AnalysisPending = false
		draft.AnalysisStatus = domain.AnalysisFailed
		draft.AnalysisError = err.Error()
		draft.UpdatedAt = time.Now().UTC()
		return
	}
	reconcile.Apply(draft, result, s.companyNames(ctx, draft.CompanyID))
}

func (s *draftService) companyNames(ctx context.Context, companyID uuid.UUID) []string {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		log.Printf("draft: company lookup failed for %s: %v", companyID, err)
		return nil
	}
	return []string{company.Name, company.LegalName}
}

func (s *draftService) Get(ctx context.Context, companyID, id uuid.UUID) (*domain.Draft, error) {
	return s.store.Get(companyID, id)
}

func (s *draftService) List(ctx context.Context, companyID uuid.UUID) ([]*domain.Draft, error) {
	return s.store.ListByCompany(companyID), nil
}

// EditTextField applies a user edit to one of the non-money fields and marks
// it user-owned so later extraction output can never overwrite it.
func (s *draftService) EditTextField(ctx context.Context, companyID, id uuid.UUID, input DraftTextEditInput) (*domain.Draft, error) {
	draft, err := s.store.Get(companyID, id)
	if err != nil {
		return nil, err
	}

	switch input.Field {
	case domain.FieldCounterparty:
		draft.Doc.Counterparty = input.Value
	case domain.FieldIssueDate:
		ts, err := time.Parse(domain.DateLayout, input.Value)
		if err != nil {
			return nil, domain.ValidationErrors{{Field: input.Field, Message: "issue date must be YYYY-MM-DD"}}
		}
		draft.Doc.IssueDate = ts
	case domain.FieldPaymentDate:
		if input.Value == "" {
			draft.Doc.PaymentDate = nil
			draft.Doc.PaymentDates = nil
		} else {
			ts, err := time.Parse(domain.DateLayout, input.Value)
			if err != nil {
				return nil, domain.ValidationErrors{{Field: input.Field, Message: "payment date must be YYYY-MM-DD"}}
			}
			reconcile.SetPaymentDate(&draft.Doc, input.Value, ts)
		}
	case domain.FieldExpenseCategory:
		cat := domain.ExpenseCategory(input.Value)
		if !domain.ValidExpenseCategories[cat] {
			return nil, domain.ValidationErrors{{Field: input.Field, Message: "unknown expense category"}}
		}
		draft.Doc.ExpenseCategory = cat
	default:
		return nil, domain.ValidationErrors{{Field: input.Field, Message: "not an editable text field"}}
	}

	draft.MarkUser(input.Field)
	draft.UpdatedAt = time.Now().UTC()
	return draft, nil
}

// EditMoneyField applies a user edit to one flat money figure and re-derives
// the rest of the trio. The edited field becomes user-owned; the derived
// figures stay auto so extraction and later edits may still move them.
func (s *draftService) EditMoneyField(ctx context.Context, companyID, id uuid.UUID, input FieldEditInput) (*domain.Draft, error) {
	draft, err := s.store.Get(companyID, id)
	if err != nil {
		return nil, err
	}
	if draft.Doc.HasBreakdown() {
		return nil, domain.ValidationErrors{{
			Field:   input.Field,
			Message: "flat amounts mirror the VAT breakdown; edit the breakdown lines instead",
		}}
	}

	f := tax.Figures{
		Base:      draft.Doc.BaseAmount,
		Rate:      draft.Doc.VatRate,
		VatAmount: draft.Doc.VatAmount,
		Total:     draft.Doc.TotalAmount,
	}
	switch input.Field {
	case domain.FieldBaseAmount:
		f.Base = input.Value
	case domain.FieldVatRate:
		f.Rate = input.Value
	case domain.FieldVatAmount:
		f.VatAmount = input.Value
	case domain.FieldTotalAmount:
		f.Total = input.Value
	default:
		return nil, domain.ValidationErrors{{Field: input.Field, Message: "not an editable money field"}}
	}
	f = tax.ApplyEdit(f, input.Field)

	draft.Doc.BaseAmount = f.Base
	draft.Doc.VatRate = f.Rate
	draft.Doc.VatAmount = f.VatAmount
	draft.Doc.TotalAmount = f.Total

	draft.MarkUser(input.Field)
	draft.UpdatedAt = time.Now().UTC()
	return draft, nil
}

// UpdateBreakdown replaces the draft breakdown with user-entered lines and
// recomputes the flat mirrors. The breakdown becomes user-owned; the mirrors
// are derived values and stay auto.
func (s *draftService) UpdateBreakdown(ctx context.Context, companyID, id uuid.UUID, lines domain.VatLines) (*domain.Draft, error) {
	draft, err := s.store.Get(companyID, id)
	if err != nil {
		return nil, err
	}

	normalized, err := breakdownFromInput(lines)
	if err != nil {
		return nil, err
	}
	draft.Doc.VatBreakdown = normalized
	if len(normalized) > 0 {
		base, vat, total := tax.Aggregate(normalized)
		draft.Doc.BaseAmount = base
		draft.Doc.VatAmount = vat
		draft.Doc.TotalAmount = total
		draft.Doc.VatRate = tax.PrimaryRate(normalized, draft.Doc.VatRate)
		for _, f := range []string{
			domain.FieldBaseAmount, domain.FieldVatRate,
			domain.FieldVatAmount, domain.FieldTotalAmount,
		} {
			draft.MarkAuto(f)
		}
	}

	draft.MarkUser(domain.FieldVatBreakdown)
	draft.UpdatedAt = time.Now().UTC()
	return draft, nil
}

// Submit validates the draft and persists it as a document. The draft is
// destroyed on success.
func (s *draftService) Submit(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error) {
	draft, err := s.store.Get(companyID, id)
	if err != nil {
		return nil, err
	}

	doc := draft.Doc
	doc.CompanyID = companyID
	if errs := reconcile.ValidateForSubmit(&doc, s.companyNames(ctx, companyID)); len(errs) > 0 {
		return nil, errs
	}

	if err := s.docRepo.Create(ctx, &doc); err != nil {
		return nil, fmt.Errorf("draft.Submit: %w", err)
	}
	s.store.Delete(companyID, id)
	return &doc, nil
}

// Discard drops the draft and best-effort deletes its stored file.
func (s *draftService) Discard(ctx context.Context, companyID, id uuid.UUID) error {
	draft, err := s.store.Get(companyID, id)
	if err != nil {
		return err
	}
	if draft.Doc.StoredFilename != "" {
		if err := s.storage.Delete(ctx, s.cfg.Bucket, draft.Doc.StoredFilename); err != nil {
			log.Printf("draft: file delete failed for draft %s: %v", id, err)
		}
	}
	s.store.Delete(companyID, id)
	return nil
}

// FileURL returns a presigned link to the uploaded file backing the draft.
func (s *draftService) FileURL(ctx context.Context, companyID, id uuid.UUID) (string, error) {
	draft, err := s.store.Get(companyID, id)
	if err != nil {
		return "", err
	}
	if draft.Doc.StoredFilename == "" {
		return "", domain.ErrNotFound
	}
	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, draft.Doc.StoredFilename, s.cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("draft.FileURL: %w", err)
	}
	return url, nil
}
