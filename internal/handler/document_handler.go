package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contia/internal/csvexport"
	"contia/internal/domain"
	"contia/internal/service"
)

// DocumentHandler handles the persisted-document endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Create handles POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req service.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind, issue_date and counterparty are required")
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// List handles GET /api/v1/documents?kind=expense&month=3&year=2024
func (h *DocumentHandler) List(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	kind, month, year, ok := parseListQuery(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListByMonth(c.Request.Context(), companyID, kind, month, year)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, docs)
}

// Update handles PUT /api/v1/documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind, issue_date and counterparty are required")
		return
	}

	doc, err := h.documentService.Update(c.Request.Context(), companyID, id, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// EditAmount handles PATCH /api/v1/documents/:id/amounts
func (h *DocumentHandler) EditAmount(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.FieldEditInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "field and value are required")
		return
	}

	doc, err := h.documentService.EditMoneyField(c.Request.Context(), companyID, id, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// UpdateBreakdown handles PUT /api/v1/documents/:id/breakdown
func (h *DocumentHandler) UpdateBreakdown(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Lines domain.VatLines `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "lines must be a list of breakdown lines")
		return
	}

	doc, err := h.documentService.UpdateBreakdown(c.Request.Context(), companyID, id, req.Lines)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), companyID, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// Years handles GET /api/v1/documents/years
func (h *DocumentHandler) Years(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	years, err := h.documentService.AvailableYears(c.Request.Context(), companyID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, years)
}

// ExportCSV handles GET /api/v1/documents/export?kind=expense&month=3&year=2024
// and streams the month's documents as a CSV attachment.
func (h *DocumentHandler) ExportCSV(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	kind, month, year, ok := parseListQuery(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListByMonth(c.Request.Context(), companyID, kind, month, year)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(string(kind), month, year)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteDocuments(docs); err != nil {
		return
	}
	w.Flush()
}

// parseListQuery reads kind, month and year query parameters, defaulting to
// the current month.
func parseListQuery(c *gin.Context) (domain.DocumentKind, int, int, bool) {
	kind := domain.DocumentKind(c.DefaultQuery("kind", string(domain.KindExpense)))
	if !domain.ValidDocumentKinds[kind] {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind must be expense or income")
		return "", 0, 0, false
	}

	now := time.Now()
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "month must be between 1 and 12")
		return "", 0, 0, false
	}
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2100 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "year out of range")
		return "", 0, 0, false
	}

	return kind, month, year, true
}
