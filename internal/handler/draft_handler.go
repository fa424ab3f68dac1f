package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contia/internal/domain"
	"contia/internal/service"
)

// DraftHandler handles the draft lifecycle endpoints.
type DraftHandler struct {
	draftService service.DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// Upload handles POST /api/v1/drafts/upload. Multipart form fields: file
// (required), kind (expense or income), text (extracted document text fed to
// the analyzer).
func (h *DraftHandler) Upload(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	kind := domain.DocumentKind(c.PostForm("kind"))
	if kind == "" {
		kind = domain.KindExpense
	}

	draft, err := h.draftService.CreateFromUpload(c.Request.Context(), companyID, service.DraftUploadInput{
		Kind:        kind,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		Text:        c.PostForm("text"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, draft)
}

// Create handles POST /api/v1/drafts (manual entry, no file).
func (h *DraftHandler) Create(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Kind domain.DocumentKind `json:"kind" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind is required")
		return
	}

	draft, err := h.draftService.CreateManual(c.Request.Context(), companyID, req.Kind)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, draft)
}

// List handles GET /api/v1/drafts
func (h *DraftHandler) List(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	drafts, err := h.draftService.List(c.Request.Context(), companyID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, drafts)
}

// GetByID handles GET /api/v1/drafts/:id
func (h *DraftHandler) GetByID(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	draft, err := h.draftService.Get(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, draft)
}

// EditField handles PATCH /api/v1/drafts/:id/fields
func (h *DraftHandler) EditField(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.DraftTextEditInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "field is required")
		return
	}

	draft, err := h.draftService.EditTextField(c.Request.Context(), companyID, id, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, draft)
}

// EditAmount handles PATCH /api/v1/drafts/:id/amounts
func (h *DraftHandler) EditAmount(c *gin.Context) {
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

	draft, err := h.draftService.EditMoneyField(c.Request.Context(), companyID, id, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, draft)
}

// UpdateBreakdown handles PUT /api/v1/drafts/:id/breakdown
func (h *DraftHandler) UpdateBreakdown(c *gin.Context) {
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

	draft, err := h.draftService.UpdateBreakdown(c.Request.Context(), companyID, id, req.Lines)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, draft)
}

// Submit handles POST /api/v1/drafts/:id/submit
func (h *DraftHandler) Submit(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.draftService.Submit(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// Discard handles DELETE /api/v1/drafts/:id
func (h *DraftHandler) Discard(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.draftService.Discard(c.Request.Context(), companyID, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// FileURL handles GET /api/v1/drafts/:id/file-url
func (h *DraftHandler) FileURL(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.draftService.FileURL(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}
