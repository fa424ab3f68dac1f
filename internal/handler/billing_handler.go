package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contia/internal/service"
)

// BillingHandler handles manual billing declaration endpoints.
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Create handles POST /api/v1/billing
func (h *BillingHandler) Create(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req service.BillingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "mes and anio are required")
		return
	}

	entry, err := h.billingService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, entry)
}

// Update handles PUT /api/v1/billing/:id
func (h *BillingHandler) Update(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.BillingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "mes and anio are required")
		return
	}

	entry, err := h.billingService.Update(c.Request.Context(), companyID, id, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entry)
}

// Delete handles DELETE /api/v1/billing/:id
func (h *BillingHandler) Delete(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.billingService.Delete(c.Request.Context(), companyID, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// List handles GET /api/v1/billing?month=3&year=2024
func (h *BillingHandler) List(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	month, year, _, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	entries, err := h.billingService.ListByMonth(c.Request.Context(), companyID, month, year)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entries)
}
