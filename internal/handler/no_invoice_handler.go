package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contia/internal/service"
)

// NoInvoiceHandler handles endpoints for expenses with no backing document.
type NoInvoiceHandler struct {
	expenseService service.NoInvoiceExpenseService
}

// NewNoInvoiceHandler creates a new NoInvoiceHandler.
func NewNoInvoiceHandler(expenseService service.NoInvoiceExpenseService) *NoInvoiceHandler {
	return &NoInvoiceHandler{expenseService: expenseService}
}

// Create handles POST /api/v1/no-invoice-expenses
func (h *NoInvoiceHandler) Create(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req service.NoInvoiceExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "expense_date, concept and expense_type are required")
		return
	}

	e, err := h.expenseService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, e)
}

// Update handles PUT /api/v1/no-invoice-expenses/:id
func (h *NoInvoiceHandler) Update(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.NoInvoiceExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "expense_date, concept and expense_type are required")
		return
	}

	e, err := h.expenseService.Update(c.Request.Context(), companyID, id, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, e)
}

// Delete handles DELETE /api/v1/no-invoice-expenses/:id
func (h *NoInvoiceHandler) Delete(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), companyID, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// List handles GET /api/v1/no-invoice-expenses?month=3&year=2024
func (h *NoInvoiceHandler) List(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	month, year, _, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	expenses, err := h.expenseService.ListByMonth(c.Request.Context(), companyID, month, year)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, expenses)
}
