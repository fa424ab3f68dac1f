package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contia/internal/service"
	"contia/internal/xlsxexport"
)

// ReportHandler handles the profit-and-loss endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Statement handles GET /api/v1/reports/pnl?year=2024
func (h *ReportHandler) Statement(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	year, ok := parseYearQuery(c)
	if !ok {
		return
	}

	st, err := h.reportService.Statement(c.Request.Context(), companyID, year)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, st)
}

// SetOverride handles PUT /api/v1/reports/pnl/overrides?year=2024
func (h *ReportHandler) SetOverride(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	year, ok := parseYearQuery(c)
	if !ok {
		return
	}

	var req service.OverrideInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "line_key and value are required")
		return
	}

	st, err := h.reportService.SetOverride(c.Request.Context(), companyID, year, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, st)
}

// ClearOverride handles DELETE /api/v1/reports/pnl/overrides/:key?year=2024
func (h *ReportHandler) ClearOverride(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	year, ok := parseYearQuery(c)
	if !ok {
		return
	}

	st, err := h.reportService.ClearOverride(c.Request.Context(), companyID, year, c.Param("key"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, st)
}

// ExportXLSX handles GET /api/v1/reports/pnl/export?year=2024 and streams the
// statement as an Excel workbook.
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	year, ok := parseYearQuery(c)
	if !ok {
		return
	}

	st, err := h.reportService.Statement(c.Request.Context(), companyID, year)
	if err != nil {
		HandleError(c, err)
		return
	}

	f, err := xlsxexport.StatementWorkbook(st)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="cuenta_resultados_%d.xlsx"`, year))
	_ = f.Write(c.Writer)
}

func parseYearQuery(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 || year > 2100 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "year out of range")
		return 0, false
	}
	return year, true
}
