package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contia/internal/domain"
	"contia/internal/service"
	"contia/internal/xlsxexport"
)

// SummaryHandler handles the dashboard summary endpoints.
type SummaryHandler struct {
	summaryService service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// Summary handles GET /api/v1/summary?kind=expense&period=quarter&month=4&year=2024
func (h *SummaryHandler) Summary(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter, ok := parseSummaryQuery(c)
	if !ok {
		return
	}

	summary, err := h.summaryService.Summary(c.Request.Context(), companyID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summaryPayload(summary, filter.Kind))
}

// BillingSummary handles GET /api/v1/billing/summary?period=quarter&month=4&year=2024
func (h *SummaryHandler) BillingSummary(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	month, year, periodType, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	summary, err := h.summaryService.BillingSummary(c.Request.Context(), companyID, month, year, periodType)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summaryPayload(summary, domain.KindIncome))
}

// summaryPayload renames the total keys per document kind: the expense
// dashboard reads totalSpent and vatTotalDeductible, the income side
// totalBilled and totalVat.
func summaryPayload(s *domain.PeriodSummary, kind domain.DocumentKind) gin.H {
	payload := gin.H{
		"months":        s.Months,
		"year":          s.Year,
		"baseTotals":    s.BaseTotals,
		"vatTotals":     s.VatTotals,
		"monthlyTotals": s.MonthlyTotals,
	}
	if s.SupplierTotals != nil {
		payload["supplierTotals"] = s.SupplierTotals
	}
	if len(s.Days) > 0 {
		payload["days"] = s.Days
		payload["cumulative"] = s.Cumulative
	}
	if kind == domain.KindIncome {
		payload["totalBilled"] = s.Total
		payload["totalVat"] = s.TotalVat
	} else {
		payload["totalSpent"] = s.Total
		payload["vatTotalDeductible"] = s.TotalVat
	}
	return payload
}

// ExportXLSX handles GET /api/v1/summary/export and streams the period
// summary as an Excel workbook.
func (h *SummaryHandler) ExportXLSX(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter, ok := parseSummaryQuery(c)
	if !ok {
		return
	}

	summary, err := h.summaryService.Summary(c.Request.Context(), companyID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	title := fmt.Sprintf("Resumen IVA %s %d/%d", filter.Kind, filter.Month, filter.Year)
	f, err := xlsxexport.SummaryWorkbook(summary, title)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="resumen_%s_%04d-%02d.xlsx"`,
		filter.Kind, filter.Year, filter.Month))
	_ = f.Write(c.Writer)
}

func parseSummaryQuery(c *gin.Context) (service.SummaryFilter, bool) {
	month, year, periodType, ok := parsePeriodQuery(c)
	if !ok {
		return service.SummaryFilter{}, false
	}

	kind := domain.DocumentKind(c.DefaultQuery("kind", string(domain.KindExpense)))
	if !domain.ValidDocumentKinds[kind] {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind must be expense or income")
		return service.SummaryFilter{}, false
	}

	return service.SummaryFilter{
		Kind:   kind,
		Period: periodType,
		Month:  month,
		Year:   year,
	}, true
}

func parsePeriodQuery(c *gin.Context) (month, year int, periodType domain.PeriodType, ok bool) {
	now := time.Now()
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "month must be between 1 and 12")
		return 0, 0, "", false
	}
	year, err = strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2100 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "year out of range")
		return 0, 0, "", false
	}

	periodType = domain.PeriodType(c.DefaultQuery("period", string(domain.PeriodMonth)))
	if periodType != domain.PeriodMonth && periodType != domain.PeriodQuarter {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "period must be month or quarter")
		return 0, 0, "", false
	}

	return month, year, periodType, true
}
