package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contia/internal/service"
)

// CalendarHandler handles the payment calendar endpoints.
type CalendarHandler struct {
	calendarService service.CalendarService
	reminderService service.ReminderService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService, reminderService service.ReminderService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, reminderService: reminderService}
}

// Month handles GET /api/v1/calendar?month=3&year=2024
func (h *CalendarHandler) Month(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	month, year, _, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	cal, err := h.calendarService.Month(c.Request.Context(), companyID, month, year)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, cal)
}

// UpdateDueDate handles PUT /api/v1/calendar/documents/:id/due-date
func (h *CalendarHandler) UpdateDueDate(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		DueDate string `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "due_date must be YYYY-MM-DD or empty")
		return
	}

	doc, err := h.calendarService.UpdateDueDate(c.Request.Context(), companyID, id, req.DueDate)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// SendReminder handles POST /api/v1/calendar/reminders and emails the
// authenticated user a digest of upcoming payments.
func (h *CalendarHandler) SendReminder(c *gin.Context) {
	companyID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	email := c.GetString("email")
	count, err := h.reminderService.SendDigest(c.Request.Context(), companyID, email, email)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"items": count, "sent": count > 0})
}
