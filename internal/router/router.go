package router

import (
	"github.com/gin-gonic/gin"

	"contia/internal/handler"
	"contia/internal/middleware"
	"contia/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	draftH *handler.DraftHandler,
	documentH *handler.DocumentHandler,
	summaryH *handler.SummaryHandler,
	billingH *handler.BillingHandler,
	noInvoiceH *handler.NoInvoiceHandler,
	calendarH *handler.CalendarHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.GET("/auth/me", authH.Me)

	// Draft lifecycle
	drafts := protected.Group("/drafts")
	drafts.POST("/upload", draftH.Upload)
	drafts.POST("", draftH.Create)
	drafts.GET("", draftH.List)
	drafts.GET("/:id", draftH.GetByID)
	drafts.PATCH("/:id/fields", draftH.EditField)
	drafts.PATCH("/:id/amounts", draftH.EditAmount)
	drafts.PUT("/:id/breakdown", draftH.UpdateBreakdown)
	drafts.POST("/:id/submit", draftH.Submit)
	drafts.DELETE("/:id", draftH.Discard)
	drafts.GET("/:id/file-url", draftH.FileURL)

	// Persisted documents
	documents := protected.Group("/documents")
	documents.POST("", documentH.Create)
	documents.GET("", documentH.List)
	documents.GET("/years", documentH.Years)
	documents.GET("/export", documentH.ExportCSV)
	documents.GET("/:id", documentH.GetByID)
	documents.PUT("/:id", documentH.Update)
	documents.PATCH("/:id/amounts", documentH.EditAmount)
	documents.PUT("/:id/breakdown", documentH.UpdateBreakdown)
	documents.DELETE("/:id", documentH.Delete)

	// Dashboard summaries
	protected.GET("/summary", summaryH.Summary)
	protected.GET("/summary/export", summaryH.ExportXLSX)

	// Manual billing
	billing := protected.Group("/billing")
	billing.POST("", billingH.Create)
	billing.GET("", billingH.List)
	billing.GET("/summary", summaryH.BillingSummary)
	billing.PUT("/:id", billingH.Update)
	billing.DELETE("/:id", billingH.Delete)

	// Expenses with no backing document
	noInvoice := protected.Group("/no-invoice-expenses")
	noInvoice.POST("", noInvoiceH.Create)
	noInvoice.GET("", noInvoiceH.List)
	noInvoice.PUT("/:id", noInvoiceH.Update)
	noInvoice.DELETE("/:id", noInvoiceH.Delete)

	// Payment calendar
	calendar := protected.Group("/calendar")
	calendar.GET("", calendarH.Month)
	calendar.PUT("/documents/:id/due-date", calendarH.UpdateDueDate)
	calendar.POST("/reminders", calendarH.SendReminder)

	// Profit and loss
	reports := protected.Group("/reports")
	reports.GET("/pnl", reportH.Statement)
	reports.GET("/pnl/export", reportH.ExportXLSX)
	reports.PUT("/pnl/overrides", reportH.SetOverride)
	reports.DELETE("/pnl/overrides/:key", reportH.ClearOverride)

	return r
}
