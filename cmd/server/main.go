package main

import (
	"fmt"
	"log"

	"contia/internal/config"
	"contia/internal/email/noop"
	"contia/internal/email/ses"
	"contia/internal/extractor"
	"contia/internal/handler"
	"contia/internal/port"
	"contia/internal/reconcile"
	"contia/internal/repository/postgres"
	"contia/internal/router"
	"contia/internal/service"
	s3storage "contia/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	companyRepo := postgres.NewCompanyRepo(db)
	userRepo := postgres.NewUserRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	extraRepo := postgres.NewNoInvoiceExpenseRepo(db)
	billingRepo := postgres.NewBillingRepo(db)
	overrideRepo := postgres.NewPnlOverrideRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email
	var sender port.EmailSender
	if cfg.Email.Provider == "ses" {
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		sender = noop.NewNoopSender()
	}

	// Initialize document extractor
	docExtractor := extractor.New(extractor.Config{
		APIKey:    cfg.Extractor.APIKey,
		BaseURL:   cfg.Extractor.BaseURL,
		Model:     cfg.Extractor.Model,
		MaxTokens: cfg.Extractor.MaxTokens,
	})

	// Initialize services
	draftStore := reconcile.NewDraftStore()
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	documentSvc := service.NewDocumentService(docRepo, companyRepo)
	draftSvc := service.NewDraftService(draftStore, docRepo, companyRepo, s3Client, docExtractor, cfg.S3)
	summarySvc := service.NewSummaryService(docRepo, billingRepo, extraRepo, service.NewFilterGate())
	billingSvc := service.NewBillingService(billingRepo)
	noInvoiceSvc := service.NewNoInvoiceExpenseService(extraRepo)
	calendarSvc := service.NewCalendarService(docRepo, extraRepo)
	reminderSvc := service.NewReminderService(calendarSvc, sender, cfg.Reminder)
	reportSvc := service.NewReportService(companyRepo, overrideRepo, summarySvc)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc, userRepo, companyRepo)
	draftH := handler.NewDraftHandler(draftSvc)
	documentH := handler.NewDocumentHandler(documentSvc)
	summaryH := handler.NewSummaryHandler(summarySvc)
	billingH := handler.NewBillingHandler(billingSvc)
	noInvoiceH := handler.NewNoInvoiceHandler(noInvoiceSvc)
	calendarH := handler.NewCalendarHandler(calendarSvc, reminderSvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins,
		authH, draftH, documentH, summaryH, billingH, noInvoiceH, calendarH, reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
