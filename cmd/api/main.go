package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"camdencare/reference-checker/internal/config"
	"camdencare/reference-checker/internal/handlers"
	"camdencare/reference-checker/internal/repositories"
	"camdencare/reference-checker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	appRepo := repositories.NewApplicationRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	requestRepo := repositories.NewReferenceRequestRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	resumeParser := services.NewResumeParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	llmService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	vectorStore, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := vectorStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Workflow core
	lifecycle := services.NewLifecycleService(appRepo, eventRepo)
	catalog := services.NewQuestionCatalogService(questionRepo)
	review := services.NewReviewService(lifecycle)
	extractor := services.NewLLMCandidateExtractor(llmService, cfg.Worker.RetryMaxAttempts)
	indexer := services.NewResumeIndexService(llmService, services.NewTextChunker(), vectorStore)
	processor := services.NewResumeProcessorService(
		appRepo,
		lifecycle,
		storageService,
		resumeParser,
		extractor,
		indexer,
	)

	mailer := services.NewSMTPMailer(cfg.SMTP)
	if !mailer.Enabled() {
		log.Println("⚠️  Email credentials not configured. Dispatch will fail until EMAIL_USER/EMAIL_PASSWORD are set.")
	}

	dispatcher := services.NewDispatchService(appRepo, requestRepo, lifecycle, catalog, mailer)
	log.Println("✅ Workflow services initialized")

	// Initialize worker
	worker := services.NewWorker(
		appRepo,
		requestRepo,
		lifecycle,
		processor,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
		cfg.Worker.ProcessingTimeout,
		cfg.Worker.OverdueAfter,
	)

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(appRepo, eventRepo, storageService, worker, cfg.Storage.MaxFileSize)
	processHandler := handlers.NewProcessHandler(appRepo, processor)
	applicationHandler := handlers.NewApplicationHandler(appRepo, requestRepo, eventRepo, dispatcher)
	questionHandler := handlers.NewQuestionHandler(catalog, review)
	dispatchHandler := handlers.NewDispatchHandler(dispatcher)
	searchHandler := handlers.NewSearchHandler(indexer)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Reference Checking System API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/applications", uploadHandler.HandleUpload)
	api.Get("/applications", applicationHandler.HandleList)
	api.Get("/applications/:id", applicationHandler.HandleGet)
	api.Get("/applications/:id/events", applicationHandler.HandleListEvents)
	api.Get("/applications/:id/reference-requests", applicationHandler.HandleListRequests)
	api.Post("/applications/:id/questions", questionHandler.HandleFinalizeQuestions)
	api.Post("/applications/:id/send-reference-requests", dispatchHandler.HandleDispatch)
	api.Post("/process-resume", processHandler.HandleProcessResume)
	api.Get("/questions", questionHandler.HandleGetQuestions)
	api.Post("/reference-requests/:id/complete", applicationHandler.HandleCompleteRequest)
	api.Get("/resumes/search", searchHandler.HandleSearch)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Reference Checking System API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/applications",
				"POST /api/v1/process-resume",
				"GET /api/v1/questions",
				"POST /api/v1/applications/:id/questions",
				"POST /api/v1/applications/:id/send-reference-requests",
				"POST /api/v1/reference-requests/:id/complete",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
