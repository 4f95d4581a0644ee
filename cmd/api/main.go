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
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/handlers"
	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/repositories"
	"alfredoptarigan/job-matcher/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	zlog, err := logger.New(cfg.Server.LogJSON, cfg.Server.LogDebug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	runRepo := repositories.NewMatchRunRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI, with an LRU cache in front of the embedding calls
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		zlog,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	geminiService = services.WrapEmbeddingCache(
		geminiService,
		cfg.Cache.EmbedCacheSize,
		cfg.Cache.EmbedCacheTTL,
		zlog,
	)
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize the ranking pipeline
	ranker := services.NewSimilarityRanker(geminiService, zlog)
	rescorer := services.NewLLMRescorer(
		geminiService,
		cfg.Matcher.Temperature,
		cfg.Worker.RetryMaxAttempts,
		cfg.Matcher.RescoreConcurrency,
		zlog,
	)
	matcherService := services.NewMatcherService(ranker, rescorer, cfg.Matcher, zlog)
	log.Println("✅ Matcher pipeline initialized")

	// Initialize resume parsing
	resumeParser := services.NewResumeParserService(
		pdfParser,
		geminiService,
		cfg.Worker.RetryMaxAttempts,
		zlog,
	)

	// Initialize Adzuna job fetcher
	jobFetcher, err := services.NewJobFetcherService(
		cfg.Adzuna,
		cfg.Cache.JobCacheSize,
		cfg.Cache.JobCacheTTL,
		zlog,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize job fetcher: %v", err)
	}
	log.Println("✅ Job fetcher initialized successfully")

	// Initialize Qdrant job index
	jobIndex, err := services.NewJobIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
		zlog,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := jobIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize match run executor
	runService := services.NewMatchRunService(
		runRepo,
		docRepo,
		resumeParser,
		jobFetcher,
		matcherService,
		jobIndex,
		zlog,
	)
	log.Println("✅ Match run service initialized")

	// Initialize worker
	worker := services.NewWorker(
		runRepo,
		runService,
		cfg.Worker.Concurrency,
		zlog,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(
		docRepo,
		storageService,
		cfg.Storage.MaxFileSize,
	)
	matchHandler := handlers.NewMatchHandler(
		runRepo,
		docRepo,
		worker,
	)
	resultHandler := handlers.NewResultHandler(runRepo)
	jobsHandler := handlers.NewJobsHandler(jobIndex)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Job Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
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
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/match", matchHandler.HandleMatch)
	api.Get("/result/:id", resultHandler.HandleGetResult)
	api.Get("/jobs/similar", jobsHandler.HandleSimilarJobs)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Job Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/match",
				"GET /api/v1/result/:id",
				"GET /api/v1/jobs/similar",
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
