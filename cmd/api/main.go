package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/rondagdag/audience-survey/docs"
	pkgvalidator "github.com/rondagdag/audience-survey/pkg/validator"

	"github.com/rondagdag/audience-survey/internal/adapter/handler"
	"github.com/rondagdag/audience-survey/internal/adapter/repository"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
	"github.com/rondagdag/audience-survey/internal/infrastructure/cache"
	httpmw "github.com/rondagdag/audience-survey/internal/infrastructure/http/middleware"
	"github.com/rondagdag/audience-survey/internal/infrastructure/realtime"
	"github.com/rondagdag/audience-survey/internal/infrastructure/storage"
	"github.com/rondagdag/audience-survey/internal/usecase/auth"
	"github.com/rondagdag/audience-survey/internal/usecase/keywords"
	"github.com/rondagdag/audience-survey/internal/usecase/session"
	"github.com/rondagdag/audience-survey/internal/usecase/submission"
	"github.com/rondagdag/audience-survey/internal/usecase/survey"
	pkgai "github.com/rondagdag/audience-survey/pkg/ai"
	"github.com/rondagdag/audience-survey/pkg/config"
	"github.com/rondagdag/audience-survey/pkg/jwt"
)

// @title           Audience Survey API
// @version         1.0
// @description     Collects photographed paper surveys during live presentations and aggregates them per session

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, httpmw.AdminSecretHeader},
		AllowCredentials: true,
	}))

	// Background work stops with this context
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Object storage for survey photos
	var (
		images  repo.ImageStore
		objects repository.JSONObjectStore
	)
	if cfg.Storage.Enabled {
		log.Println("🪣 Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		images = minioClient
		objects = minioClient
	} else {
		log.Println("⚠️  Object storage disabled; survey photos are not kept")
	}

	// Snapshot persistence
	log.Printf("📦 Opening %s snapshot store...", cfg.Persistence.Backend)
	snapshots, closeSnapshots, err := repository.OpenSnapshotRepository(cfg, objects, logger)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer closeSnapshots()

	// Live dashboard fan-out
	log.Println("📡 Initializing live hub...")
	hub := realtime.NewHub(logger, cfg.Server.AllowedOrigins)
	go hub.Run(appCtx)

	var events repo.EventPublisher = hub
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		redisPublisher := realtime.NewRedisPublisher(redisClient, cfg.Redis.Channel, logger)
		if err := redisPublisher.Forward(appCtx, hub); err != nil {
			log.Fatalf("Failed to subscribe to %s: %v", cfg.Redis.Channel, err)
		}
		events = redisPublisher
	}

	// Aggregation store
	log.Println("🧮 Initializing survey store...")
	extractor, err := keywords.NewExtractor(&cfg.Keywords)
	if err != nil {
		log.Fatalf("Failed to initialize keyword extractor: %v", err)
	}
	store := survey.NewStore(extractor)

	sessionService := session.NewSessionService(store, snapshots, images, events, !cfg.IsProduction(), logger)
	if err := sessionService.Load(appCtx); err != nil {
		log.Fatalf("Failed to restore sessions: %v", err)
	}

	// Survey extraction
	log.Println("🤖 Initializing survey extraction...")
	analyzer := pkgai.NewContentUnderstandingClient(&cfg.Extraction, logger)
	if !analyzer.Configured() {
		log.Println("⚠️  AZURE_CONTENT_ENDPOINT / AZURE_CONTENT_KEY not set; submissions will be rejected")
	}
	submissionService := submission.NewSubmissionService(
		store,
		survey.NewMapper(cfg.Extraction.MinConfidence),
		analyzer,
		images,
		snapshots,
		events,
		logger,
	)

	// Admin authentication
	log.Println("🔑 Initializing admin auth...")
	if cfg.Admin.Secret == "" {
		log.Println("⚠️  ADMIN_SECRET not set; admin routes are locked")
	}
	jwtManager := jwt.NewManager(cfg.Admin.JWTSecret, cfg.Admin.TokenExpiry)
	adminService := auth.NewAdminService(cfg.Admin.Secret, jwtManager, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewAuth(adminService, logger),
		handler.NewSessionHandler(sessionService, hub, logger),
		handler.NewSurveyHandler(submissionService, logger),
		httpmw.EchoAdmin(adminService, logger),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stopApp()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
