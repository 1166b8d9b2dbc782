package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/config"
	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/handler"
	"github.com/adifathi/planner/planner-backend/internal/middleware"
	"github.com/adifathi/planner/planner-backend/internal/repository/memory"
	"github.com/adifathi/planner/planner-backend/internal/repository/postgres"
	"github.com/adifathi/planner/planner-backend/internal/repository/records"
	"github.com/adifathi/planner/planner-backend/internal/repository/sqlite"
	"github.com/adifathi/planner/planner-backend/internal/repository/storage"
	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load time zone")
	}

	profile, err := config.LoadReportProfile(cfg.ReportProfilePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ReportProfilePath).Msg("Failed to load report profile")
	}

	// Open the key-value backend behind the record store
	kv, closeStore := openKeyValueStore(cfg)
	defer closeStore()
	store := records.NewStore(kv)

	// Attachment storage is optional
	var attachmentRepo storage.AttachmentRepository
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3AttachmentRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 attachment storage")
		}
		attachmentRepo = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Attachment storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, attachments record file names only")
	}

	// Initialize services
	taskService := service.NewTaskService(store)
	budgetService := service.NewBudgetService(store)
	expenseService := service.NewExpenseService(store)
	attachmentService := service.NewAttachmentService(store, attachmentRepo)
	dashboardService := service.NewDashboardService(store)
	exportService := service.NewExportService(dashboardService, profile, loc)
	pruneService := service.NewPruneService(store)

	// Orphan pruning on a schedule
	var pruneWorker *service.PruneWorker
	if cfg.PruneSchedule != "" {
		pruneWorker, err = service.NewPruneWorker(pruneService, log.Logger, cfg.PruneSchedule, loc)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create prune worker")
		}
	}

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(taskService)
	budgetHandler := handler.NewBudgetHandler(budgetService, attachmentService)
	expenseHandler := handler.NewExpenseHandler(expenseService, attachmentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, exportService)

	exportLimiter := middleware.NewRateLimiterWithConfig(cfg.ExportRateLimit, middleware.DefaultBurstSize)
	defer exportLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Uploads are capped by the attachment limit plus multipart overhead
	e.Use(echomiddleware.BodyLimit("12M"))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "store": cfg.StoreDriver})
	})

	// Register API routes
	handler.RegisterRoutes(e, taskHandler, budgetHandler, expenseHandler, dashboardHandler, middleware.RateLimitMiddleware(exportLimiter))

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if pruneWorker != nil {
		if err := pruneWorker.Start(workerCtx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start prune worker")
		}
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if pruneWorker != nil {
		pruneWorker.Stop()
	}
	cancelWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openKeyValueStore opens the configured backend and returns it with its close function
func openKeyValueStore(cfg *config.Config) (domain.KeyValueStore, func()) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		if err := pool.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping database")
		}
		repo := postgres.NewKeyValueRepository(pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare database schema")
		}
		log.Info().Msg("Connected to database")
		return repo, pool.Close

	case config.StoreSQLite:
		kv, err := sqlite.NewKeyValueStore(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("Failed to open sqlite store")
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Opened sqlite store")
		return kv, func() {
			if err := kv.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close sqlite store")
			}
		}

	default:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.NewKeyValueStore(), func() {}
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
