package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/config"
	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/engine"
	"github.com/dafibh/fortuna/fortuna-coach/internal/handler"
	"github.com/dafibh/fortuna/fortuna-coach/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-coach/internal/repository/cache"
	"github.com/dafibh/fortuna/fortuna-coach/internal/repository/marketfeed"
	"github.com/dafibh/fortuna/fortuna-coach/internal/repository/postgres"
	"github.com/dafibh/fortuna/fortuna-coach/internal/repository/storage"
	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
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

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	snapshotRepo := postgres.NewSnapshotRepository(pool)
	if err := snapshotRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare snapshot schema")
	}

	var rateCache domain.RateCache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisRateCache(cfg.RedisAddr, cfg.RedisPassword)
		defer redisCache.Close()
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		rateCache = redisCache
		log.Info().Str("addr", cfg.RedisAddr).Msg("Market rates cached in redis")
	} else {
		rateCache = cache.NewMemoryRateCache()
		log.Info().Msg("Redis not configured, market rates cached in memory")
	}

	var rateProvider domain.RateProvider
	if cfg.MarketRatesURL != "" {
		feed, err := marketfeed.NewHTTPProvider(cfg.MarketRatesURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create market rate feed")
		}
		rateProvider = feed
	} else {
		log.Warn().Msg("MARKET_RATES_URL not set, advice uses default rates")
	}

	var reportStorage domain.ReportStorage
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3ReportRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create report storage")
		}
		reportStorage = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Report archiving enabled")
	}

	classifier := engine.DefaultClassifier()
	if cfg.ClassifierFile != "" {
		classifier, err = engine.LoadClassifier(cfg.ClassifierFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.ClassifierFile).Msg("Failed to load expense classifier")
		}
	}

	// Real-time event hub
	hub := websocket.NewHub()

	// Initialize services
	rateService := service.NewMarketRateService(rateCache, rateProvider, cfg.MarketRatesRefresh)
	coachService := service.NewCoachService(classifier, snapshotRepo, rateService, service.NewAdviceService())
	coachService.SetEventPublisher(hub)
	reportService := service.NewReportService(reportStorage, service.DefaultReportURLLife)
	reportService.SetEventPublisher(hub)

	// Background market rate refresh
	var rateWorker *service.MarketRateWorker
	if rateProvider != nil {
		rateWorker = service.NewMarketRateWorker(rateService, hub, log.Logger, service.MarketRateWorkerConfig{
			Interval: cfg.MarketRatesRefresh,
		})
		rateWorker.Start(context.Background())
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.HouseholdHeader},
		ExposeHeaders: []string{
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", echo.HeaderContentDisposition,
		},
		MaxAge: 86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, handler.Handlers{
		Allocation: handler.NewAllocationHandler(coachService),
		Debt:       handler.NewDebtHandler(coachService),
		Plan:       handler.NewPlanHandler(coachService),
		MarketRate: handler.NewMarketRateHandler(rateService),
		Report:     handler.NewReportHandler(coachService, reportService),
		WebSocket:  handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}, rateLimiter)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if rateWorker != nil {
		rateWorker.Stop()
	}
	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
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
				Str("household_id", req.Header.Get(middleware.HouseholdHeader)).
				Msg("request")

			return nil
		}
	}
}
