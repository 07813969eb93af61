package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boardsync/internal/core/services"
	httphandlers "boardsync/internal/handlers/http"
	"boardsync/internal/infrastructure/middleware"
	"boardsync/internal/infrastructure/monitoring"
	"boardsync/internal/infrastructure/realtime"
	"boardsync/internal/infrastructure/reliability"
	repositories "boardsync/internal/infrastructure/repositories"
	"boardsync/pkg/circuitbreaker"
	"boardsync/pkg/config"
	"boardsync/pkg/logger"
	"boardsync/pkg/retry"
	"boardsync/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/boardsync/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		// Fallback to defaults if config cannot be loaded
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	// Initialize tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "boardsync",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Initialize repository factory
	repoFactory, err := repositories.NewRepositoryFactory(rootCtx, cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	// Initialize repositories
	boardRepo := repoFactory.CreateBoardRepository()
	if repoFactory.UsingRemoteStore() {
		boardRepo = reliability.NewBoardRepositoryWrapper(
			boardRepo,
			retry.DefaultConfig(),
			circuitbreaker.DefaultConfig(),
			log,
		)
	}
	collabRepo := repoFactory.CreateCollaboratorRepository()
	notificationRepo := repoFactory.CreateNotificationRepository()
	invitationRepo := repoFactory.CreateInvitationRepository()

	// Initialize services
	identityService := services.NewIdentityService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	accessService := services.NewAccessService(boardRepo, collabRepo, log)
	boardService := services.NewBoardService(boardRepo, collabRepo, notificationRepo, invitationRepo, accessService, log)
	notificationService := services.NewNotificationService(boardRepo, collabRepo, notificationRepo, invitationRepo, log)

	// Initialize monitoring
	var collector *monitoring.PrometheusCollector
	if cfg.Monitoring.PrometheusEnabled {
		collector = monitoring.NewPrometheusCollector()
	}

	healthChecker := monitoring.NewHealthChecker(log)
	healthChecker.AddCheck("store", func(ctx context.Context) (bool, error) {
		if err := repoFactory.HealthCheck(ctx); err != nil {
			return false, err
		}
		return true, nil
	}, 30*time.Second, 2*time.Second)
	healthChecker.StartBackgroundChecks(rootCtx)

	// Initialize realtime hub
	var recorder realtime.MetricsRecorder
	if collector != nil {
		recorder = collector
	}
	hub := realtime.NewHub(cfg, identityService, accessService, recorder, log)
	go hub.Run(rootCtx)

	// Initialize HTTP handlers
	authHandler := httphandlers.NewAuthHandler(identityService, cfg.Auth.AccessTokenTTL)
	boardHandler := httphandlers.NewBoardHandler(boardService, accessService, identityService)
	notificationHandler := httphandlers.NewNotificationHandler(notificationService, identityService)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}

	authHandler.SetupRoutes(router)
	boardHandler.SetupRoutes(router)
	notificationHandler.SetupRoutes(router)

	// Realtime endpoint; the hub authenticates before upgrading.
	router.GET("/ws", gin.WrapF(hub.HandleWebSocket))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
			"sessions":  hub.SessionCount(),
		})
	})

	// Readiness endpoint checks the backing store.
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := healthChecker.CheckAll(ctx)
		if status.Status != "healthy" {
			c.JSON(503, gin.H{
				"status":    "not_ready",
				"timestamp": status.Timestamp,
				"checks":    status.Checks,
			})
			return
		}

		c.JSON(200, gin.H{
			"status":    "ready",
			"timestamp": status.Timestamp,
			"checks":    status.Checks,
		})
	})

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting boardsync server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signals or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down boardsync server...")
	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error shutting down tracer provider", "error", err)
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("boardsync server stopped")
}
