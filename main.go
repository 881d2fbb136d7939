package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdesk/config"
	"flightdesk/cron"
	"flightdesk/database"
	bookingRepo "flightdesk/database/repository/bookings"
	sessionRepo "flightdesk/database/repository/session"
	"flightdesk/handlers"
	"flightdesk/middleware"
	"flightdesk/routes"
	"flightdesk/services/booking"
	"flightdesk/services/provider"
	"flightdesk/services/reconcile"
	"flightdesk/services/tasks"
	"flightdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB(logger)
	sessionCache := utils.GetSessionCacheClient()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(ctx, sessionCache, database.MongoClient, 30*time.Second)

	// metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reconcileMetrics := reconcile.NewMetrics(registry)

	// upstream provider: rate limiting inside retries so every attempt waits for a token.
	cfg := config.AppConfig
	var upstream provider.Provider = provider.NewHTTPProvider(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderTimeout(), logger)
	upstream = provider.NewRateLimitedProvider(upstream, cfg.ProviderRatePerSecond)
	upstream = provider.NewRetryingProvider(upstream, cfg.ProviderMaxRetries, 250*time.Millisecond, logger)

	// repositories.
	sessions := sessionRepo.NewRedisSessionStore(sessionCache, utils.SessionCachePrefix, cfg.SessionTTL())
	records := bookingRepo.NewMongoBookingRepo(database.Database(), logger)

	// background persistence of confirmed bookings.
	queueClient := asynq.NewClient(cron.RedisQueueOpt())
	recordWorker := cron.InitBookingRecordWorker(records, logger)

	// services.
	pipeline := reconcile.New(upstream,
		reconcile.WithStepTimeout(cfg.ProviderTimeout()),
		reconcile.WithMetrics(reconcileMetrics),
		reconcile.WithLogger(logger))
	controller := booking.NewController(pipeline, upstream, logger, 2*cfg.ProviderTimeout())
	bookingService := &booking.DefaultBookingSessionService{
		Provider:        upstream,
		Controller:      controller,
		Sessions:        sessions,
		Records:         records,
		RecordWriter:    tasks.NewRecordQueue(queueClient),
		DefaultProvider: cfg.ProviderDefault,
		Logger:          logger,
	}

	handlerBundle := &handlers.HandlerBundle{
		Booking: handlers.NewBookingHandler(bookingService),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestContext(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	recordWorker.Shutdown()
	if err := queueClient.Close(); err != nil {
		logger.Warn("main: failed to close task queue", zap.Error(err))
	}
	if err := sessionCache.Close(); err != nil {
		logger.Warn("main: failed to close redis", zap.Error(err))
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: failed to close mongo", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
