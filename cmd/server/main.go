package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/sanctionwatch/app-server/internal/config"
	"github.com/sanctionwatch/app-server/internal/database"
	"github.com/sanctionwatch/app-server/internal/handlers"
	"github.com/sanctionwatch/app-server/internal/logger"
	"github.com/sanctionwatch/app-server/internal/metrics"
	"github.com/sanctionwatch/app-server/internal/middleware"
	"github.com/sanctionwatch/app-server/internal/routes"
	"github.com/sanctionwatch/app-server/internal/services/platform"
	"github.com/sanctionwatch/app-server/internal/services/registration"
	"github.com/sanctionwatch/app-server/internal/services/report"
	"github.com/sanctionwatch/app-server/internal/services/sanction"
	"github.com/sanctionwatch/app-server/internal/services/screening"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg := config.LoadConfig()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}
	if cfg.App.Secret == "" {
		log.Fatal("APP_SECRET is not configured")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Error("Failed to close database")
		}
	}()

	// Initialize Redis client
	ctx := context.Background()
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	shops := database.NewRedisShopRepository(redisClient)
	reports := database.NewReportStore(db)
	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize services
	sanctionService := sanction.NewService(
		screening.NewClient(cfg.Screening.URL, cfg.Screening.Timeout),
		sanction.PlatformFactory{ClientFactory: platform.NewClientFactory(cfg.Platform.Timeout)},
		reports,
		m,
		log,
	)
	registrationService := registration.NewService(cfg.App.Name, cfg.App.Secret, cfg.App.URL, shops, log)
	reportService := report.NewService(reports)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	defer rateLimiter.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	// Setup routes
	routes.SetupRoutes(router, routes.Handlers{
		App:     handlers.NewAppHandler(registrationService),
		Webhook: handlers.NewWebhookHandler(sanctionService, log),
		Report:  handlers.NewReportHandler(reportService),
	}, shops, rateLimiter, cfg.Security, prometheus.DefaultGatherer)

	// Start server
	srv := startServer(router, cfg.Server, log)

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exiting")
}

// startServer starts the HTTP server
func startServer(router *gin.Engine, cfg config.ServerConfig, log *logrus.Logger) *http.Server {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.WithField("port", cfg.Port).Info("Server started")
	return srv
}
