package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/fiado_backend/internal/adapters/export"
	"github.com/SscSPs/fiado_backend/internal/adapters/notify"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/core/services"
	"github.com/SscSPs/fiado_backend/internal/handlers"
	"github.com/SscSPs/fiado_backend/internal/middleware"
	"github.com/SscSPs/fiado_backend/internal/platform/config"
	"github.com/SscSPs/fiado_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/fiado_backend/internal/repositories/memory"
	"github.com/SscSPs/fiado_backend/internal/utils"
	"github.com/SscSPs/fiado_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const demoOwnerID = "demo-owner"

// @title Fiado Backend API
// @version 1.0
// @description Customer credit ledger with inventory reconciliation.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, health, closeStorage, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	publisher, closePublisher := setupPublisher(ctx, cfg, logger)
	defer closePublisher()

	serviceContainer := services.NewServiceContainer(cfg, repos, publisher, export.NewXLSXExporter())

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(rateLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, health)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// setupStorage opens the configured backend and returns its transaction manager,
// a health probe and a cleanup function.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, handlers.HealthChecker, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage; all data is lost on restart")
		store := memory.NewStore()
		seedDemoData(store, cfg, logger)
		return portsrepo.RepositoryProvider{TxManager: store}, nil, func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, nil, err
	}

	health := func(c *gin.Context) error {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		return dbPool.Ping(pingCtx)
	}
	return pgsql.NewRepositoryProvider(dbPool), health, func() { database.ClosePgxPool(dbPool) }, nil
}

// setupPublisher returns the Redis publisher when REDIS_URL is set and reachable,
// and the log publisher otherwise.
func setupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portssvc.EventPublisher, func()) {
	if cfg.RedisURL == "" {
		return notify.NewLogEventPublisher(logger), func() {}
	}

	publisher, err := notify.NewRedisEventPublisher(ctx, cfg.RedisURL,
		notify.WithChannelPrefix(cfg.EventsChannelPrefix),
		notify.WithPublisherLogger(logger),
	)
	if err != nil {
		logger.Error("Redis unavailable, logging ledger events instead", slog.String("error", err.Error()))
		return notify.NewLogEventPublisher(logger), func() {}
	}
	logger.Info("Publishing ledger events to Redis", slog.String("prefix", cfg.EventsChannelPrefix))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close Redis client", slog.String("error", err.Error()))
		}
	}
}

func seedDemoData(store *memory.Store, cfg *config.Config, logger *slog.Logger) {
	customer, _ := store.AddCustomer(demoOwnerID, "Demo customer")
	coffee := store.AddProduct(demoOwnerID, "Coffee", decimal.RequireFromString("5.00"), 50)
	bread := store.AddProduct(demoOwnerID, "Bread", decimal.RequireFromString("1.25"), 100)
	logger.Info("Seeded demo data",
		slog.String("owner_id", demoOwnerID),
		slog.String("customer_id", customer.CustomerID),
		slog.String("coffee_product_id", coffee.ProductID),
		slog.String("bread_product_id", bread.ProductID),
	)

	token, err := utils.GenerateJWT(demoOwnerID, cfg.JWTSecret, 24*time.Hour, cfg.JWTIssuer)
	if err != nil {
		logger.Warn("Failed to sign demo token", slog.String("error", err.Error()))
		return
	}
	logger.Info("Demo bearer token (valid 24h)", slog.String("token", token))
}
