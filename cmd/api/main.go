// cmd/api/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/invenda/inventory-be/internal/adapters/db"
	"github.com/invenda/inventory-be/internal/core/services"
	"github.com/invenda/inventory-be/internal/handlers"
	"github.com/invenda/inventory-be/internal/handlers/middleware"
	"github.com/invenda/inventory-be/internal/pkg/config"
	"github.com/invenda/inventory-be/internal/pkg/logger"
	"github.com/invenda/inventory-be/migrations"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	slogger.Info("starting inventory api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database      *db.Database
	redisClient   *redis.Client
	itemService   *services.ItemService
	statsService  *services.StatsService
	itemHandler   *handlers.ItemHandler
	statsHandler  *handlers.StatsHandler
	healthHandler *handlers.HealthHandler
	exportHandler *handlers.ExportHandler
	importHandler *handlers.ImportHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	if cfg.Redis.Enabled {
		logger.Info("connecting to Redis",
			slog.String("host", cfg.Redis.Host),
			slog.String("port", cfg.Redis.Port),
		)

		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.GetRedisAddress(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.redisClient = redisClient
	}

	itemRepo := db.NewItemRepository(database, logger)
	statsRepo := db.NewStatsRepository(database, logger)

	deps.itemService = services.NewItemService(itemRepo, logger)
	deps.statsService = services.NewStatsService(statsRepo, logger)

	deps.itemHandler = handlers.NewItemHandler(deps.itemService, logger)
	deps.statsHandler = handlers.NewStatsHandler(deps.statsService, logger)
	deps.healthHandler = handlers.NewHealthHandler(database, deps.redisClient, cfg, logger)
	deps.exportHandler = handlers.NewExportHandler(deps.itemService, logger)
	deps.importHandler = handlers.NewImportHandler(deps.itemService, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.Recovery(logger)(handler)
		handler = middleware.Logger(logger)(handler)
		handler = middleware.RequestID(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		if deps.redisClient != nil {
			handler = middleware.RedisRateLimit(deps.redisClient, logger,
				cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
		} else {
			handler = middleware.RateLimit(cfg.Security.RateLimitRequests,
				cfg.Security.RateLimitDuration)(handler)
		}
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	registerRoutes(mux, deps)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	// Index and health endpoints
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET /api/health", deps.healthHandler.APIHealth)

	// Item endpoints. The bare /items aliases mirror the /api/items
	// routes for clients that predate the /api prefix.
	mux.HandleFunc("GET /api/items", deps.itemHandler.ListItems)
	mux.HandleFunc("POST /api/items", deps.itemHandler.CreateItem)
	mux.HandleFunc("GET /api/items/{id}", deps.itemHandler.GetItem)
	mux.HandleFunc("PUT /api/items/{id}", deps.itemHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", deps.itemHandler.DeleteItem)
	mux.HandleFunc("POST /api/items/bulk", deps.itemHandler.BulkImport)

	mux.HandleFunc("GET /items", deps.itemHandler.ListItems)
	mux.HandleFunc("POST /items", deps.itemHandler.CreateItem)
	mux.HandleFunc("GET /items/{id}", deps.itemHandler.GetItem)
	mux.HandleFunc("PUT /items/{id}", deps.itemHandler.UpdateItem)
	mux.HandleFunc("DELETE /items/{id}", deps.itemHandler.DeleteItem)
	mux.HandleFunc("POST /items/bulk", deps.itemHandler.BulkImport)

	// Spreadsheet import/export
	mux.HandleFunc("POST /api/items/import/xlsx", deps.importHandler.ImportXLSX)
	mux.HandleFunc("GET /api/items/export/xlsx", deps.exportHandler.ExportXLSX)

	// Aggregates
	mux.HandleFunc("GET /api/stats", deps.statsHandler.GetStats)
}

// handleIndex describes the API surface for anyone poking at the root
func handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"service": "inventory-api",
		"endpoints": map[string]string{
			"GET /api/items":              "List items (filters: category, status, supplier, search)",
			"POST /api/items":             "Create an item",
			"GET /api/items/{id}":         "Fetch an item",
			"PUT /api/items/{id}":         "Update an item",
			"DELETE /api/items/{id}":      "Delete an item",
			"POST /api/items/bulk":        "Bulk import items (JSON array)",
			"POST /api/items/import/xlsx": "Bulk import items from a spreadsheet",
			"GET /api/items/export/xlsx":  "Export items as a spreadsheet",
			"GET /api/stats":              "Inventory statistics",
			"GET /api/health":             "Health probe",
		},
	})
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL:    cfg.GetDatabaseURL(),
		EmbeddedSource: migrations.FS,
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
