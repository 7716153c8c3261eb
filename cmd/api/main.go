// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/reusehub/reuse-be/internal/adapters/db"
	redis_a "github.com/reusehub/reuse-be/internal/adapters/redis_adapter"
	"github.com/reusehub/reuse-be/internal/adapters/storage"
	"github.com/reusehub/reuse-be/internal/core/ports"
	"github.com/reusehub/reuse-be/internal/core/services"
	"github.com/reusehub/reuse-be/internal/handlers"
	"github.com/reusehub/reuse-be/internal/handlers/middleware"
	"github.com/reusehub/reuse-be/internal/pkg/config"
	"github.com/reusehub/reuse-be/internal/pkg/logger"
	"github.com/reusehub/reuse-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	// Initialize structured logger
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting reuse hub",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger.Logger)
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

	// Create application context
	ctx := context.Background()

	// Pull sensitive settings from the secret store in production
	if err := loadSecrets(ctx, cfg, slogger.Logger); err != nil {
		slogger.Error("failed to load secrets", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize dependencies
	deps, err := initializeDependencies(ctx, cfg, slogger.Logger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Run database migrations if enabled
	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger.Logger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	// Setup HTTP server
	server := setupHTTPServer(cfg, deps, slogger)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		// Gracefully shutdown HTTP server
		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// loadSecrets overlays the database password and the tip generator API
// key from AWS Secrets Manager when running in production. Development
// keeps reading plain environment variables.
func loadSecrets(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	if !cfg.IsProduction() {
		return nil
	}

	sm, err := config.NewAWSSecretsManager(cfg.AWS.Region, cfg.App.Name, slogger)
	if err != nil {
		return fmt.Errorf("failed to create secrets manager: %w", err)
	}

	secrets, err := sm.GetSecrets(ctx, []string{"DB_PASSWORD", "TEXTGEN_API_KEY"})
	if err != nil {
		return fmt.Errorf("failed to fetch secrets: %w", err)
	}

	if password, ok := secrets["DB_PASSWORD"]; ok {
		cfg.Database.Password = password
	}
	if apiKey, ok := secrets["TEXTGEN_API_KEY"]; ok {
		cfg.TextGen.APIKey = apiKey
	}

	return cfg.Validate()
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	cache          ports.CacheRepository
	feedBus        *redis_a.FeedBus
	taskClient     *workers.TaskClient
	asynqInspector *asynq.Inspector
	sessions       *services.SessionService
	itemService    *services.ItemService
	borrowService  *services.BorrowService
	feedService    *services.FeedService
	tipService     *services.TipService
	itemHandler    *handlers.ItemHandler
	borrowHandler  *handlers.BorrowHandler
	feedHandler    *handlers.FeedHandler
	tipHandler     *handlers.TipHandler
	statsHandler   *handlers.StatsHandler
	exportHandler  *handlers.ExportHandler
	adminHandler   *handlers.AdminHandler
	healthHandler  *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.taskClient != nil {
		d.taskClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize database connection
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
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	// Initialize Redis client
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		ConnMaxLifetime: cfg.Redis.MaxConnAge,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	})

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	// Cache and feed bus share the Redis connection
	deps.cache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	deps.feedBus = redis_a.NewFeedBus(redisClient, logger)

	// Task queue client and inspector
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.taskClient = workers.NewTaskClient(asynqRedisOpt, logger)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Object storage for item images
	store, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Initialize repositories
	itemRepo := db.NewItemRepository(database, logger)
	borrowRepo := db.NewBorrowRepository(database, logger)

	// Initialize services
	deps.sessions = services.NewSessionService(deps.cache, cfg.Security.SessionTTL, logger)
	deps.itemService = services.NewItemService(itemRepo, store, deps.feedBus, logger)
	deps.borrowService = services.NewBorrowService(borrowRepo, deps.feedBus, logger)
	deps.feedService = services.NewFeedService(itemRepo, borrowRepo, deps.feedBus, logger)
	deps.tipService = services.NewTipService(services.TipServiceConfig{
		Endpoint: cfg.TextGen.Endpoint,
		Model:    cfg.TextGen.Model,
		APIKey:   cfg.TextGen.APIKey,
		Timeout:  cfg.TextGen.Timeout,
	}, logger)

	// Initialize handlers
	deps.itemHandler = handlers.NewItemHandler(deps.itemService, logger)
	deps.borrowHandler = handlers.NewBorrowHandler(deps.borrowService, logger)
	deps.feedHandler = handlers.NewFeedHandler(deps.feedService, logger)
	deps.tipHandler = handlers.NewTipHandler(deps.tipService, logger)
	deps.statsHandler = handlers.NewStatsHandler(itemRepo, borrowRepo, deps.cache, logger)
	deps.exportHandler = handlers.NewExportHandler(itemRepo, borrowRepo, logger)
	deps.adminHandler = handlers.NewAdminHandler(deps.taskClient, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *logger.Logger) *http.Server {
	// Create new ServeMux using Go 1.22+ features
	mux := http.NewServeMux()

	// Setup middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	handler = middleware.Session(deps.sessions, middleware.SessionConfig{
		TokenHeader: cfg.Security.SessionHeader,
		AppIDHeader: cfg.Security.AppIDHeader,
	}, slogger.Logger)(handler)

	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(slogger)(handler)
		handler = middleware.Recovery(slogger.Logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	// Register routes using Go 1.22 method-specific routing
	registerRoutes(mux, deps, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}

	return server
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	// Inventory endpoints
	mux.HandleFunc("GET "+apiV1+"/items/{id}", deps.itemHandler.Get)
	mux.HandleFunc("GET "+apiV1+"/items", deps.itemHandler.List)
	mux.HandleFunc("POST "+apiV1+"/items", deps.itemHandler.Create)
	mux.HandleFunc("DELETE "+apiV1+"/items/{id}", deps.itemHandler.Delete)
	mux.HandleFunc("POST "+apiV1+"/items/{id}/image", deps.itemHandler.AttachImage)

	// Borrow workflow endpoints
	mux.HandleFunc("POST "+apiV1+"/borrow", deps.borrowHandler.Borrow)
	mux.HandleFunc("POST "+apiV1+"/returns/{recordID}", deps.borrowHandler.Return)
	mux.HandleFunc("GET "+apiV1+"/borrows", deps.borrowHandler.ListRecords)

	// Live feed (Server-Sent Events)
	mux.HandleFunc("GET "+apiV1+"/feed/{collection}", deps.feedHandler.Stream)

	// Tip generator
	mux.HandleFunc("GET "+apiV1+"/tips", deps.tipHandler.Generate)

	// Tenant stats
	mux.HandleFunc("GET "+apiV1+"/stats", deps.statsHandler.Stats)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/items", deps.exportHandler.ExportItems)
	mux.HandleFunc("GET "+apiV1+"/export/ledger", deps.exportHandler.ExportLedger)

	// Admin endpoints
	mux.HandleFunc("POST "+apiV1+"/admin/reconcile", deps.adminHandler.Reconcile)
	mux.HandleFunc("POST "+apiV1+"/admin/exports", deps.adminHandler.ExportLedger)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
