package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sundayezeilo/shortlink/codegen"
	"github.com/sundayezeilo/shortlink/internal/cache"
	"github.com/sundayezeilo/shortlink/internal/config"
	db "github.com/sundayezeilo/shortlink/internal/db/sqlc"
	"github.com/sundayezeilo/shortlink/internal/metrics"
	"github.com/sundayezeilo/shortlink/internal/migrations"
	"github.com/sundayezeilo/shortlink/internal/server"
	"github.com/sundayezeilo/shortlink/internal/shortener"
)

// App holds the application dependencies and configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DBPool  *pgxpool.Pool
	Redis   *redis.Client
	Server  *server.Server
	Handler *shortener.Handler

	closers []io.Closer
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig wires the application from an already loaded config.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	logger, logCloser := setupLogger(cfg.App)
	a.Logger = logger
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.Observability.ServiceVersion,
		"db_driver", cfg.Database.Driver,
		"cache_backend", cfg.Cache.Backend,
	)

	store, err := a.setupStore(ctx)
	if err != nil {
		_ = a.Shutdown()
		return nil, err
	}

	redirectCache, err := a.setupCache(ctx)
	if err != nil {
		_ = a.Shutdown()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg, "shortlink")

	codes := codegen.New(store)
	recorder := shortener.NewAccessRecorder(store, nil)

	handler := shortener.NewHandler(shortener.HandlerConfig{
		Shortener: shortener.NewShortenService(store, codes, &shortener.ShortenConfig{
			MaxRetries: cfg.Shortener.MaxRetries,
			Observer:   m,
		}),
		Redirector: shortener.NewRedirectService(store, recorder, &shortener.RedirectConfig{
			Cache:    redirectCache,
			Observer: m,
		}),
		Logger:  logger,
		BaseURL: cfg.Server.BaseURL,
	})

	a.Handler = handler
	a.Server = server.New(cfg, logger, handler, server.WithMetrics(m, reg))

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	return a, nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
		"base_url", a.Config.Server.BaseURL,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	var errs []error

	if a.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		err := a.Server.Shutdown(ctx)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		} else if a.Logger != nil {
			a.Logger.Info("redis connection closed")
		}
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		if a.Logger != nil {
			a.Logger.Info("database connection closed")
		}
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// setupStore returns the configured backing store, applying migrations for
// postgres when enabled.
func (a *App) setupStore(ctx context.Context) (shortener.Store, error) {
	cfg := a.Config

	if cfg.Database.Driver == config.DriverMemory {
		a.Logger.Warn("using in-memory store; data is lost on restart")
		return shortener.NewMemoryStore(), nil
	}

	if cfg.Database.Migrate {
		if err := migrations.Run(cfg.Database.MigrationURL(), a.Logger); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := connectDatabase(ctx, cfg, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.DBPool = pool

	return shortener.NewPostgresRepository(db.New(pool), nil), nil
}

// setupCache returns the configured redirect cache.
func (a *App) setupCache(ctx context.Context) (cache.Cache, error) {
	cfg := a.Config.Cache

	if cfg.Backend != config.CacheRedis {
		return cache.NewMemory(cfg.DefaultExpiry, cfg.CleanupInterval), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	a.Redis = client

	rc := cache.NewRedis(client, cfg.DefaultExpiry,
		cache.WithKeyPrefix(cfg.KeyPrefix),
		cache.WithLogger(a.Logger),
	)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	a.Logger.Info("redis cache connected", "addr", cfg.RedisAddr)
	return rc, nil
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(".env", "../.env"); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level. When a log
// file is configured, output also goes to a size-rotated file and the returned
// closer must be closed on shutdown.
func setupLogger(cfg config.AppConfig) (*slog.Logger, io.Closer) {
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	handler := slog.NewJSONHandler(out, opts)
	return slog.New(handler), closer
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
