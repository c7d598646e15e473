package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	Shortener     ShortenerConfig
	App           AppConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	BaseURL         string        `envconfig:"SERVER_BASE_URL" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL must be absolute, got %q", c.BaseURL)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// DatabaseConfig holds database connection configuration.
// Connection fields are only checked for the postgres driver.
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"` // postgres, memory
	Host     string `envconfig:"DB_HOST"`
	Port     string `envconfig:"DB_PORT"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
	Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("invalid driver: %s (must be one of: postgres, memory)", c.Driver)
	}

	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// MigrationURL returns the connection as a postgres:// URL, which is the form
// golang-migrate accepts.
func (c *DatabaseConfig) MigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// CacheConfig holds redirect cache configuration.
type CacheConfig struct {
	Backend         string        `envconfig:"CACHE_BACKEND" default:"memory"` // memory, redis
	DefaultExpiry   time.Duration `envconfig:"CACHE_DEFAULT_EXPIRY" default:"300s"`
	CleanupInterval time.Duration `envconfig:"CACHE_CLEANUP_INTERVAL" default:"10m"`
	KeyPrefix       string        `envconfig:"CACHE_KEY_PREFIX" default:"shortlink:"`
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if c.DefaultExpiry <= 0 {
		return fmt.Errorf("default expiry must be positive")
	}

	switch c.Backend {
	case CacheMemory:
		if c.CleanupInterval <= 0 {
			return fmt.Errorf("cleanup interval must be positive")
		}
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address is required when the redis backend is selected")
		}
		if c.RedisDB < 0 {
			return fmt.Errorf("redis db cannot be negative")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be one of: memory, redis)", c.Backend)
	}
	return nil
}

// ShortenerConfig holds code generation settings.
type ShortenerConfig struct {
	MaxRetries int `envconfig:"SHORTEN_MAX_RETRIES" default:"3"`
}

// Validate validates the shortener configuration.
func (c *ShortenerConfig) Validate() error {
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be positive")
	}
	return nil
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment   string `envconfig:"APP_ENV" required:"true"`   // development, staging, production, test
	LogLevel      string `envconfig:"LOG_LEVEL" required:"true"` // debug, info, warn, error
	LogFile       string `envconfig:"LOG_FILE"`                  // also write logs here when set
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"28"`
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFile != "" {
		if c.LogMaxSizeMB <= 0 {
			return fmt.Errorf("log max size must be positive")
		}
		if c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
			return fmt.Errorf("log retention settings cannot be negative")
		}
	}
	return nil
}

// ObservabilityConfig holds service identity and metrics configuration.
type ObservabilityConfig struct {
	ServiceName    string `envconfig:"SERVICE_NAME" default:"shortlink"`
	ServiceVersion string `envconfig:"SERVICE_VERSION" default:"dev"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsPath    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

// Validate validates the observability configuration.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if c.MetricsEnabled {
		if c.MetricsPath == "" || c.MetricsPath[0] != '/' {
			return fmt.Errorf("metrics path must start with '/', got %q", c.MetricsPath)
		}
	}
	return nil
}

// Load loads configuration from environment variables only.
// (Do .env loading in cmd/server/main.go for dev, not here.)
func Load() (*Config, error) {
	cfg := &Config{}

	sections := []struct {
		name     string
		spec     any
		validate func() error
	}{
		{"Server", &cfg.Server, cfg.Server.Validate},
		{"Database", &cfg.Database, cfg.Database.Validate},
		{"Cache", &cfg.Cache, cfg.Cache.Validate},
		{"Shortener", &cfg.Shortener, cfg.Shortener.Validate},
		{"App", &cfg.App, cfg.App.Validate},
		{"Observability", &cfg.Observability, cfg.Observability.Validate},
	}

	for _, s := range sections {
		if err := envconfig.Process("", s.spec); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", s.name, err)
		}
	}

	return cfg, nil
}
