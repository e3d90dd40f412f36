package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DevJWTSecret is the fallback signing key for local development.
const DevJWTSecret = "dev-secret-key-change-in-production"

type Config struct {
	Port        string        `env:"PORT,                  default=8080"`
	Env         string        `env:"ENV,                   default=development"`
	LogLevel    string        `env:"LOG_LEVEL,             default=info"`
	LogFormat   string        `env:"LOG_FORMAT,            default=text"`
	JWTSecret   string        `env:"JWT_SECRET,            default=dev-secret-key-change-in-production"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,             default=24h"`
	CORSOrigins []string      `env:"CORS_ALLOWED_ORIGINS,  default=*"`
	// StaticPath, when set, serves a frontend build from that directory.
	StaticPath string `env:"STATIC_PATH"`

	OverdueScanInterval time.Duration `env:"OVERDUE_SCAN_INTERVAL, default=1h"`

	Database DatabaseConfig
	Cache    CacheConfig
	Tracing  TracingConfig
}

type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER,            default=sqlite"`
	Path            string        `env:"DB_PATH,              default=./data/republica.db"`
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=5m"`
}

type CacheConfig struct {
	// RedisURL empty means no cache; summaries are always computed.
	RedisURL   string        `env:"REDIS_URL"`
	SummaryTTL time.Duration `env:"SUMMARY_CACHE_TTL, default=5m"`
}

type TracingConfig struct {
	// Endpoint empty disables trace export.
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME, default=republica-facil"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case "postgres":
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat))
	}

	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.OverdueScanInterval <= 0 {
		errs = append(errs, errors.New("OVERDUE_SCAN_INTERVAL must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
