package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/reviewhub/pkg/config"
)

// Config holds all configuration for the review dashboard service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"REVIEWHUB_HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"reviewhub"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"reviewhub_secret"`
	PostgresDB   string `env:"REVIEWHUB_DB_NAME" envDefault:"reviewhub_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Redis (fetch cooldown)
	RedisEnabled bool   `env:"REDIS_ENABLED" envDefault:"true"`
	RedisHost    string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort    int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`

	// Fetch orchestration
	FetchCooldown time.Duration `env:"FETCH_COOLDOWN" envDefault:"5m"`

	// Commerce review API. When no URL is configured the service falls back
	// to the built-in mock source, which is also the development default.
	CommerceAPIURL string `env:"COMMERCE_API_URL" envDefault:""`
	CommerceAPIKey string `env:"COMMERCE_API_KEY" envDefault:""`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load reviewhub config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.FetchCooldown < 0 {
		return nil, fmt.Errorf("invalid fetch cooldown: %s", cfg.FetchCooldown)
	}

	// In non-development environments the commerce API key must be set when
	// the API itself is configured.
	if cfg.Environment != "development" && cfg.CommerceAPIURL != "" && cfg.CommerceAPIKey == "" {
		return nil, fmt.Errorf("COMMERCE_API_KEY must be set in %q mode when COMMERCE_API_URL is configured", cfg.Environment)
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// RedisAddr returns the Redis host:port address.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
