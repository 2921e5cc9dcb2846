package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/reviewhub/internal/config"
	"github.com/utafrali/reviewhub/internal/event"
	handler "github.com/utafrali/reviewhub/internal/handler/http"
	"github.com/utafrali/reviewhub/internal/repository/postgres"
	"github.com/utafrali/reviewhub/internal/scraper"
	"github.com/utafrali/reviewhub/internal/service"
	"github.com/utafrali/reviewhub/migrations"
	"github.com/utafrali/reviewhub/pkg/database"
	"github.com/utafrali/reviewhub/pkg/health"
	"github.com/utafrali/reviewhub/pkg/httpclient"
	pkgkafka "github.com/utafrali/reviewhub/pkg/kafka"
)

// App wires together all dependencies and runs the review dashboard service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		URL:             cfg.PostgresDSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	prometheus.MustRegister(database.NewPoolStatsCollector(pool, "reviewhub"))

	// Redis backs the per-product fetch cooldown. The service degrades to
	// uncooled fetches when Redis is disabled or unreachable.
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("redis unavailable, fetch cooldown disabled",
				slog.String("error", err.Error()),
			)
			redisClient = nil
		} else {
			logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr()))
		}
	}

	// Kafka producer for domain events.
	var producer *pkgkafka.Producer
	var eventProducer *event.Producer
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		eventProducer = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Review sources: the commerce API when configured, the deterministic
	// mock source otherwise.
	var sources []scraper.Source
	if cfg.CommerceAPIURL != "" {
		client := httpclient.New(httpclient.DefaultConfig())
		sources = append(sources, scraper.NewCommerceSource(cfg.CommerceAPIURL, cfg.CommerceAPIKey, client))
		logger.Info("commerce review source configured", slog.String("url", cfg.CommerceAPIURL))
	} else {
		sources = append(sources, scraper.NewMockSource())
		logger.Info("using mock review source")
	}
	cooldown := scraper.NewCooldown(redisClient, cfg.FetchCooldown)

	// Build the dependency graph.
	reviewRepo := postgres.NewReviewRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	ingestService := service.NewIngestService(reviewRepo, productRepo, sources, cooldown, eventProducer, logger)
	reviewService := service.NewReviewService(reviewRepo, logger)
	aggregateService := service.NewAggregateService(reviewRepo, logger)
	moderationService := service.NewModerationService(reviewRepo, eventProducer, logger)
	catalogService := service.NewCatalogService(productRepo, reviewRepo, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(
		ingestService,
		reviewService,
		aggregateService,
		moderationService,
		catalogService,
		healthHandler,
		cfg.CORSAllowedOrigins,
		logger,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
