package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/glasscart/storefront/internal/config"
	"github.com/glasscart/storefront/internal/event"
	"github.com/glasscart/storefront/internal/gateway"
	handler "github.com/glasscart/storefront/internal/handler/http"
	"github.com/glasscart/storefront/internal/orders"
	"github.com/glasscart/storefront/internal/remote"
	"github.com/glasscart/storefront/internal/service"
	"github.com/glasscart/storefront/internal/session"
	"github.com/glasscart/storefront/internal/state"
	"github.com/glasscart/storefront/pkg/database"
	apperrors "github.com/glasscart/storefront/pkg/errors"
	"github.com/glasscart/storefront/pkg/health"
	"github.com/glasscart/storefront/pkg/httpclient"
	pkgkafka "github.com/glasscart/storefront/pkg/kafka"
	"github.com/glasscart/storefront/pkg/tracing"
)

// storeUnavailableFallback is invoked when the circuit to the upstream store
// API is open. Callers treat the resulting error as an outage and fall back to
// local state.
func storeUnavailableFallback(ctx context.Context, err error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("store API is temporarily unavailable, please retry after 30 seconds")
}

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client for the session store.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize PostgreSQL connection pool for the order history.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// HTTP client with a circuit breaker for the upstream store API.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	})
	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         "storefront-store",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}
	cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger).
		WithFallback(storeUnavailableFallback)
	logger.Info("circuit breaker initialized", slog.String("name", cbCfg.Name))

	// Build the dependency graph.
	registry := state.NewRegistry()
	storeClient := remote.NewStoreClient(cbClient, cfg.StoreAPIURL, logger)
	sessionProvider := session.NewRedisProvider(rdb, time.Duration(cfg.SessionTTL)*time.Hour)
	orderRepo := orders.NewPostgresRepository(pool)
	bridge := gateway.NewBridge(logger)
	eventProducer := event.NewProducer(producer, logger)

	cartService := service.NewCartService(registry, storeClient, eventProducer, logger)
	wishlistService := service.NewWishlistService(registry, storeClient, eventProducer, logger)
	checkoutService := service.NewCheckoutService(registry, storeClient, bridge, orderRepo, eventProducer, logger, service.CheckoutConfig{
		Currency:     cfg.Currency,
		GatewayKeyID: cfg.GatewayKeyID,
		MerchantName: cfg.MerchantName,
		Description:  cfg.MerchantName + " order",
	})
	accountService := service.NewAccountService(sessionProvider, registry, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	// Kafka outages degrade event publishing but carts keep working.
	healthHandler.RegisterNonCritical("kafka", producer.Ping)

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Cart:     cartService,
		Wishlist: wishlistService,
		Checkout: checkoutService,
		Account:  accountService,
		Orders:   orderRepo,
		Bridge:   bridge,
		Sessions: sessionProvider,
		Health:   healthHandler,
		Logger:   logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
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

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
