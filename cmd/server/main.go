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

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/cache"
	"github.com/felipemaillo/finance-app/internal/config"
	"github.com/felipemaillo/finance-app/internal/events"
	"github.com/felipemaillo/finance-app/internal/ledger"
	"github.com/felipemaillo/finance-app/internal/middleware"
	"github.com/felipemaillo/finance-app/internal/models"
	"github.com/felipemaillo/finance-app/internal/service"
	"github.com/felipemaillo/finance-app/internal/storage"
	"github.com/felipemaillo/finance-app/internal/storage/sqlite"
	"github.com/felipemaillo/finance-app/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	summaries, stopCache := newSummaryCache(ctx, cfg, logger)
	defer stopCache()

	l := ledger.New(store,
		ledger.WithLogger(logger),
		ledger.WithPublisher(publisher),
		ledger.WithSummaryCache(summaries),
	)

	metrics := middleware.NewMetrics()
	mux := http.NewServeMux()
	service.Register(mux, service.Deps{
		Ledger:        l,
		Authenticator: auth.NewPasswordAuthenticator(store),
		JWT:           auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Metrics:       metrics,
		Logger:        logger,
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /healthz", healthHandler(store))

	handler := middleware.HTTPLogging(logger, middleware.CORS(cfg.CORSOrigin, mux))

	// h2c serves HTTP/2 without TLS, which Connect clients use.
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPublisher connects to RabbitMQ when configured. The server keeps
// running without events if the broker is unreachable.
func newPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled - ledger events will not be published")
		return events.Nop{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		logger.Warn("Failed to initialize AMQP publisher, continuing without events", "error", err)
		return events.Nop{}
	}
	logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
	return publisher
}

// newSummaryCache prefers Redis and falls back to an in-process LRU. The
// returned func releases the cache's resources.
func newSummaryCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Cache[*models.MonthSummary], func()) {
	if cfg.CacheSize == 0 {
		logger.Info("Summary cache disabled")
		return cache.Nop[*models.MonthSummary]{}, func() {}
	}

	if cfg.RedisURL != "" {
		client, err := cache.DialRedis(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info("Summary cache using Redis", "ttl", cfg.CacheTTL)
			return cache.NewRedisCache[*models.MonthSummary](client, "ledger", cfg.CacheTTL), func() { client.Close() }
		}
		logger.Warn("Failed to connect to Redis, using in-process cache", "error", err)
	}

	lru := cache.NewLRUCache[*models.MonthSummary](cfg.CacheSize, cfg.CacheTTL)
	manager := cache.NewManager(logger)
	manager.Register(lru)
	manager.StartCleanup(cfg.CacheTTL)
	logger.Info("Summary cache using in-process LRU", "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	return lru, manager.Stop
}

func healthHandler(store storage.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
