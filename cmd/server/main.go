package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Republica-Facil/republica-facil-backend/internal/auth"
	"github.com/Republica-Facil/republica-facil-backend/internal/cache"
	"github.com/Republica-Facil/republica-facil-backend/internal/config"
	"github.com/Republica-Facil/republica-facil-backend/internal/membership"
	"github.com/Republica-Facil/republica-facil-backend/internal/middleware"
	"github.com/Republica-Facil/republica-facil-backend/internal/observability/metrics"
	"github.com/Republica-Facil/republica-facil-backend/internal/observability/tracing"
	"github.com/Republica-Facil/republica-facil-backend/internal/service"
	"github.com/Republica-Facil/republica-facil-backend/internal/settlement"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage/postgres"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage/sqlite"
	"github.com/Republica-Facil/republica-facil-backend/internal/worker"
	"github.com/Republica-Facil/republica-facil-backend/pkg/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	shutdownTracing, err := tracing.Init(ctx, logger, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	summaryCache := openCache(ctx, cfg, logger)
	if rc, ok := summaryCache.(*cache.Redis); ok {
		defer rc.Close()
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	engine := settlement.NewEngine(store, summaryCache, cfg.Cache.SummaryTTL, logger)
	manager := membership.NewManager(store, summaryCache, logger)

	// Metrics wraps everything so rejected tokens are counted too.
	public := []connect.HandlerOption{
		connect.WithInterceptors(
			middleware.MetricsInterceptor(),
			middleware.LoggingInterceptor(logger),
		),
	}
	protected := []connect.HandlerOption{
		connect.WithInterceptors(
			middleware.MetricsInterceptor(),
			middleware.RequireAuth(jwtManager),
			middleware.LoggingInterceptor(logger),
		),
	}

	mux := http.NewServeMux()
	mux.Handle(service.NewAuthService(authenticator, jwtManager, store, logger).Handler(public, protected))
	mux.Handle(service.NewHouseService(store, engine, logger).Handler(protected...))
	mux.Handle(service.NewMemberService(store, manager, logger).Handler(protected...))
	mux.Handle(service.NewExpenseService(store, engine, logger).Handler(protected...))

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", metrics.HTTPMetricsMiddleware(healthHandler(store)))

	if cfg.StaticPath != "" {
		staticDir, err := filepath.Abs(cfg.StaticPath)
		if err != nil {
			return fmt.Errorf("failed to resolve static path: %w", err)
		}
		logger.Info("Serving static files", "path", staticDir)
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	handler := otelhttp.NewHandler(
		loggingMiddleware(logger, corsMiddleware(cfg.CORSOrigins, mux)),
		"republica-facil",
	)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		// Wrap with h2c for HTTP/2 without TLS (required for Connect)
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	overdue := worker.NewOverdueWorker(engine, logger, cfg.OverdueScanInterval)
	go overdue.Start(ctx)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting",
			"address", server.Addr,
			"env", cfg.Env,
			"db_driver", cfg.Database.Driver,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		store, err := postgres.New(ctx, postgres.Config{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		logger.Info("Storage initialized", "driver", "postgres")
		return store, nil
	default:
		if dir := filepath.Dir(cfg.Database.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		store, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		logger.Info("Storage initialized", "driver", "sqlite", "database", cfg.Database.Path)
		return store, nil
	}
}

// openCache connects to Redis when configured. The service runs without a
// cache when Redis is absent or down.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.Cache.RedisURL == "" {
		logger.Info("Summary cache disabled")
		return cache.Unavailable{}
	}
	rc, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
	if err != nil {
		logger.Warn("Redis unavailable, summaries will not be cached", "error", err)
		return cache.Unavailable{}
	}
	logger.Info("Summary cache connected", "ttl", cfg.Cache.SummaryTTL)
	return rc
}

func healthHandler(store storage.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowAll := slices.Contains(origins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{
			"Content-Type", "Authorization", "Connect-Protocol-Version", "Connect-Timeout-Ms",
		}, ", "))
		w.Header().Set("Access-Control-Expose-Headers", strings.Join([]string{
			"Connect-Protocol-Version", "Connect-Timeout-Ms", service.ErrorKindHeader,
		}, ", "))

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
