package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kiosk-labs/storefront/internal/config"
	"github.com/kiosk-labs/storefront/internal/db"
	dbRedis "github.com/kiosk-labs/storefront/internal/db/redis"
	logpkg "github.com/kiosk-labs/storefront/internal/logger"
	"github.com/kiosk-labs/storefront/internal/metrics"
	cartrepo "github.com/kiosk-labs/storefront/internal/repository/cart"
	chiTransport "github.com/kiosk-labs/storefront/internal/transport/chi"
	"github.com/kiosk-labs/storefront/internal/transport/faker"
	browseuc "github.com/kiosk-labs/storefront/internal/usecase/browse"
	cartuc "github.com/kiosk-labs/storefront/internal/usecase/cart"
	healthuc "github.com/kiosk-labs/storefront/internal/usecase/health"
	prefuc "github.com/kiosk-labs/storefront/internal/usecase/preferences"
	queryuc "github.com/kiosk-labs/storefront/internal/usecase/query"
	"github.com/kiosk-labs/storefront/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting storefront API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("catalog_base_url", cfg.Catalog.BaseURL),
	)

	// Create the durable store. rueidis speaks to both Redis and
	// Valkey; the driver setting only gates config validation.
	var store db.Store
	store, err = dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register storefront metrics explicitly (no init())
	metrics.RegisterStorefrontMetrics()

	// Catalog provider client
	catalog := faker.NewClient(&faker.Config{
		BaseURL:     cfg.Catalog.BaseURL,
		PageSize:    cfg.Catalog.PageSize,
		AllQuantity: cfg.Catalog.AllQuantity,
		Timeout:     time.Duration(cfg.Catalog.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	// Persistence bridge: seed the ledger from the durable slot, then
	// mirror every committed mutation back into it.
	cartRepo := cartrepo.New(store, cfg.CartSlotKey(), logger)
	seed, err := cartRepo.Load(ctx)
	if err != nil {
		// Storage trouble at startup degrades to an empty cart; the
		// session must come up regardless.
		logger.Warn("Failed to load persisted cart, starting empty", zap.Error(err))
		seed = nil
	}
	cartSvc := cartuc.New(seed)
	cartSvc.Subscribe(cartRepo.Bridge())
	logger.Info("Cart ledger seeded", zap.Int("items", len(seed)))

	// Session state: preferences and the debounced search query
	prefsSvc := prefuc.New()
	debouncer := queryuc.New(
		time.Duration(cfg.Search.DebounceDelayMS)*time.Millisecond,
		cfg.Search.CharWindow,
	)
	defer debouncer.Close()

	browseSvc := browseuc.New(catalog, debouncer, prefsSvc)
	healthSvc := healthuc.New(store, catalog)

	// Create chi server
	server := chiTransport.NewServer(cartSvc, prefsSvc, debouncer, browseSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
