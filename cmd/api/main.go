// Package main is the entry point for the discovery API server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nexushq/discovery/internal/api"
	"github.com/nexushq/discovery/internal/config"
	"github.com/nexushq/discovery/internal/discovery"
	"github.com/nexushq/discovery/internal/health"
	"github.com/nexushq/discovery/internal/history"
	"github.com/nexushq/discovery/internal/middleware"
	"github.com/nexushq/discovery/internal/postgres"
	"github.com/nexushq/discovery/internal/ranking"
	"github.com/nexushq/discovery/internal/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Discovery API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	logger.Info("configuration loaded")
	for key, value := range cfg.LogSummary() {
		logger.Debug("config", key, value)
	}

	tracer, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "discovery-api",
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplingRate: cfg.TraceSampleRate,
		InsecureMode: cfg.Env != "production",
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	checkers := map[string]health.Checker{
		"db": health.NewDBChecker(db),
	}

	var kv history.KV
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		kv = history.NewRedisKV(redisClient)
		checkers["redis"] = health.NewRedisChecker(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-process history store")
		kv = history.NewInMemoryKV()
	}

	weights, err := ranking.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		logger.Warn("ranking calibration unavailable, using defaults", "error", err)
	}

	store := postgres.NewStore(db, logger)
	svc := discovery.NewService(store,
		discovery.WithWeights(weights),
		discovery.WithCandidateLimit(cfg.CandidateLimit),
		discovery.WithLogger(logger),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := svc.Metrics().Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	hist := history.NewStore(kv, logger)

	mux := api.Routes(
		api.NewSearchHandlers(svc, hist, logger),
		api.NewHistoryHandlers(hist, logger),
		api.NewHealthHandlers(checkers),
	)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Middleware order: request ID first, then logging, then tracing so the
	// span covers handler work only.
	handler := middleware.RequestID(
		middleware.Logging(logger)(
			otelhttp.NewHandler(mux, "discovery-api"),
		),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
