package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sentimentdb/sentiment-api/internal/api"
	"github.com/sentimentdb/sentiment-api/internal/config"
	"github.com/sentimentdb/sentiment-api/internal/db"
	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
	"github.com/sentimentdb/sentiment-api/internal/log"
	"github.com/sentimentdb/sentiment-api/internal/metrics"
	"github.com/sentimentdb/sentiment-api/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := log.NewSugar(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting sentiment API server",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
		"db_type", cfg.Database.Type,
		"default_format", cfg.DefaultFormat,
	)

	// Setup metrics
	metricsObj, metricsHandler, err := metrics.Setup(log.ServiceName)
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	// Connect to the posts database; an unreachable database is fatal
	postStore, err := db.Open(context.Background(), &db.Config{
		Type:           cfg.Database.Type,
		DSN:            cfg.Database.URL,
		MaxConns:       cfg.Database.MaxConns,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		logger.Fatalw("Failed to initialize database", "error", err)
	}
	defer postStore.Close()
	logger.Infow("Database connection established", "max_conns", cfg.Database.MaxConns)

	// Optional Redis result cache; an unreachable server leaves it disabled
	var posts interfaces.PostStore = postStore
	var cachePinger api.Pinger
	if cfg.CacheEnabled() {
		cache := store.NewCache(cfg.Cache.RedisAddr, logger, metricsObj)
		defer cache.Close()

		if cache.Enabled() {
			posts = store.NewCachedPostStore(postStore, cache, cfg.Cache.TTL, logger)
			cachePinger = cache
			logger.Infow("Result cache enabled", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)
		}
	}

	// Setup API handler and middleware
	handler := api.NewHandler(posts, cachePinger, cfg, logger, metricsObj)
	middleware := api.NewMiddleware(logger, metricsObj)

	router := handler.Routes(middleware, cfg.Security.CORSAllowedOrigins, cfg.Security.RateLimitRPM, cfg.RequestTimeout)

	// Add metrics endpoint
	router.Handle("/metrics", metricsHandler)

	// Setup HTTP server
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		logger.Infow("API server starting", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Server startup failed", "error", err)
		}
	case sig := <-shutdown:
		logger.Infow("Shutdown signal received", "signal", sig.String())

		// Give outstanding requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
			server.Close()
		}

		logger.Infow("Server stopped")
	}
}
