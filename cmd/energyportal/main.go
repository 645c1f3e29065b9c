package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"

	"energyportal/internal/accounts"
	accountsapi "energyportal/internal/accounts/api"
	accountstore "energyportal/internal/accounts/store"
	"energyportal/internal/common/api"
	"energyportal/internal/common/events"
	"energyportal/internal/common/middleware"
	"energyportal/internal/common/nats"
	"energyportal/internal/payments"
	paymentsapi "energyportal/internal/payments/api"
	paymentstore "energyportal/internal/payments/store"
)

// Config holds service configuration
type Config struct {
	Port        int    `envconfig:"PORT" default:"3001"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`

	// Simulated upstream and processor latencies.
	AccountFetchDelay time.Duration `envconfig:"ACCOUNT_FETCH_DELAY" default:"300ms"`
	ChargeFetchDelay  time.Duration `envconfig:"CHARGE_FETCH_DELAY" default:"300ms"`
	HistoryDelay      time.Duration `envconfig:"HISTORY_DELAY" default:"500ms"`
	ProcessingDelay   time.Duration `envconfig:"PROCESSING_DELAY" default:"1s"`

	NATS nats.Config
}

func main() {
	// Load configuration
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to process config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)

	// Create context that listens for shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Event publisher: NATS when configured, otherwise a no-op.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.Enabled() {
		client, err := nats.New(cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
	}

	// Seeded data sources and the payment ledger.
	accountSource := accountstore.New(cfg.AccountFetchDelay)
	chargeSource := paymentstore.NewCharges(cfg.ChargeFetchDelay)
	ledger := paymentstore.NewLedger(paymentstore.SeedPayments()...)

	// Create services
	accountService := accounts.NewService(accountSource, chargeSource, logger)
	paymentService := payments.NewService(chargeSource, ledger, publisher, logger,
		payments.WithProcessingDelay(cfg.ProcessingDelay),
		payments.WithHistoryDelay(cfg.HistoryDelay),
	)

	// Create handlers
	accountHandler := accountsapi.NewHandler(accountService, logger)
	paymentHandler := paymentsapi.NewHandler(paymentService, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimw.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{
			"status":    "UP",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Mount("/accounts", accountHandler.Routes())
		r.Mount("/payments", paymentHandler.Routes())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Message(w, http.StatusNotFound, "Route not found")
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting energy portal service",
			"port", cfg.Port,
			"environment", cfg.Environment,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	// Graceful shutdown
	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
