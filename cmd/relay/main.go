package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/messaging"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/outbox"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/config"
)

func main() {
	cfg := config.LoadRelayConfig()
	logger := config.NewLogger(cfg.AppEnv, cfg.LogLevel).With(zap.String("component", "outbox-relay"))
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EventsQueueName, logger)
	if err != nil {
		logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer broker.Close()

	relay := outbox.NewRelay(db, cfg.DatabaseURL, broker, logger)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", probe(relay.IsHealthy))
	healthMux.HandleFunc("/health/live", probe(relay.IsHealthy))
	healthMux.HandleFunc("/health/ready", probe(func() bool { return relay.IsReady() && broker.IsOpen() }))

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting health server", zap.String("port", cfg.HealthPort))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.Error("relay stopped, shutting down", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func probe(check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "UP", http.StatusOK
		if !check() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status, "component": "outbox-relay"})
	}
}
