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

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/cache"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/handler"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/middleware"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/repository"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/config"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/services"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("failed to prepare schema", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("address", cfg.RedisAddress))

	userRepo := repository.NewUserRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	tokenStore := cache.NewTokenStore(redisClient, logger)

	identity := services.NewIdentityResolver(userRepo, logger)
	authService := services.NewAuthService(userRepo, tokenStore, cfg.JWTPrivateKey, cfg.TokenTTL, logger)
	registrationService := services.NewRegistrationService(userRepo, patientRepo, logger)
	patientService := services.NewPatientService(patientRepo, logger)
	appointmentService := services.NewAppointmentService(appointmentRepo, patientRepo, outboxRepo, logger)
	deletionService := services.NewDeletionService(userRepo, patientRepo, appointmentRepo, tokenStore, outboxRepo, cfg.TokenTTL, logger)

	if cfg.BootstrapAdminUsername != "" && cfg.BootstrapAdminPassword != "" {
		if err := registrationService.EnsureAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword); err != nil {
			logger.Fatal("failed to create bootstrap admin", zap.Error(err))
		}
	}

	router := handler.NewRouter(handler.Handlers{
		Auth:         handler.NewAuthHandler(authService, logger),
		Registration: handler.NewRegistrationHandler(registrationService, logger),
		Patients:     handler.NewPatientHandler(identity, patientService, deletionService, logger),
		Users:        handler.NewUserHandler(identity, deletionService, logger),
		Appointments: handler.NewAppointmentHandler(identity, appointmentService, logger),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": db,
			"redis":    handler.PingFunc(tokenStore.Ping),
		}, logger),
	},
		middleware.NewAuthMiddleware(cfg.JWTPublicKey, tokenStore, logger),
		handler.RouterOptions{
			AllowedOrigins:     cfg.CORSAllowedOrigins,
			RateLimitPerSecond: cfg.RateLimitPerSecond,
		},
		logger,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
