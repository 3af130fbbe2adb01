package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/cache"
	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/handler"
	"github.com/segyhp/loan-tracker/internal/repository"
	"github.com/segyhp/loan-tracker/internal/service"
	"github.com/segyhp/loan-tracker/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize database
	db, err := repository.Open(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Initialize Redis
	redisClient, summaryCache := cache.Open(ctx, cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize repositories
	fileRepo := repository.NewFileRepository(db, log)
	txnRepo := repository.NewTransactionRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)
	txManager := repository.NewTxManager(db, log)

	// Initialize services
	ledgerService := service.NewLedgerService(
		fileRepo,
		txnRepo,
		txManager,
		summaryCache,
		cfg.GetMaxPrincipalAmount(),
		cfg.GetLocation(),
		log,
	)
	authService := service.NewAuthService(userRepo, cfg.Auth.SecretKey, cfg.Auth.TokenExpiry, log)

	router := handler.NewRouter(
		handler.NewLedgerHandler(ledgerService, log),
		handler.NewAuthHandler(authService, log),
		handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout),
		authService,
		log,
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"addr":     server.Addr,
			"env":      cfg.Server.Env,
			"driver":   cfg.Database.Driver,
			"timezone": cfg.Business.Timezone,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
