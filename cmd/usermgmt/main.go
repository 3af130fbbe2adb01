package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/repository"
	"github.com/segyhp/loan-tracker/internal/service"
	"github.com/segyhp/loan-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Service logs go to stderr so command output stays readable.
	log := logger.NewWithOutput(cfg.Logging.Level, "text", os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repository.Open(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Cannot connect to database")
	}
	defer db.Close()

	users := service.NewUserService(repository.NewUserRepository(db, log), log)

	if err := run(ctx, os.Args[1:], users, os.Stdout); err != nil {
		log.WithError(err).Error("Command failed")
		db.Close()
		os.Exit(1)
	}
}
