package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/cache"
	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/repository"
	"github.com/segyhp/loan-tracker/internal/service"
	"github.com/segyhp/loan-tracker/pkg/logger"
)

// reportTimeout bounds one run of the daily report.
const reportTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("Starting ledger scheduler...")

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repository.Open(startCtx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	redisClient, summaryCache := cache.Open(startCtx, cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	reports := service.NewReportService(
		repository.NewFileRepository(db, log),
		repository.NewTransactionRepository(db, log),
		summaryCache,
		cfg.GetLocation(),
		log,
	)

	// Initialize cron scheduler
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.GetLocation()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	if err := setupCronJobs(c, cfg, reports, log); err != nil {
		log.WithError(err).Fatal("Error scheduling daily report job")
	}

	// Start the scheduler
	c.Start()
	log.WithField("schedule", cfg.Scheduler.ReportCron).Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, reports *service.ReportService, log *logrus.Logger) error {
	_, err := c.AddFunc(cfg.Scheduler.ReportCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		log.Info("Running daily ledger report job...")
		report, err := reports.RunDailyReport(ctx)
		if err != nil {
			log.WithError(err).Error("Daily ledger report failed")
			return
		}

		log.WithFields(logrus.Fields{
			"as_of":         report.AsOf,
			"active_files":  report.ActiveFiles,
			"files_bounced": report.FilesBounced,
			"overdue_files": len(report.OverdueFiles),
			"total_pending": report.TotalPending,
			"cache_errors":  report.CacheWarmErrs,
		}).Info("Daily ledger report")
		for _, id := range report.OverdueFiles {
			log.WithField("file_id", id).Warn("File is past its end date with money pending")
		}
	})
	return err
}
