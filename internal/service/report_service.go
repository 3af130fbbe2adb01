package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/cache"
	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/ledger"
	"github.com/segyhp/loan-tracker/internal/repository"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

// ReportService produces the scheduled daily ledger report.
type ReportService struct {
	fileRepo        repository.FileRepository
	transactionRepo repository.TransactionRepository
	cache           cache.SummaryCache
	location        *time.Location
	logger          *logrus.Logger
	now             func() time.Time
}

func NewReportService(
	fileRepo repository.FileRepository,
	transactionRepo repository.TransactionRepository,
	summaryCache cache.SummaryCache,
	location *time.Location,
	logger *logrus.Logger,
) *ReportService {
	if summaryCache == nil {
		summaryCache = cache.NopSummaryCache{}
	}
	return &ReportService{
		fileRepo:        fileRepo,
		transactionRepo: transactionRepo,
		cache:           summaryCache,
		location:        location,
		logger:          logger,
		now:             time.Now,
	}
}

// RunDailyReport computes today's summary of every ACTIVE file, warms the
// summary cache with it and reports files with bounces and overdue files,
// i.e. files past their end date that still have money pending.
func (s *ReportService) RunDailyReport(ctx context.Context) (*domain.DailyReport, error) {
	now := s.now()
	today := domain.NewDate(utils.Today(now, s.location))

	files, err := s.fileRepo.List(ctx, domain.FileStatusActive)
	if err != nil {
		return nil, err
	}

	report := &domain.DailyReport{
		AsOf:         today.String(),
		ActiveFiles:  len(files),
		OverdueFiles: []string{},
		GeneratedAt:  now.UTC(),
	}
	totalPending := decimal.Zero

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		txns, err := s.transactionRepo.ListByFileID(ctx, file.ID)
		if err != nil {
			return nil, err
		}
		summary := ledger.ComputeLedgerSummary(file, txns, today)
		totalPending = totalPending.Add(summary.PendingAmount)

		entry := domain.CachedSummary{AsOf: today.String(), Version: file.LedgerVersion, Summary: summary}
		if err := s.cache.Set(ctx, file.ID, entry); err != nil {
			report.CacheWarmErrs++
			s.logger.WithError(err).WithField("file_id", file.ID).Warn("Summary cache warm failed")
		}

		fields := logrus.Fields{
			"file_id":      file.ID,
			"person_name":  file.PersonName,
			"bounce_count": summary.BounceCount,
			"pending":      summary.PendingAmount.String(),
		}
		if summary.BounceCount > 0 {
			report.FilesBounced++
			s.logger.WithFields(fields).Info("File has bounced collections")
		}
		if today.After(file.EndDate) && summary.PendingAmount.IsPositive() {
			report.OverdueFiles = append(report.OverdueFiles, file.ID.String())
			s.logger.WithFields(fields).Warn("File is past its end date with pending amount")
		}
	}

	report.TotalPending = totalPending.StringFixed(2)

	s.logger.WithFields(logrus.Fields{
		"as_of":         report.AsOf,
		"active_files":  report.ActiveFiles,
		"files_bounced": report.FilesBounced,
		"overdue_files": len(report.OverdueFiles),
		"total_pending": report.TotalPending,
	}).Info("Daily ledger report generated")

	return report, nil
}
