package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/cache"
	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/ledger"
	"github.com/segyhp/loan-tracker/internal/repository"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

// LedgerService runs file and transaction use cases: it loads state, asks the
// ledger engine for a decision and persists the outcome in one transaction.
type LedgerService struct {
	FileRepo        repository.FileRepository
	TransactionRepo repository.TransactionRepository
	txManager       repository.TxManager
	cache           cache.SummaryCache
	logger          *logrus.Logger

	maxPrincipal decimal.Decimal
	location     *time.Location
	now          func() time.Time
}

func NewLedgerService(
	fileRepo repository.FileRepository,
	transactionRepo repository.TransactionRepository,
	txManager repository.TxManager,
	summaryCache cache.SummaryCache,
	maxPrincipal decimal.Decimal,
	location *time.Location,
	logger *logrus.Logger,
) *LedgerService {
	if summaryCache == nil {
		summaryCache = cache.NopSummaryCache{}
	}
	return &LedgerService{
		FileRepo:        fileRepo,
		TransactionRepo: transactionRepo,
		txManager:       txManager,
		cache:           summaryCache,
		logger:          logger,
		maxPrincipal:    maxPrincipal,
		location:        location,
		now:             time.Now,
	}
}

// today is the current calendar day in the business timezone.
func (s *LedgerService) today() domain.Date {
	return domain.NewDate(utils.Today(s.now(), s.location))
}

// CreateFile validates and stores a new ACTIVE file
func (s *LedgerService) CreateFile(ctx context.Context, req domain.CreateFileRequest) (*domain.FileView, error) {
	// 1. Validate request and build the file
	file, err := ledger.ValidateFileCreation(req, s.maxPrincipal)
	if err != nil {
		return nil, err
	}

	// 2. Stamp and save
	now := s.now().UTC()
	file.CreatedAt = now
	file.UpdatedAt = now
	if err := s.FileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"file_id":   file.ID,
		"principal": file.PrincipalAmount.String(),
	}).Info("File created")

	return &domain.FileView{
		File:    file,
		Summary: ledger.ComputeLedgerSummary(file, nil, s.today()),
	}, nil
}

// GetFile returns a file with its summary and transactions
func (s *LedgerService) GetFile(ctx context.Context, fileID uuid.UUID) (*domain.FileDetailResponse, error) {
	file, err := s.FileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	txns, err := s.TransactionRepo.ListByFileID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	summary := ledger.ComputeLedgerSummary(file, txns, today)
	s.storeSummary(ctx, file, today, summary)

	return &domain.FileDetailResponse{
		File:         domain.FileView{File: file, Summary: summary},
		Transactions: txns,
	}, nil
}

// ListFiles returns files with their summaries, optionally filtered by status
func (s *LedgerService) ListFiles(ctx context.Context, status string) ([]*domain.FileView, error) {
	switch status {
	case "", domain.FileStatusActive, domain.FileStatusClosed:
	default:
		return nil, customError.NewValidationError("status", "Status must be ACTIVE or CLOSED")
	}

	files, err := s.FileRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	today := s.today()
	views := make([]*domain.FileView, 0, len(files))
	for _, file := range files {
		summary, err := s.summaryFor(ctx, file, today)
		if err != nil {
			return nil, err
		}
		views = append(views, &domain.FileView{File: file, Summary: summary})
	}
	return views, nil
}

// CloseFile moves a fully repaid file to CLOSED
func (s *LedgerService) CloseFile(ctx context.Context, fileID uuid.UUID) (*domain.FileView, error) {
	today := s.today()
	var (
		closed  *domain.File
		summary domain.LedgerSummary
	)

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Lock the file and load its collections
		file, err := s.FileRepo.GetByIDForUpdate(ctx, fileID)
		if err != nil {
			return err
		}
		txns, err := s.TransactionRepo.ListByFileID(ctx, fileID)
		if err != nil {
			return err
		}

		// 2. Closure needs the principal covered
		if err := ledger.ValidateFileClosure(file, txns); err != nil {
			return err
		}

		// 3. Persist the new status
		file.Status = domain.FileStatusClosed
		file.UpdatedAt = s.now().UTC()
		if err := s.FileRepo.UpdateStatus(ctx, file); err != nil {
			return err
		}

		closed = file
		summary = ledger.ComputeLedgerSummary(file, txns, today)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, fileID)
	s.logger.WithField("file_id", fileID).Info("File closed")

	return &domain.FileView{File: closed, Summary: summary}, nil
}

// ListTransactions returns the collections of a file ordered by date
func (s *LedgerService) ListTransactions(ctx context.Context, fileID uuid.UUID) ([]*domain.Transaction, error) {
	if _, err := s.FileRepo.GetByID(ctx, fileID); err != nil {
		return nil, err
	}
	return s.TransactionRepo.ListByFileID(ctx, fileID)
}

// CreateTransaction records a collection against an ACTIVE file
func (s *LedgerService) CreateTransaction(ctx context.Context, fileID uuid.UUID, req domain.CreateTransactionRequest) (*domain.Transaction, error) {
	today := s.today()
	var created *domain.Transaction

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Lock the file so concurrent writers see each other's collections
		file, err := s.FileRepo.GetByIDForUpdate(ctx, fileID)
		if err != nil {
			return err
		}

		// 2. Validate against the file and today
		txn, err := ledger.ValidateTransactionCreation(file, req, today)
		if err != nil {
			return err
		}

		// 3. Save; the (file, date) index rejects a second collection that day
		now := s.now().UTC()
		txn.CreatedAt = now
		txn.UpdatedAt = now
		if err := s.TransactionRepo.Create(ctx, txn); err != nil {
			return err
		}

		created = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, fileID)
	s.logger.WithFields(logrus.Fields{
		"file_id":        fileID,
		"transaction_id": created.ID,
		"date":           created.Date.String(),
		"amount":         created.Amount.String(),
	}).Info("Transaction recorded")

	return created, nil
}

// UpdateTransaction patches date, amount or mode of a transaction
func (s *LedgerService) UpdateTransaction(ctx context.Context, fileID, transactionID uuid.UUID, req domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	today := s.today()
	var updated *domain.Transaction

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		file, err := s.FileRepo.GetByIDForUpdate(ctx, fileID)
		if err != nil {
			return err
		}
		current, err := s.TransactionRepo.GetByID(ctx, fileID, transactionID)
		if err != nil {
			return err
		}
		existing, err := s.TransactionRepo.ListByFileID(ctx, fileID)
		if err != nil {
			return err
		}

		txn, err := ledger.ValidateTransactionUpdate(file, existing, current, req, today)
		if err != nil {
			return err
		}

		txn.UpdatedAt = s.now().UTC()
		if err := s.TransactionRepo.Update(ctx, txn); err != nil {
			return err
		}

		updated = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, fileID)
	s.logger.WithFields(logrus.Fields{
		"file_id":        fileID,
		"transaction_id": transactionID,
	}).Info("Transaction updated")

	return updated, nil
}

// DeleteTransaction removes a collection from an ACTIVE file
func (s *LedgerService) DeleteTransaction(ctx context.Context, fileID, transactionID uuid.UUID) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		file, err := s.FileRepo.GetByIDForUpdate(ctx, fileID)
		if err != nil {
			return err
		}
		if err := ledger.ValidateTransactionDeletion(file); err != nil {
			return err
		}
		return s.TransactionRepo.Delete(ctx, fileID, transactionID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, fileID)
	s.logger.WithFields(logrus.Fields{
		"file_id":        fileID,
		"transaction_id": transactionID,
	}).Info("Transaction deleted")

	return nil
}

// GetStatement returns the day-by-day collection history of a file
func (s *LedgerService) GetStatement(ctx context.Context, fileID uuid.UUID) (*domain.StatementResponse, error) {
	file, err := s.FileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	txns, err := s.TransactionRepo.ListByFileID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	return &domain.StatementResponse{
		FileID:  file.ID.String(),
		AsOf:    today.String(),
		Summary: ledger.ComputeLedgerSummary(file, txns, today),
		Entries: ledger.BuildStatement(file, txns, today),
	}, nil
}

// GetDashboard aggregates counts, pending amount and bounces over all files
func (s *LedgerService) GetDashboard(ctx context.Context) (*domain.Dashboard, error) {
	files, err := s.FileRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	today := s.today()
	summaries := make(map[uuid.UUID]domain.LedgerSummary, len(files))
	for _, file := range files {
		if !file.IsActive() {
			continue
		}
		summary, err := s.summaryFor(ctx, file, today)
		if err != nil {
			return nil, err
		}
		summaries[file.ID] = summary
	}

	dashboard := ledger.BuildDashboard(files, summaries, today)
	return &dashboard, nil
}

// summaryFor serves the file's summary from cache, computing and caching it on
// a miss. file must have been loaded before its transactions are read, so an
// entry is never labelled with a newer ledger version than the data behind it.
func (s *LedgerService) summaryFor(ctx context.Context, file *domain.File, today domain.Date) (domain.LedgerSummary, error) {
	cached, ok, err := s.cache.Get(ctx, file.ID)
	if err != nil {
		s.logger.WithError(err).WithField("file_id", file.ID).Warn("Summary cache read failed")
	}
	if ok && cached.Matches(today, file.LedgerVersion) {
		return cached.Summary, nil
	}

	txns, err := s.TransactionRepo.ListByFileID(ctx, file.ID)
	if err != nil {
		return domain.LedgerSummary{}, err
	}
	summary := ledger.ComputeLedgerSummary(file, txns, today)
	s.storeSummary(ctx, file, today, summary)
	return summary, nil
}

func (s *LedgerService) storeSummary(ctx context.Context, file *domain.File, today domain.Date, summary domain.LedgerSummary) {
	entry := domain.CachedSummary{
		AsOf:    today.String(),
		Version: file.LedgerVersion,
		Summary: summary,
	}
	if err := s.cache.Set(ctx, file.ID, entry); err != nil {
		s.logger.WithError(err).WithField("file_id", file.ID).Warn("Summary cache write failed")
	}
}

func (s *LedgerService) invalidate(ctx context.Context, fileID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, fileID); err != nil {
		s.logger.WithError(err).WithField("file_id", fileID).Warn("Summary cache invalidation failed")
	}
}
