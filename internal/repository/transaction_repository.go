package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

const transactionColumns = `id, file_id, txn_date, amount, mode, status, created_at, updated_at`

type transactionRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

func NewTransactionRepository(db *sqlx.DB, logger *logrus.Logger) TransactionRepository {
	return &transactionRepository{db: db, logger: logger}
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	q := conn(ctx, r.db)
	query := q.Rebind(`
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := q.ExecContext(ctx, query,
		txn.ID,
		txn.FileID,
		txn.Date,
		txn.Amount,
		txn.Mode,
		txn.Status,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return r.writeError(err, txn, "Failed to insert transaction")
	}
	return bumpLedgerVersion(ctx, q, txn.FileID)
}

func (r *transactionRepository) GetByID(ctx context.Context, fileID, id uuid.UUID) (*domain.Transaction, error) {
	q := conn(ctx, r.db)
	query := q.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND file_id = ?`)

	var txn domain.Transaction
	err := q.GetContext(ctx, &txn, query, id, fileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapTransactionNotFound(id.String())
	}
	if err != nil {
		r.logger.WithError(err).WithField("transaction_id", id).Error("Failed to load transaction")
		return nil, customError.WrapDatabaseError(err)
	}
	return &txn, nil
}

func (r *transactionRepository) ListByFileID(ctx context.Context, fileID uuid.UUID) ([]*domain.Transaction, error) {
	q := conn(ctx, r.db)
	query := q.Rebind(`
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE file_id = ?
		ORDER BY txn_date, created_at
	`)

	txns := []*domain.Transaction{}
	if err := q.SelectContext(ctx, &txns, query, fileID); err != nil {
		r.logger.WithError(err).WithField("file_id", fileID).Error("Failed to list transactions")
		return nil, customError.WrapDatabaseError(err)
	}
	return txns, nil
}

func (r *transactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	q := conn(ctx, r.db)
	res, err := q.ExecContext(ctx, q.Rebind(`
		UPDATE transactions
		SET txn_date = ?, amount = ?, mode = ?, updated_at = ?
		WHERE id = ? AND file_id = ?
	`), txn.Date, txn.Amount, txn.Mode, txn.UpdatedAt, txn.ID, txn.FileID)
	if err != nil {
		return r.writeError(err, txn, "Failed to update transaction")
	}
	if err := requireAffected(res, customError.WrapTransactionNotFound(txn.ID.String())); err != nil {
		return err
	}
	return bumpLedgerVersion(ctx, q, txn.FileID)
}

func (r *transactionRepository) Delete(ctx context.Context, fileID, id uuid.UUID) error {
	q := conn(ctx, r.db)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM transactions WHERE id = ? AND file_id = ?`), id, fileID)
	if err != nil {
		r.logger.WithError(err).WithField("transaction_id", id).Error("Failed to delete transaction")
		return customError.WrapDatabaseError(err)
	}
	if err := requireAffected(res, customError.WrapTransactionNotFound(id.String())); err != nil {
		return err
	}
	return bumpLedgerVersion(ctx, q, fileID)
}

// writeError classifies a failed insert or update of txn.
func (r *transactionRepository) writeError(err error, txn *domain.Transaction, msg string) error {
	switch {
	case isUniqueViolation(err):
		return customError.WrapDuplicateTransactionDate(txn.Date.String())
	case isForeignKeyViolation(err):
		return customError.WrapFileNotFound(txn.FileID.String())
	}
	r.logger.WithError(err).WithFields(logrus.Fields{
		"file_id":        txn.FileID,
		"transaction_id": txn.ID,
	}).Error(msg)
	return customError.WrapDatabaseError(err)
}
