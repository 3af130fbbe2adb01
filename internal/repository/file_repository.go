package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

const fileColumns = `id, person_name, person_mobile, reference_mobile, address, business_name, business_address,
	principal_amount, installment, start_date, end_date, status, installment_type, created_at, updated_at,
	ledger_version`

type fileRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

func NewFileRepository(db *sqlx.DB, logger *logrus.Logger) FileRepository {
	return &fileRepository{db: db, logger: logger}
}

func (r *fileRepository) Create(ctx context.Context, file *domain.File) error {
	q := conn(ctx, r.db)
	query := q.Rebind(`
		INSERT INTO files (` + fileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := q.ExecContext(ctx, query,
		file.ID,
		file.PersonName,
		file.PersonMobile,
		file.ReferenceMobile,
		file.Address,
		file.BusinessName,
		file.BusinessAddress,
		file.PrincipalAmount,
		file.Installment,
		file.StartDate,
		file.EndDate,
		file.Status,
		file.InstallmentType,
		file.CreatedAt,
		file.UpdatedAt,
		file.LedgerVersion,
	)
	if err != nil {
		r.logger.WithError(err).WithField("file_id", file.ID).Error("Failed to insert file")
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (r *fileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	return r.get(ctx, id, false)
}

func (r *fileRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	return r.get(ctx, id, true)
}

func (r *fileRepository) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.File, error) {
	q := conn(ctx, r.db)
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`
	// SQLite has no row locks; its single writer serializes the transaction instead.
	if lock && q.DriverName() == DriverPostgres {
		query += ` FOR UPDATE`
	}

	var file domain.File
	err := q.GetContext(ctx, &file, q.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapFileNotFound(id.String())
	}
	if err != nil {
		r.logger.WithError(err).WithField("file_id", id).Error("Failed to load file")
		return nil, customError.WrapDatabaseError(err)
	}
	return &file, nil
}

func (r *fileRepository) List(ctx context.Context, status string) ([]*domain.File, error) {
	q := conn(ctx, r.db)
	query := `SELECT ` + fileColumns + ` FROM files`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id`

	files := []*domain.File{}
	if err := q.SelectContext(ctx, &files, q.Rebind(query), args...); err != nil {
		r.logger.WithError(err).WithField("status", status).Error("Failed to list files")
		return nil, customError.WrapDatabaseError(err)
	}
	return files, nil
}

func (r *fileRepository) UpdateStatus(ctx context.Context, file *domain.File) error {
	q := conn(ctx, r.db)
	if file.UpdatedAt.IsZero() {
		file.UpdatedAt = time.Now().UTC()
	}

	res, err := q.ExecContext(ctx, q.Rebind(`
		UPDATE files
		SET status = ?, updated_at = ?, ledger_version = ledger_version + 1
		WHERE id = ?
	`), file.Status, file.UpdatedAt, file.ID)
	if err != nil {
		r.logger.WithError(err).WithField("file_id", file.ID).Error("Failed to update file status")
		return customError.WrapDatabaseError(err)
	}
	if err := requireAffected(res, customError.WrapFileNotFound(file.ID.String())); err != nil {
		return err
	}
	file.LedgerVersion++
	return nil
}

// bumpLedgerVersion marks the file's summary as changed. Called in the same
// transaction as the write that changed it.
func bumpLedgerVersion(ctx context.Context, q dbtx, fileID uuid.UUID) error {
	_, err := q.ExecContext(ctx, q.Rebind(`
		UPDATE files SET ledger_version = ledger_version + 1 WHERE id = ?
	`), fileID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// requireAffected turns a write that matched no row into notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
