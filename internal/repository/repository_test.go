package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupTestDB opens a private in-memory SQLite database with the schema applied.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := sqlx.Connect(DriverSQLite, dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func testFile(status string) *domain.File {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return &domain.File{
		ID:              uuid.New(),
		PersonName:      "Rahul Sharma",
		PersonMobile:    "9876543210",
		ReferenceMobile: "9123456780",
		Address:         "12 MG Road, Pune",
		BusinessName:    "Sharma Traders",
		BusinessAddress: "14 MG Road, Pune",
		PrincipalAmount: decimal.RequireFromString("1000.50"),
		Installment:     decimal.NewFromInt(100),
		StartDate:       domain.MustParseDate("2024-01-01"),
		EndDate:         domain.MustParseDate("2024-01-10"),
		Status:          status,
		InstallmentType: domain.InstallmentTypeDaily,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func testTransaction(fileID uuid.UUID, date string, amount string) *domain.Transaction {
	now := time.Now().UTC()
	return &domain.Transaction{
		ID:        uuid.New(),
		FileID:    fileID,
		Date:      domain.MustParseDate(date),
		Amount:    decimal.RequireFromString(amount),
		Mode:      domain.TransactionModeCash,
		Status:    domain.TransactionStatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	assert.NoError(t, Migrate(context.Background(), db))
}

func TestFileRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFileRepository(db, quietLogger())
	ctx := context.Background()

	file := testFile(domain.FileStatusActive)
	require.NoError(t, repo.Create(ctx, file))

	got, err := repo.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)
	assert.Equal(t, file.PersonName, got.PersonName)
	assert.True(t, file.PrincipalAmount.Equal(got.PrincipalAmount), "decimal survives storage")
	assert.Equal(t, "2024-01-01", got.StartDate.String())
	assert.Equal(t, "2024-01-10", got.EndDate.String())
	assert.Equal(t, domain.FileStatusActive, got.Status)
	assert.True(t, file.CreatedAt.Equal(got.CreatedAt))
}

func TestFileRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFileRepository(db, quietLogger())

	_, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, customError.ErrFileNotFound)
}

func TestFileRepository_ListAndUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFileRepository(db, quietLogger())
	ctx := context.Background()

	active := testFile(domain.FileStatusActive)
	toClose := testFile(domain.FileStatusActive)
	toClose.CreatedAt = active.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, toClose))

	toClose.Status = domain.FileStatusClosed
	toClose.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.UpdateStatus(ctx, toClose))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, toClose.ID, all[0].ID, "newest first")

	closed, err := repo.List(ctx, domain.FileStatusClosed)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, toClose.ID, closed[0].ID)

	missing := testFile(domain.FileStatusClosed)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, missing), customError.ErrFileNotFound)
}

func TestTransactionRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	files := NewFileRepository(db, quietLogger())
	repo := NewTransactionRepository(db, quietLogger())
	ctx := context.Background()

	file := testFile(domain.FileStatusActive)
	require.NoError(t, files.Create(ctx, file))

	later := testTransaction(file.ID, "2024-01-03", "200")
	earlier := testTransaction(file.ID, "2024-01-02", "150.25")
	require.NoError(t, repo.Create(ctx, later))
	require.NoError(t, repo.Create(ctx, earlier))

	txns, err := repo.ListByFileID(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "2024-01-02", txns[0].Date.String(), "ordered by date")
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("150.25")))

	later.Amount = decimal.NewFromInt(250)
	later.Date = domain.MustParseDate("2024-01-04")
	require.NoError(t, repo.Update(ctx, later))

	got, err := repo.GetByID(ctx, file.ID, later.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", got.Date.String())
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(250)))

	_, err = repo.GetByID(ctx, uuid.New(), later.ID)
	assert.ErrorIs(t, err, customError.ErrTransactionNotFound, "scoped to its file")

	require.NoError(t, repo.Delete(ctx, file.ID, later.ID))
	assert.ErrorIs(t, repo.Delete(ctx, file.ID, later.ID), customError.ErrTransactionNotFound)

	empty, err := repo.ListByFileID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLedgerVersion_BumpedByEveryWrite(t *testing.T) {
	db := setupTestDB(t)
	files := NewFileRepository(db, quietLogger())
	repo := NewTransactionRepository(db, quietLogger())
	ctx := context.Background()

	file := testFile(domain.FileStatusActive)
	require.NoError(t, files.Create(ctx, file))

	version := func() int64 {
		t.Helper()
		got, err := files.GetByID(ctx, file.ID)
		require.NoError(t, err)
		return got.LedgerVersion
	}
	assert.Equal(t, int64(0), version())

	txn := testTransaction(file.ID, "2024-01-03", "200")
	require.NoError(t, repo.Create(ctx, txn))
	assert.Equal(t, int64(1), version())

	duplicate := testTransaction(file.ID, "2024-01-03", "50")
	require.ErrorIs(t, repo.Create(ctx, duplicate), customError.ErrDuplicateTransactionDate)
	assert.Equal(t, int64(1), version(), "failed write leaves the version alone")

	txn.Amount = decimal.NewFromInt(300)
	require.NoError(t, repo.Update(ctx, txn))
	assert.Equal(t, int64(2), version())

	require.NoError(t, repo.Delete(ctx, file.ID, txn.ID))
	assert.Equal(t, int64(3), version())

	file.Status = domain.FileStatusClosed
	require.NoError(t, files.UpdateStatus(ctx, file))
	assert.Equal(t, int64(4), version())
	assert.Equal(t, int64(4), file.LedgerVersion)
}

func TestTransactionRepository_DuplicateDateConflict(t *testing.T) {
	db := setupTestDB(t)
	files := NewFileRepository(db, quietLogger())
	repo := NewTransactionRepository(db, quietLogger())
	ctx := context.Background()

	file := testFile(domain.FileStatusActive)
	require.NoError(t, files.Create(ctx, file))
	require.NoError(t, repo.Create(ctx, testTransaction(file.ID, "2024-01-03", "100")))

	err := repo.Create(ctx, testTransaction(file.ID, "2024-01-03", "50"))

	require.ErrorIs(t, err, customError.ErrDuplicateTransactionDate)
	assert.True(t, customError.IsConflict(err))

	other := testTransaction(file.ID, "2024-01-04", "50")
	require.NoError(t, repo.Create(ctx, other))
	other.Date = domain.MustParseDate("2024-01-03")
	assert.ErrorIs(t, repo.Update(ctx, other), customError.ErrDuplicateTransactionDate)
}

func TestTransactionRepository_SameDateOnDifferentFiles(t *testing.T) {
	db := setupTestDB(t)
	files := NewFileRepository(db, quietLogger())
	repo := NewTransactionRepository(db, quietLogger())
	ctx := context.Background()

	a, b := testFile(domain.FileStatusActive), testFile(domain.FileStatusActive)
	require.NoError(t, files.Create(ctx, a))
	require.NoError(t, files.Create(ctx, b))

	assert.NoError(t, repo.Create(ctx, testTransaction(a.ID, "2024-01-03", "100")))
	assert.NoError(t, repo.Create(ctx, testTransaction(b.ID, "2024-01-03", "100")))
}

func TestTransactionRepository_UnknownFile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db, quietLogger())

	err := repo.Create(context.Background(), testTransaction(uuid.New(), "2024-01-03", "100"))

	assert.ErrorIs(t, err, customError.ErrFileNotFound)
}

func TestTransactionRepository_CascadeOnFileDelete(t *testing.T) {
	db := setupTestDB(t)
	files := NewFileRepository(db, quietLogger())
	repo := NewTransactionRepository(db, quietLogger())
	ctx := context.Background()

	file := testFile(domain.FileStatusActive)
	require.NoError(t, files.Create(ctx, file))
	require.NoError(t, repo.Create(ctx, testTransaction(file.ID, "2024-01-03", "100")))

	_, err := db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, file.ID)
	require.NoError(t, err)

	txns, err := repo.ListByFileID(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	files := NewFileRepository(db, quietLogger())
	tm := NewTxManager(db, quietLogger())
	ctx := context.Background()

	file := testFile(domain.FileStatusActive)
	boom := errors.New("boom")

	err := tm.WithinTx(ctx, func(ctx context.Context) error {
		if err := files.Create(ctx, file); err != nil {
			return err
		}
		if _, err := files.GetByIDForUpdate(ctx, file.ID); err != nil {
			return err
		}
		return boom
	})

	require.ErrorIs(t, err, boom)
	_, err = files.GetByID(ctx, file.ID)
	assert.ErrorIs(t, err, customError.ErrFileNotFound)
}

func TestTxManager_CommitAndNesting(t *testing.T) {
	db := setupTestDB(t)
	files := NewFileRepository(db, quietLogger())
	txns := NewTransactionRepository(db, quietLogger())
	tm := NewTxManager(db, quietLogger())
	ctx := context.Background()

	file := testFile(domain.FileStatusActive)
	err := tm.WithinTx(ctx, func(ctx context.Context) error {
		if err := files.Create(ctx, file); err != nil {
			return err
		}
		return tm.WithinTx(ctx, func(ctx context.Context) error {
			return txns.Create(ctx, testTransaction(file.ID, "2024-01-02", "100"))
		})
	})
	require.NoError(t, err)

	list, err := txns.ListByFileID(ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTxManager_ConcurrentSameDateInsert(t *testing.T) {
	db := setupTestDB(t)
	files := NewFileRepository(db, quietLogger())
	txns := NewTransactionRepository(db, quietLogger())
	tm := NewTxManager(db, quietLogger())
	ctx := context.Background()

	file := testFile(domain.FileStatusActive)
	require.NoError(t, files.Create(ctx, file))

	const workers = 5
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = tm.WithinTx(ctx, func(ctx context.Context) error {
				if _, err := files.GetByIDForUpdate(ctx, file.ID); err != nil {
					return err
				}
				return txns.Create(ctx, testTransaction(file.ID, "2024-01-05", "100"))
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, customError.ErrDuplicateTransactionDate)
	}
	assert.Equal(t, 1, succeeded)
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, quietLogger())
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "operator1",
		PasswordHash: "hash",
		FullName:     "Field Operator",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, user))

	dup := *user
	dup.ID = uuid.New()
	assert.ErrorIs(t, repo.Create(ctx, &dup), customError.ErrUserAlreadyExists)

	require.NoError(t, repo.SetActive(ctx, "operator1", false))
	require.NoError(t, repo.UpdatePassword(ctx, "operator1", "new-hash"))

	got, err := repo.GetByUsername(ctx, "operator1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "new-hash", got.PasswordHash)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, customError.ErrUserNotFound)
	assert.ErrorIs(t, repo.SetActive(ctx, "ghost", true), customError.ErrUserNotFound)
}

func TestOpen_MigratesWhenAsked(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:       DriverSQLite,
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		AutoMigrate:  true,
	}

	db, err := Open(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer db.Close()

	files, err := NewFileRepository(db, quietLogger()).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle", URL: "x"}, quietLogger())

	assert.Error(t, err)
}
