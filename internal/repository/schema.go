package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Decimals are TEXT in SQLite so no precision is lost; dates are TEXT in
// YYYY-MM-DD form, which sorts and compares as calendar days.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS files (
		id               TEXT PRIMARY KEY,
		person_name      TEXT NOT NULL,
		person_mobile    TEXT NOT NULL,
		reference_mobile TEXT NOT NULL,
		address          TEXT NOT NULL,
		business_name    TEXT NOT NULL,
		business_address TEXT NOT NULL,
		principal_amount TEXT NOT NULL,
		installment      TEXT NOT NULL,
		start_date       TEXT NOT NULL,
		end_date         TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'ACTIVE',
		installment_type TEXT NOT NULL DEFAULT 'DAILY',
		created_at       DATETIME NOT NULL,
		updated_at       DATETIME NOT NULL,
		ledger_version   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_files_status ON files (status)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id         TEXT PRIMARY KEY,
		file_id    TEXT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		txn_date   TEXT NOT NULL,
		amount     TEXT NOT NULL,
		mode       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'RECEIVED',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_file_date ON transactions (file_id, txn_date)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS files (
		id               UUID PRIMARY KEY,
		person_name      VARCHAR(255) NOT NULL,
		person_mobile    VARCHAR(20) NOT NULL,
		reference_mobile VARCHAR(20) NOT NULL,
		address          TEXT NOT NULL,
		business_name    VARCHAR(255) NOT NULL,
		business_address TEXT NOT NULL,
		principal_amount NUMERIC(15,2) NOT NULL CHECK (principal_amount > 0),
		installment      NUMERIC(15,2) NOT NULL CHECK (installment > 0),
		start_date       DATE NOT NULL,
		end_date         DATE NOT NULL,
		status           VARCHAR(10) NOT NULL DEFAULT 'ACTIVE',
		installment_type VARCHAR(10) NOT NULL DEFAULT 'DAILY',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ledger_version   BIGINT NOT NULL DEFAULT 0,
		CHECK (end_date > start_date)
	)`,
	`ALTER TABLE files ADD COLUMN IF NOT EXISTS ledger_version BIGINT NOT NULL DEFAULT 0`,
	`CREATE INDEX IF NOT EXISTS idx_files_status ON files (status)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id         UUID PRIMARY KEY,
		file_id    UUID NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		txn_date   DATE NOT NULL,
		amount     NUMERIC(15,2) NOT NULL CHECK (amount > 0),
		mode       VARCHAR(20) NOT NULL,
		status     VARCHAR(10) NOT NULL DEFAULT 'RECEIVED',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_file_date ON transactions (file_id, txn_date)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		username      VARCHAR(50) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(100) NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables and indexes for db's driver. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var statements []string
	switch db.DriverName() {
	case DriverPostgres:
		statements = postgresSchema
	case DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", db.DriverName())
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
