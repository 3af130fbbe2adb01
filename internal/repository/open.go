package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/config"
)

// Open connects to the configured database, applies the pool limits and, when
// AutoMigrate is set, creates the schema.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *logrus.Logger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.AutoMigrate {
		if err := Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.WithField("driver", cfg.Driver).Info("Database schema is up to date")
	}

	return db, nil
}
