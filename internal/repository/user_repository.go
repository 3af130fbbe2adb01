package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

const userColumns = `id, username, password_hash, full_name, is_active, created_at`

type userRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

func NewUserRepository(db *sqlx.DB, logger *logrus.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	q := conn(ctx, r.db)
	_, err := q.ExecContext(ctx, q.Rebind(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`), user.ID, user.Username, user.PasswordHash, user.FullName, user.IsActive, user.CreatedAt)
	if isUniqueViolation(err) {
		return customError.WrapUserAlreadyExists(user.Username)
	}
	if err != nil {
		r.logger.WithError(err).WithField("username", user.Username).Error("Failed to insert user")
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := conn(ctx, r.db)

	var user domain.User
	err := q.GetContext(ctx, &user, q.Rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapUserNotFound(username)
	}
	if err != nil {
		r.logger.WithError(err).WithField("username", username).Error("Failed to load user")
		return nil, customError.WrapDatabaseError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	q := conn(ctx, r.db)

	users := []*domain.User{}
	if err := q.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		r.logger.WithError(err).Error("Failed to list users")
		return nil, customError.WrapDatabaseError(err)
	}
	return users, nil
}

func (r *userRepository) SetActive(ctx context.Context, username string, active bool) error {
	q := conn(ctx, r.db)
	res, err := q.ExecContext(ctx, q.Rebind(`UPDATE users SET is_active = ? WHERE username = ?`), active, username)
	if err != nil {
		r.logger.WithError(err).WithField("username", username).Error("Failed to update user status")
		return customError.WrapDatabaseError(err)
	}
	return requireAffected(res, customError.WrapUserNotFound(username))
}

func (r *userRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	q := conn(ctx, r.db)
	res, err := q.ExecContext(ctx, q.Rebind(`UPDATE users SET password_hash = ? WHERE username = ?`), passwordHash, username)
	if err != nil {
		r.logger.WithError(err).WithField("username", username).Error("Failed to update user password")
		return customError.WrapDatabaseError(err)
	}
	return requireAffected(res, customError.WrapUserNotFound(username))
}
