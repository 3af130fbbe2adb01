package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/loan-tracker/internal/domain"
)

// FileRepository defines the interface for file data operations
type FileRepository interface {
	// Create stores a new file
	Create(ctx context.Context, file *domain.File) error

	// GetByID retrieves a file by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error)

	// GetByIDForUpdate retrieves a file and locks its row until the surrounding
	// transaction ends. Only meaningful inside TxManager.WithinTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.File, error)

	// List returns files, newest first. An empty status returns every file.
	List(ctx context.Context, status string) ([]*domain.File, error)

	// UpdateStatus moves a file to status and stamps updated_at
	UpdateStatus(ctx context.Context, file *domain.File) error
}

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	// Create stores a new transaction. A second transaction on the same file
	// and date fails with a duplicate-date conflict.
	Create(ctx context.Context, txn *domain.Transaction) error

	// GetByID retrieves a transaction of the given file
	GetByID(ctx context.Context, fileID, id uuid.UUID) (*domain.Transaction, error)

	// ListByFileID returns the transactions of a file ordered by date
	ListByFileID(ctx context.Context, fileID uuid.UUID) ([]*domain.Transaction, error)

	// Update rewrites date, amount and mode of a transaction
	Update(ctx context.Context, txn *domain.Transaction) error

	// Delete removes a transaction of the given file
	Delete(ctx context.Context, fileID, id uuid.UUID) error
}

// UserRepository defines the interface for operator accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SetActive(ctx context.Context, username string, active bool) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

// TxManager runs a unit of work in one storage transaction. Repositories
// called with the ctx handed to fn take part in that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
