package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/loan-tracker/internal/domain"
)

// LedgerService is what the file and transaction endpoints need from the service layer.
type LedgerService interface {
	CreateFile(ctx context.Context, req domain.CreateFileRequest) (*domain.FileView, error)
	GetFile(ctx context.Context, fileID uuid.UUID) (*domain.FileDetailResponse, error)
	ListFiles(ctx context.Context, status string) ([]*domain.FileView, error)
	CloseFile(ctx context.Context, fileID uuid.UUID) (*domain.FileView, error)
	ListTransactions(ctx context.Context, fileID uuid.UUID) ([]*domain.Transaction, error)
	CreateTransaction(ctx context.Context, fileID uuid.UUID, req domain.CreateTransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, fileID, transactionID uuid.UUID, req domain.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, fileID, transactionID uuid.UUID) error
	GetStatement(ctx context.Context, fileID uuid.UUID) (*domain.StatementResponse, error)
	GetDashboard(ctx context.Context) (*domain.Dashboard, error)
}

// AuthService issues and verifies access tokens.
type AuthService interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}
