package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-tracker/internal/domain"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateFile(ctx context.Context, req domain.CreateFileRequest) (*domain.FileView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileView), args.Error(1)
}

func (m *MockLedgerService) GetFile(ctx context.Context, fileID uuid.UUID) (*domain.FileDetailResponse, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileDetailResponse), args.Error(1)
}

func (m *MockLedgerService) ListFiles(ctx context.Context, status string) ([]*domain.FileView, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FileView), args.Error(1)
}

func (m *MockLedgerService) CloseFile(ctx context.Context, fileID uuid.UUID) (*domain.FileView, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileView), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, fileID uuid.UUID) ([]*domain.Transaction, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, fileID uuid.UUID, req domain.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, fileID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) UpdateTransaction(ctx context.Context, fileID, transactionID uuid.UUID, req domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, fileID, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) DeleteTransaction(ctx context.Context, fileID, transactionID uuid.UUID) error {
	args := m.Called(ctx, fileID, transactionID)
	return args.Error(0)
}

func (m *MockLedgerService) GetStatement(ctx context.Context, fileID uuid.UUID) (*domain.StatementResponse, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementResponse), args.Error(1)
}

func (m *MockLedgerService) GetDashboard(ctx context.Context) (*domain.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
