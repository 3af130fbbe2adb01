package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-tracker/internal/domain"
)

type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, fileID uuid.UUID) (domain.CachedSummary, bool, error) {
	args := m.Called(ctx, fileID)
	return args.Get(0).(domain.CachedSummary), args.Bool(1), args.Error(2)
}

func (m *MockSummaryCache) Set(ctx context.Context, fileID uuid.UUID, entry domain.CachedSummary) error {
	args := m.Called(ctx, fileID, entry)
	return args.Error(0)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context, fileID uuid.UUID) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}
