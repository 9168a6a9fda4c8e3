package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockStatsRepository) Increment(ctx context.Context, userID uuid.UUID, delta models.StatsDelta) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}
