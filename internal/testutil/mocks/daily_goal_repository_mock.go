package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockDailyGoalRepository is a mock implementation of repository.DailyGoalRepository
type MockDailyGoalRepository struct {
	mock.Mock
}

func (m *MockDailyGoalRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, date string, xpGoal, lessonsGoal int) (*models.DailyGoal, error) {
	args := m.Called(ctx, userID, date, xpGoal, lessonsGoal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyGoal), args.Error(1)
}

func (m *MockDailyGoalRepository) Increment(ctx context.Context, delta models.DailyGoal) error {
	args := m.Called(ctx, delta)
	return args.Error(0)
}
