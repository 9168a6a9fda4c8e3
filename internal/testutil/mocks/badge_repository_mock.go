package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockBadgeRepository is a mock implementation of repository.BadgeRepository
type MockBadgeRepository struct {
	mock.Mock
}

func (m *MockBadgeRepository) Get(ctx context.Context, id int64) (*models.Badge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Badge), args.Error(1)
}

func (m *MockBadgeRepository) Insert(ctx context.Context, b models.Badge) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBadgeRepository) ListWithRequirement(ctx context.Context) ([]models.Badge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Badge), args.Error(1)
}

func (m *MockBadgeRepository) Award(ctx context.Context, userID uuid.UUID, badgeID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, badgeID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBadgeRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.EarnedBadge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EarnedBadge), args.Error(1)
}
