package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID uuid.UUID, lessonID int64) (*models.UserProgress, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProgress), args.Error(1)
}

func (m *MockProgressRepository) CompletedLessonIDs(ctx context.Context, userID uuid.UUID, moduleID int64) (map[int64]bool, error) {
	args := m.Called(ctx, userID, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockProgressRepository) MarkCompleted(ctx context.Context, userID uuid.UUID, lessonID int64, score int, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, lessonID, score, at)
	return args.Bool(0), args.Error(1)
}
