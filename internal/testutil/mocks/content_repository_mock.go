package mocks

import (
	"context"

	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockContentRepository is a mock implementation of repository.ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) ListModules(ctx context.Context) ([]models.Module, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Module), args.Error(1)
}

func (m *MockContentRepository) GetModule(ctx context.Context, id int64) (*models.Module, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Module), args.Error(1)
}

func (m *MockContentRepository) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockContentRepository) LessonsForModule(ctx context.Context, moduleID int64) ([]models.Lesson, error) {
	args := m.Called(ctx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lesson), args.Error(1)
}

func (m *MockContentRepository) QuestionsWithAnswers(ctx context.Context, lessonID int64) ([]models.QuestionWithAnswers, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuestionWithAnswers), args.Error(1)
}

func (m *MockContentRepository) InsertModule(ctx context.Context, mod models.Module) (int64, error) {
	args := m.Called(ctx, mod)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContentRepository) InsertLesson(ctx context.Context, l models.Lesson) (int64, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContentRepository) InsertQuestion(ctx context.Context, q models.QuestionWithAnswers) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}
