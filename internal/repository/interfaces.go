package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
)

// UserRepository handles learner records. Counters are changed with single
// relative statements so concurrent requests cannot lose updates.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Ensure(ctx context.Context, u models.User) (*models.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update models.StatusUpdate) error
	DecrementHearts(ctx context.Context, id uuid.UUID) (int, error)
	AddXP(ctx context.Context, id uuid.UUID, amount int) (xp int, level int, err error)
	RaiseLevel(ctx context.Context, id uuid.UUID, level int) (int, error)
	TopByXP(ctx context.Context, limit int) ([]models.User, error)
}

// ContentRepository handles the module/lesson/question catalog
type ContentRepository interface {
	ListModules(ctx context.Context) ([]models.Module, error)
	GetModule(ctx context.Context, id int64) (*models.Module, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	LessonsForModule(ctx context.Context, moduleID int64) ([]models.Lesson, error)
	QuestionsWithAnswers(ctx context.Context, lessonID int64) ([]models.QuestionWithAnswers, error)
	InsertModule(ctx context.Context, m models.Module) (int64, error)
	InsertLesson(ctx context.Context, l models.Lesson) (int64, error)
	InsertQuestion(ctx context.Context, q models.QuestionWithAnswers) (int64, error)
}

// ProgressRepository handles lesson completion records
type ProgressRepository interface {
	Get(ctx context.Context, userID uuid.UUID, lessonID int64) (*models.UserProgress, error)
	CompletedLessonIDs(ctx context.Context, userID uuid.UUID, moduleID int64) (map[int64]bool, error)
	MarkCompleted(ctx context.Context, userID uuid.UUID, lessonID int64, score int, at time.Time) (first bool, err error)
}

// BadgeRepository handles badges and their awards
type BadgeRepository interface {
	Get(ctx context.Context, id int64) (*models.Badge, error)
	Insert(ctx context.Context, b models.Badge) (int64, error)
	ListWithRequirement(ctx context.Context) ([]models.Badge, error)
	Award(ctx context.Context, userID uuid.UUID, badgeID int64, at time.Time) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.EarnedBadge, error)
}

// StatsRepository handles per-user aggregate counters
type StatsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
	Increment(ctx context.Context, userID uuid.UUID, delta models.StatsDelta) error
}

// DailyGoalRepository handles per-day goal rows. Rows are created lazily with
// the targets carried by the caller.
type DailyGoalRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID, date string, xpGoal, lessonsGoal int) (*models.DailyGoal, error)
	Increment(ctx context.Context, delta models.DailyGoal) error
}
