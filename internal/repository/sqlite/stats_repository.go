package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// Get returns the user's counters; a user with no row yet has all zeros.
func (r *statsRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting stats: user_id=%s", userID)

	s := models.UserStats{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
SELECT total_questions_answered, correct_answers, total_lessons_completed, longest_streak
FROM user_stats
WHERE user_id = ?
`, userID).Scan(&s.TotalQuestionsAnswered, &s.CorrectAnswers, &s.TotalLessonsCompleted, &s.LongestStreak)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to get stats: %v", err)
		return nil, err
	}
	return &s, nil
}

// Increment adds delta to the counters in one statement. The longest streak
// only ever grows.
func (r *statsRepository) Increment(ctx context.Context, userID uuid.UUID, delta models.StatsDelta) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("incrementing stats: user_id=%s, answered=%d, correct=%d, lessons=%d, streak=%d",
		userID, delta.QuestionsAnswered, delta.CorrectAnswers, delta.LessonsCompleted, delta.CurrentStreak)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_stats (user_id, total_questions_answered, correct_answers, total_lessons_completed, longest_streak)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    total_questions_answered = total_questions_answered + excluded.total_questions_answered,
    correct_answers = correct_answers + excluded.correct_answers,
    total_lessons_completed = total_lessons_completed + excluded.total_lessons_completed,
    longest_streak = MAX(longest_streak, excluded.longest_streak)
`, userID, delta.QuestionsAnswered, delta.CorrectAnswers, delta.LessonsCompleted, delta.CurrentStreak)
	if err != nil {
		log.Error("failed to increment stats: %v", err)
		return err
	}
	return nil
}
