package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
)

type dailyGoalRepository struct {
	db *sql.DB
}

// NewDailyGoalRepository creates a new DailyGoalRepository implementation
func NewDailyGoalRepository(db *sql.DB) repository.DailyGoalRepository {
	return &dailyGoalRepository{db: db}
}

func (r *dailyGoalRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, date string, xpGoal, lessonsGoal int) (*models.DailyGoal, error) {
	log := logger.FromContext(ctx).WithPrefix("daily_goal_repo")
	log.Debug("getting daily goal: user_id=%s, date=%s", userID, date)

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO daily_goals (user_id, date, xp_goal, lessons_goal)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id, date) DO NOTHING
`, userID, date, xpGoal, lessonsGoal); err != nil {
		log.Error("failed to create daily goal: %v", err)
		return nil, err
	}

	g := models.DailyGoal{UserID: userID, Date: date}
	err := r.db.QueryRowContext(ctx, `
SELECT xp_goal, lessons_goal, xp_earned, lessons_completed
FROM daily_goals
WHERE user_id = ? AND date = ?
`, userID, date).Scan(&g.XPGoal, &g.LessonsGoal, &g.XPEarned, &g.LessonsCompleted)
	if err != nil {
		log.Error("failed to read daily goal: %v", err)
		return nil, err
	}
	return &g, nil
}

// Increment adds delta.XPEarned and delta.LessonsCompleted to the row for
// (delta.UserID, delta.Date). A missing row is created with delta's goals.
func (r *dailyGoalRepository) Increment(ctx context.Context, delta models.DailyGoal) error {
	log := logger.FromContext(ctx).WithPrefix("daily_goal_repo")
	log.Debug("incrementing daily goal: user_id=%s, date=%s, xp=%d, lessons=%d",
		delta.UserID, delta.Date, delta.XPEarned, delta.LessonsCompleted)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO daily_goals (user_id, date, xp_goal, lessons_goal, xp_earned, lessons_completed)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
    xp_earned = xp_earned + excluded.xp_earned,
    lessons_completed = lessons_completed + excluded.lessons_completed
`, delta.UserID, delta.Date, delta.XPGoal, delta.LessonsGoal, delta.XPEarned, delta.LessonsCompleted)
	if err != nil {
		log.Error("failed to increment daily goal: %v", err)
		return err
	}
	return nil
}
