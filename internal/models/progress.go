package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress is keyed by (UserID, LessonID).
type UserProgress struct {
	UserID      uuid.UUID  `json:"user_id"`
	LessonID    int64      `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	Score       int        `json:"score"`
	CompletedAt *time.Time `json:"completed_at"`
}

// DailyGoal is keyed by (UserID, Date); Date is YYYY-MM-DD in the configured zone.
type DailyGoal struct {
	UserID           uuid.UUID `json:"user_id"`
	Date             string    `json:"date"`
	XPGoal           int       `json:"xp_goal"`
	LessonsGoal      int       `json:"lessons_goal"`
	XPEarned         int       `json:"xp_earned"`
	LessonsCompleted int       `json:"lessons_completed"`
}

func (g DailyGoal) XPGoalMet() bool      { return g.XPEarned >= g.XPGoal }
func (g DailyGoal) LessonsGoalMet() bool { return g.LessonsCompleted >= g.LessonsGoal }

type UserStats struct {
	UserID                 uuid.UUID `json:"user_id"`
	TotalQuestionsAnswered int       `json:"total_questions_answered"`
	CorrectAnswers         int       `json:"correct_answers"`
	TotalLessonsCompleted  int       `json:"total_lessons_completed"`
	LongestStreak          int       `json:"longest_streak"`
}

// Accuracy is the percentage of correct answers, 0 when nothing was answered.
func (s UserStats) Accuracy() float64 {
	if s.TotalQuestionsAnswered == 0 {
		return 0
	}
	return 100 * float64(s.CorrectAnswers) / float64(s.TotalQuestionsAnswered)
}

// StatsDelta is added to UserStats after a quiz completion.
type StatsDelta struct {
	QuestionsAnswered int
	CorrectAnswers    int
	LessonsCompleted  int
	CurrentStreak     int
}
