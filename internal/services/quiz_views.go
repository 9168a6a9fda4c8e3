package services

import (
	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/quiz"
)

// StateEmpty is reported instead of a session when a lesson has no questions.
const StateEmpty = "empty"

// AnswerView deliberately has no correctness flag.
type AnswerView struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID      int64        `json:"id"`
	Prompt  string       `json:"prompt"`
	XPValue int          `json:"xp_value"`
	Answers []AnswerView `json:"answers"`
}

// QuizView is what the client sees after every quiz action.
type QuizView struct {
	SessionID       *uuid.UUID    `json:"session_id,omitempty"`
	LessonID        int64         `json:"lesson_id"`
	ModuleID        int64         `json:"module_id"`
	State           string        `json:"state"`
	Index           int           `json:"index"`
	Total           int           `json:"total"`
	Score           int           `json:"score"`
	Question        *QuestionView `json:"question,omitempty"`
	SelectedAnswer  int64         `json:"selected_answer_id,omitempty"`
	Outcome         *quiz.Outcome `json:"outcome,omitempty"`
	Hearts          *int          `json:"hearts,omitempty"`
	RedirectTo      string        `json:"redirect_to,omitempty"`
	RedirectAfterMS int64         `json:"redirect_after_ms,omitempty"`
	Completion      *Completion   `json:"completion,omitempty"`
}

// Completion summarizes the side effects of finishing a lesson. Fields whose
// step failed are left at their zero value.
type Completion struct {
	Score           int               `json:"score"`
	CorrectAnswers  int               `json:"correct_answers"`
	TotalQuestions  int               `json:"total_questions"`
	FirstCompletion bool              `json:"first_completion"`
	XP              *models.XPResult  `json:"xp,omitempty"`
	NewBadges       []models.Badge    `json:"new_badges"`
	DailyGoal       *models.DailyGoal `json:"daily_goal,omitempty"`
	FailedSteps     []string          `json:"failed_steps,omitempty"`
}

func questionView(q models.QuestionWithAnswers) *QuestionView {
	v := &QuestionView{ID: q.ID, Prompt: q.Prompt, XPValue: q.XPValue, Answers: make([]AnswerView, 0, len(q.Answers))}
	for _, a := range q.Answers {
		v.Answers = append(v.Answers, AnswerView{ID: a.ID, Text: a.Text})
	}
	return v
}

func sessionView(s *quiz.Session) *QuizView {
	id := s.ID
	v := &QuizView{
		SessionID:      &id,
		LessonID:       s.Lesson.ID,
		ModuleID:       s.Lesson.ModuleID,
		State:          string(s.State()),
		Index:          s.Index(),
		Total:          s.Total(),
		Score:          s.Score(),
		SelectedAnswer: s.Selected(),
		Outcome:        s.LastOutcome(),
	}
	if !s.State().Terminal() {
		v.Question = questionView(s.Current())
	}
	return v
}
