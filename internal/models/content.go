package models

import "time"

type Module struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageKey      string    `json:"image_key,omitempty"`
	RequiredLevel int       `json:"required_level"`
	IsPremium     bool      `json:"is_premium"`
	OrderIndex    int       `json:"order_index"`
	CreatedAt     time.Time `json:"created_at"`
}

// Lesson belongs to one module; OrderIndex fixes its position in that module.
type Lesson struct {
	ID         int64     `json:"id"`
	ModuleID   int64     `json:"module_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageKey   string    `json:"image_key,omitempty"`
	OrderIndex int       `json:"order_index"`
	XPReward   int       `json:"xp_reward"`
	BadgeID    *int64    `json:"badge_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Question struct {
	ID         int64  `json:"id"`
	LessonID   int64  `json:"lesson_id"`
	Prompt     string `json:"prompt"`
	OrderIndex int    `json:"order_index"`
	XPValue    int    `json:"xp_value"`
}

type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

// QuestionWithAnswers is a question and its answers in display order.
type QuestionWithAnswers struct {
	Question
	Answers []Answer `json:"answers"`
}

// HasCorrectAnswer reports whether at least one answer is marked correct.
func (q QuestionWithAnswers) HasCorrectAnswer() bool {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return true
		}
	}
	return false
}

// Answer returns the answer with the given id.
func (q QuestionWithAnswers) Answer(id int64) (Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == id {
			return a, true
		}
	}
	return Answer{}, false
}

// CorrectAnswerID returns the first correct answer's id, or 0.
func (q QuestionWithAnswers) CorrectAnswerID() int64 {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a.ID
		}
	}
	return 0
}
