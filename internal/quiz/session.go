// Package quiz holds the per-attempt state machine for answering a lesson's
// questions. It performs no I/O; the quiz service persists what it reports.
package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
)

type State string

const (
	StateAnswerPending   State = "answer_pending"
	StateAnswerSubmitted State = "answer_submitted"
	StateCompleted       State = "completed"
	StateRedirected      State = "redirected"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateRedirected
}

var (
	ErrNoQuestions   = errors.New("lesson has no questions")
	ErrInvalidState  = errors.New("action not allowed in current state")
	ErrNoSelection   = errors.New("no answer selected")
	ErrUnknownAnswer = errors.New("answer does not belong to current question")
)

// Outcome is the result of grading one submitted answer.
type Outcome struct {
	Correct         bool  `json:"correct"`
	XPAwarded       int   `json:"xp_awarded"`
	CorrectAnswerID int64 `json:"correct_answer_id"`
}

// Session is one user's pass through one lesson. Its methods are not safe
// for concurrent use; callers hold Lock around each action.
type Session struct {
	mu sync.Mutex

	ID        uuid.UUID
	UserID    uuid.UUID
	Lesson    models.Lesson
	StartedAt time.Time
	LastSeen  time.Time

	questions []models.QuestionWithAnswers
	index     int
	state     State
	selected  int64
	outcome   *Outcome
	score     int
	picks     map[int]int64
}

// New starts a session on the first question.
func New(id, userID uuid.UUID, lesson models.Lesson, questions []models.QuestionWithAnswers, now time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{
		ID:        id,
		UserID:    userID,
		Lesson:    lesson,
		StartedAt: now,
		LastSeen:  now,
		questions: questions,
		state:     StateAnswerPending,
		picks:     make(map[int]int64, len(questions)),
	}, nil
}

func (s *Session) State() State          { return s.state }
func (s *Session) Index() int            { return s.index }
func (s *Session) Total() int            { return len(s.questions) }
func (s *Session) Score() int            { return s.score }
func (s *Session) Selected() int64       { return s.selected }
func (s *Session) LastOutcome() *Outcome { return s.outcome }

// Lock serializes actions on the session, e.g. two tabs submitting at once.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Current returns the question being answered.
func (s *Session) Current() models.QuestionWithAnswers {
	if s.index >= len(s.questions) {
		return s.questions[len(s.questions)-1]
	}
	return s.questions[s.index]
}

// Select records the user's pick for the current question, replacing any
// earlier pick. Nothing is graded yet.
func (s *Session) Select(answerID int64) error {
	if s.state != StateAnswerPending {
		return ErrInvalidState
	}
	if _, ok := s.Current().Answer(answerID); !ok {
		return ErrUnknownAnswer
	}
	s.selected = answerID
	return nil
}

// Submit grades the selected answer. A correct answer adds the question's
// XP to the score; an incorrect one changes nothing here, the caller takes a
// heart.
func (s *Session) Submit() (Outcome, error) {
	if s.state != StateAnswerPending {
		return Outcome{}, ErrInvalidState
	}
	if s.selected == 0 {
		return Outcome{}, ErrNoSelection
	}
	q := s.Current()
	answer, ok := q.Answer(s.selected)
	if !ok {
		return Outcome{}, ErrUnknownAnswer
	}

	out := Outcome{Correct: answer.IsCorrect, CorrectAnswerID: q.CorrectAnswerID()}
	if answer.IsCorrect {
		out.XPAwarded = q.XPValue
		s.score += q.XPValue
	}
	s.outcome = &out
	s.state = StateAnswerSubmitted
	return out, nil
}

// Advance records the pick, clears the transient selection and moves on.
// It reports true when the last question has been passed.
func (s *Session) Advance() (bool, error) {
	if s.state != StateAnswerSubmitted {
		return false, ErrInvalidState
	}
	s.picks[s.index] = s.selected
	s.selected = 0
	s.outcome = nil

	if s.index+1 < len(s.questions) {
		s.index++
		s.state = StateAnswerPending
		return false, nil
	}
	s.state = StateCompleted
	return true, nil
}

// Abort ends the session without completion credit.
func (s *Session) Abort() {
	s.state = StateRedirected
}

// CorrectCount replays the recorded picks against answer correctness.
func (s *Session) CorrectCount() int {
	n := 0
	for i, answerID := range s.picks {
		if i >= len(s.questions) {
			continue
		}
		if a, ok := s.questions[i].Answer(answerID); ok && a.IsCorrect {
			n++
		}
	}
	return n
}

// Answered is the number of questions whose picks were recorded.
func (s *Session) Answered() int {
	return len(s.picks)
}
