package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/lessonforge/lessonforge/internal/services"
)

type selectRequest struct {
	AnswerID int64 `json:"answer_id"`
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("user required"))
		return
	}
	lessonID, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.QuizService.Start(r.Context(), user.ID, lessonID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	status := http.StatusCreated
	if view.State == services.StateEmpty {
		status = http.StatusOK
	}
	writeJSON(w, r, status, view)
}

func (s *Server) handleQuizView(w http.ResponseWriter, r *http.Request) {
	s.quizAction(w, r, s.QuizService.View)
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	s.quizAction(w, r, s.QuizService.Submit)
}

func (s *Server) handleQuizAdvance(w http.ResponseWriter, r *http.Request) {
	s.quizAction(w, r, s.QuizService.Advance)
}

func (s *Server) handleQuizSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.AnswerID <= 0 {
		handleError(w, r, errors.NewValidationError("answer_id", "required"))
		return
	}
	s.quizAction(w, r, func(ctx context.Context, userID, sessionID uuid.UUID) (*services.QuizView, error) {
		return s.QuizService.Select(ctx, userID, sessionID, req.AnswerID)
	})
}

type quizActionFunc func(ctx context.Context, userID, sessionID uuid.UUID) (*services.QuizView, error)

func (s *Server) quizAction(w http.ResponseWriter, r *http.Request, action quizActionFunc) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("user required"))
		return
	}
	sessionID, err := parseSessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := action(r.Context(), user.ID, sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}
