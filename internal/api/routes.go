package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lessonforge/lessonforge/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(s.requestTimeout()))
		r.Use(s.authMiddleware)

		r.Get("/me/status", s.handleMyStatus)
		r.Get("/me/progress", s.handleMyProgress)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Get("/modules", s.handleModules)
		r.Get("/modules/{id}/lessons", s.handleModuleLessons)
		r.Get("/lessons/{id}/access", s.handleLessonAccess)

		r.Post("/lessons/{id}/quiz", s.handleStartQuiz)
		r.Get("/quiz/{sid}", s.handleQuizView)
		r.Post("/quiz/{sid}/select", s.handleQuizSelect)
		r.Post("/quiz/{sid}/submit", s.handleQuizSubmit)
		r.Post("/quiz/{sid}/advance", s.handleQuizAdvance)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	return r
}
