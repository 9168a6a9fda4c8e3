package api

import (
	"net/http"

	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/lessonforge/lessonforge/internal/logger"
)

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("user required"))
		return
	}
	modules, err := s.AccessService.ListModules(r.Context(), user)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"modules": modules})
}

func (s *Server) handleModuleLessons(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("user required"))
		return
	}
	moduleID, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	module, lessons, err := s.AccessService.ListLessons(r.Context(), user, moduleID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"module":  module,
		"lessons": lessons,
	})
}

func (s *Server) handleLessonAccess(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
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

	locked := s.AccessService.IsLessonLocked(r.Context(), user.ID, lessonID)
	log.Debug("lesson access: lesson_id=%d, locked=%t", lessonID, locked)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"lesson_id": lessonID,
		"locked":    locked,
	})
}
