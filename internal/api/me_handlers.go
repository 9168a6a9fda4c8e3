package api

import (
	"net/http"

	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/lessonforge/lessonforge/internal/models"
)

type statusResponse struct {
	models.UserStatus
	XP    int `json:"xp"`
	Level int `json:"level"`
}

func (s *Server) handleMyStatus(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("user required"))
		return
	}
	writeJSON(w, r, http.StatusOK, statusResponse{UserStatus: user.Status(), XP: user.XP, Level: user.Level})
}

func (s *Server) handleMyProgress(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("user required"))
		return
	}
	report, err := s.ProgressService.Report(r.Context(), user)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	entries, err := s.ProgressService.Leaderboard(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}
