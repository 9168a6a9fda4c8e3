package api

import (
	"database/sql"
	"time"

	"github.com/lessonforge/lessonforge/internal/auth"
	"github.com/lessonforge/lessonforge/internal/metrics"
	"github.com/lessonforge/lessonforge/internal/services"
)

const defaultRequestTimeout = 15 * time.Second

// Server holds the HTTP handlers' dependencies.
type Server struct {
	StatusService   services.StatusService
	AccessService   services.AccessService
	QuizService     services.QuizService
	ProgressService services.ProgressService
	Verifier        *auth.Verifier
	DB              *sql.DB
	Metrics         *metrics.Metrics
	RequestTimeout  time.Duration
}

func (s *Server) requestTimeout() time.Duration {
	if s.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}
	return s.RequestTimeout
}
