package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/auth"
	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
	"github.com/lessonforge/lessonforge/internal/status"
)

// StatusService owns the learner record: first-touch creation and the
// hearts/streak refresh run on every authenticated request.
type StatusService interface {
	EnsureUser(ctx context.Context, id auth.Identity) (*models.User, error)
	RefreshStatus(ctx context.Context, userID uuid.UUID) *models.User
}

type statusService struct {
	users repository.UserRepository
	cfg   ProgressionConfig
	clock Clock
}

// NewStatusService creates a new StatusService
func NewStatusService(users repository.UserRepository, cfg ProgressionConfig, clock Clock) StatusService {
	return &statusService{users: users, cfg: cfg, clock: clock}
}

func (s *statusService) EnsureUser(ctx context.Context, id auth.Identity) (*models.User, error) {
	log := logger.FromContext(ctx)

	u, err := s.users.Ensure(ctx, models.User{
		ID:          id.UserID,
		DisplayName: id.Name,
		MaxHearts:   s.cfg.DefaultMaxHearts,
		Role:        id.Role,
	})
	if err != nil {
		log.Error("failed to ensure user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if u == nil {
		return nil, errors.NewNotFoundError("user", id.UserID)
	}
	return u, nil
}

// RefreshStatus regenerates hearts and advances the streak, writing only the
// changed fields in one update. It returns the refreshed user, or nil when
// any read or write failed; callers then keep the values they already have.
func (s *statusService) RefreshStatus(ctx context.Context, userID uuid.UUID) *models.User {
	log := logger.FromContext(ctx)

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		log.Warn("status refresh failed to load user: %v", err)
		return nil
	}
	if user == nil {
		log.Warn("status refresh for unknown user: id=%s", userID)
		return nil
	}

	update := status.Evaluate(user.Status(), s.clock.now(), status.Rules{
		RegenWindow: s.cfg.HeartRegenWindow,
		Location:    s.cfg.location(),
	})
	if update.Empty() {
		return user
	}

	if err := s.users.UpdateStatus(ctx, user.ID, update); err != nil {
		log.Warn("status refresh failed, keeping last known values: %v", err)
		return nil
	}

	refreshed := *user
	st := update.Apply(user.Status())
	refreshed.Hearts = st.Hearts
	refreshed.StreakCount = st.StreakCount
	refreshed.StreakLastUpdated = st.StreakLastUpdated
	log.Debug("status refreshed: hearts=%d, streak=%d", refreshed.Hearts, refreshed.StreakCount)
	return &refreshed
}
