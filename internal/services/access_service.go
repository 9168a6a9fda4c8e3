package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/access"
	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/media"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
)

// AccessService decides which modules and lessons a user may open. The two
// Is*Locked checks fail closed: any error reads as locked.
type AccessService interface {
	IsLessonLocked(ctx context.Context, userID uuid.UUID, lessonID int64) bool
	IsModuleLocked(ctx context.Context, userID uuid.UUID, moduleID int64) bool
	ListModules(ctx context.Context, user *models.User) ([]models.ModuleAccess, error)
	ListLessons(ctx context.Context, user *models.User, moduleID int64) (*models.ModuleAccess, []models.LessonAccess, error)
}

type accessService struct {
	users    repository.UserRepository
	content  repository.ContentRepository
	progress repository.ProgressRepository
	media    *media.Resolver
}

// NewAccessService creates a new AccessService
func NewAccessService(users repository.UserRepository, content repository.ContentRepository, progress repository.ProgressRepository, resolver *media.Resolver) AccessService {
	return &accessService{users: users, content: content, progress: progress, media: resolver}
}

// IsLessonLocked applies the lesson rules in order, first match wins:
// completed lessons are open, no hearts means locked, the first lesson of a
// module is open, and any other lesson needs its predecessor completed.
func (s *accessService) IsLessonLocked(ctx context.Context, userID uuid.UUID, lessonID int64) bool {
	log := logger.FromContext(ctx).WithField("lesson_id", lessonID)

	own, err := s.progress.Get(ctx, userID, lessonID)
	if err != nil {
		log.Warn("lesson locked, progress lookup failed: %v", err)
		return true
	}
	facts := access.LessonFacts{Completed: own != nil && own.Completed}
	if facts.Completed {
		return false
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil || user == nil {
		log.Warn("lesson locked, user lookup failed: %v", err)
		return true
	}
	facts.Hearts = user.Hearts
	if facts.Hearts <= 0 {
		return true
	}

	lesson, err := s.content.GetLesson(ctx, lessonID)
	if err != nil || lesson == nil {
		log.Warn("lesson locked, lesson lookup failed: %v", err)
		return true
	}
	ordered, err := s.content.LessonsForModule(ctx, lesson.ModuleID)
	if err != nil {
		log.Warn("lesson locked, sibling lookup failed: %v", err)
		return true
	}
	facts.Position = access.Position(ordered, lessonID)
	if facts.Position < 0 {
		return true
	}
	if facts.Position > 0 {
		prev, err := s.progress.Get(ctx, userID, ordered[facts.Position-1].ID)
		if err != nil {
			log.Warn("lesson locked, previous progress lookup failed: %v", err)
			return true
		}
		facts.PreviousCompleted = prev != nil && prev.Completed
	}
	return access.LessonLocked(facts)
}

// IsModuleLocked reports whether the module requires a higher level than
// the user has.
func (s *accessService) IsModuleLocked(ctx context.Context, userID uuid.UUID, moduleID int64) bool {
	log := logger.FromContext(ctx).WithField("module_id", moduleID)

	module, err := s.content.GetModule(ctx, moduleID)
	if err != nil || module == nil {
		log.Warn("module locked, module lookup failed: %v", err)
		return true
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil || user == nil {
		log.Warn("module locked, user lookup failed: %v", err)
		return true
	}
	return access.ModuleLocked(module.RequiredLevel, user.Level)
}

func (s *accessService) ListModules(ctx context.Context, user *models.User) ([]models.ModuleAccess, error) {
	log := logger.FromContext(ctx)

	modules, err := s.content.ListModules(ctx)
	if err != nil {
		log.Error("failed to list modules: %v", err)
		return nil, errors.NewInternalError(err)
	}
	out := make([]models.ModuleAccess, 0, len(modules))
	for _, m := range modules {
		out = append(out, s.moduleAccess(m, user.Level))
	}
	return out, nil
}

// ListLessons returns a module with its lessons annotated for user. A
// locked module yields a LOCKED error pointing back at the module list.
func (s *accessService) ListLessons(ctx context.Context, user *models.User, moduleID int64) (*models.ModuleAccess, []models.LessonAccess, error) {
	log := logger.FromContext(ctx).WithField("module_id", moduleID)

	module, err := s.content.GetModule(ctx, moduleID)
	if err != nil {
		log.Error("failed to get module: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}
	if module == nil {
		return nil, nil, errors.NewNotFoundError("module", moduleID)
	}
	ma := s.moduleAccess(*module, user.Level)
	if ma.Locked {
		return nil, nil, errors.NewLockedError("module", moduleID, "/modules")
	}

	ordered, err := s.content.LessonsForModule(ctx, moduleID)
	if err != nil {
		log.Error("failed to list lessons: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}
	completed, err := s.progress.CompletedLessonIDs(ctx, user.ID, moduleID)
	if err != nil {
		log.Error("failed to load completed lessons: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}

	lessons := access.Annotate(ordered, completed, user.Hearts)
	for i := range lessons {
		lessons[i].ImageURL = s.media.URL(lessons[i].ImageKey)
	}
	return &ma, lessons, nil
}

func (s *accessService) moduleAccess(m models.Module, level int) models.ModuleAccess {
	return models.ModuleAccess{
		Module:   m,
		ImageURL: s.media.URL(m.ImageKey),
		Locked:   access.ModuleLocked(m.RequiredLevel, level),
	}
}

// ModulePath is where a client is sent when a lesson inside the module is
// closed to it.
func ModulePath(moduleID int64) string {
	return fmt.Sprintf("/modules/%d", moduleID)
}
