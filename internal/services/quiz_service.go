package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/metrics"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/progression"
	"github.com/lessonforge/lessonforge/internal/quiz"
	"github.com/lessonforge/lessonforge/internal/repository"
	"github.com/lessonforge/lessonforge/internal/status"
	"github.com/lessonforge/lessonforge/internal/worker"
)

// completionTimeout bounds the completion steps, which run detached from the
// request context.
const completionTimeout = 10 * time.Second

// QuizService drives quiz sessions and commits their results.
type QuizService interface {
	Start(ctx context.Context, userID uuid.UUID, lessonID int64) (*QuizView, error)
	View(ctx context.Context, userID, sessionID uuid.UUID) (*QuizView, error)
	Select(ctx context.Context, userID, sessionID uuid.UUID, answerID int64) (*QuizView, error)
	Submit(ctx context.Context, userID, sessionID uuid.UUID) (*QuizView, error)
	Advance(ctx context.Context, userID, sessionID uuid.UUID) (*QuizView, error)
}

// QuizRepositories groups the stores a quiz touches.
type QuizRepositories struct {
	Users    repository.UserRepository
	Content  repository.ContentRepository
	Progress repository.ProgressRepository
	Badges   repository.BadgeRepository
	Stats    repository.StatsRepository
	Goals    repository.DailyGoalRepository
}

// JobSubmitter queues background work; *worker.Pool satisfies it.
type JobSubmitter interface {
	Submit(worker.Job) error
}

type quizService struct {
	repos   QuizRepositories
	access  AccessService
	store   *quiz.Store
	jobs    JobSubmitter
	board   worker.LeaderboardUpdater
	metrics *metrics.Metrics
	cfg     ProgressionConfig
	clock   Clock
}

// NewQuizService creates a new QuizService. jobs and board may be nil, in
// which case leaderboard updates are skipped.
func NewQuizService(
	repos QuizRepositories,
	accessSvc AccessService,
	store *quiz.Store,
	jobs JobSubmitter,
	board worker.LeaderboardUpdater,
	m *metrics.Metrics,
	cfg ProgressionConfig,
	clock Clock,
) QuizService {
	return &quizService{
		repos:   repos,
		access:  accessSvc,
		store:   store,
		jobs:    jobs,
		board:   board,
		metrics: m,
		cfg:     cfg,
		clock:   clock,
	}
}

// Start checks access server-side and opens a session on the first
// question. A lesson with no questions reports the empty state and opens
// nothing.
func (s *quizService) Start(ctx context.Context, userID uuid.UUID, lessonID int64) (*QuizView, error) {
	log := logger.FromContext(ctx).WithField("lesson_id", lessonID)
	now := s.clock.now()
	s.store.Sweep(now)

	lesson, err := s.repos.Content.GetLesson(ctx, lessonID)
	if err != nil {
		log.Error("failed to get lesson: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if lesson == nil {
		return nil, errors.NewNotFoundError("lesson", lessonID)
	}

	redirect := ModulePath(lesson.ModuleID)
	if s.access.IsModuleLocked(ctx, userID, lesson.ModuleID) {
		log.Info("quiz refused, module locked")
		return nil, errors.NewLockedError("module", lesson.ModuleID, "/modules")
	}
	if s.access.IsLessonLocked(ctx, userID, lessonID) {
		log.Info("quiz refused, lesson locked")
		return nil, errors.NewLockedError("lesson", lessonID, redirect)
	}

	questions, err := s.repos.Content.QuestionsWithAnswers(ctx, lessonID)
	if err != nil {
		log.Error("failed to load questions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	questions = playable(ctx, questions)
	if len(questions) == 0 {
		log.Info("lesson has no playable questions")
		return &QuizView{LessonID: lessonID, ModuleID: lesson.ModuleID, State: StateEmpty}, nil
	}

	session, err := quiz.New(uuid.New(), userID, *lesson, questions, now)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if old, replaced := s.store.Put(session); replaced {
		log.Debug("replaced quiz session %s", old)
	}
	s.metrics.QuizzesStarted.Inc()
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	log.Info("quiz started: session_id=%s, questions=%d", session.ID, len(questions))
	return sessionView(session), nil
}

// playable drops questions no answer could pass.
func playable(ctx context.Context, questions []models.QuestionWithAnswers) []models.QuestionWithAnswers {
	out := questions[:0]
	for _, q := range questions {
		if !q.HasCorrectAnswer() {
			logger.FromContext(ctx).Warn("skipping question without correct answer: question_id=%d", q.ID)
			continue
		}
		out = append(out, q)
	}
	return out
}

func (s *quizService) session(userID, sessionID uuid.UUID) (*quiz.Session, error) {
	session, ok := s.store.Get(sessionID, userID, s.clock.now())
	if !ok {
		return nil, errors.NewNotFoundError("quiz session", sessionID)
	}
	return session, nil
}

func (s *quizService) View(ctx context.Context, userID, sessionID uuid.UUID) (*QuizView, error) {
	session, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	return sessionView(session), nil
}

func (s *quizService) Select(ctx context.Context, userID, sessionID uuid.UUID, answerID int64) (*QuizView, error) {
	session, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	if err := session.Select(answerID); err != nil {
		return nil, quizError(err)
	}
	return sessionView(session), nil
}

// Submit grades the selected answer. A wrong answer costs one heart,
// persisted at once; running out of hearts ends the session without credit
// and tells the client to return to the module after a short delay.
func (s *quizService) Submit(ctx context.Context, userID, sessionID uuid.UUID) (*QuizView, error) {
	log := logger.FromContext(ctx).WithField("session_id", sessionID.String())

	session, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	outcome, err := session.Submit()
	if err != nil {
		return nil, quizError(err)
	}
	s.metrics.ObserveAnswer(outcome.Correct)

	view := sessionView(session)
	if outcome.Correct {
		return view, nil
	}

	hearts, err := s.repos.Users.DecrementHearts(ctx, userID)
	if err != nil {
		log.Error("failed to take heart, ending session: %v", err)
		session.Abort()
		s.drop(session)
		return nil, errors.NewInternalError(err)
	}
	view.Hearts = &hearts
	if hearts > 0 {
		return view, nil
	}

	log.Info("out of hearts, ending quiz early")
	session.Abort()
	s.drop(session)
	s.metrics.QuizzesAborted.Inc()
	view.State = string(session.State())
	view.Question = nil
	view.RedirectTo = ModulePath(session.Lesson.ModuleID)
	view.RedirectAfterMS = s.cfg.RedirectDelay.Milliseconds()
	return view, nil
}

// Advance records the answer and moves on. Passing the last question
// completes the lesson and runs the completion steps exactly once.
func (s *quizService) Advance(ctx context.Context, userID, sessionID uuid.UUID) (*QuizView, error) {
	session, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	done, err := session.Advance()
	if err != nil {
		return nil, quizError(err)
	}
	view := sessionView(session)
	if !done {
		return view, nil
	}

	s.drop(session)
	// The session is gone once dropped, so completion must not be cut short
	// by the client going away.
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionTimeout)
	defer cancel()
	view.Completion = s.complete(cctx, session)
	s.metrics.QuizzesCompleted.Inc()
	return view, nil
}

func (s *quizService) drop(session *quiz.Session) {
	s.store.Delete(session.ID)
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))
}

// complete commits a finished session. Every step is independent: a
// failure is logged and counted, and the remaining steps still run.
func (s *quizService) complete(ctx context.Context, session *quiz.Session) *Completion {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": session.ID.String(),
		"lesson_id":  session.Lesson.ID,
	})
	now := s.clock.now()
	userID := session.UserID
	score := session.Score()

	c := &Completion{
		Score:          score,
		CorrectAnswers: session.CorrectCount(),
		TotalQuestions: session.Total(),
		NewBadges:      []models.Badge{},
	}
	failed := func(step string, err error) {
		log.Warn("completion step %s failed: %v", step, err)
		s.metrics.StepFailed(step)
		c.FailedSteps = append(c.FailedSteps, step)
	}

	first, err := s.repos.Progress.MarkCompleted(ctx, userID, session.Lesson.ID, score, now)
	if err != nil {
		failed("progress", err)
	}
	c.FirstCompletion = first

	if xp, err := s.awardXP(ctx, userID, score); err != nil {
		failed("xp", err)
	} else {
		c.XP = xp
	}

	user, err := s.repos.Users.Get(ctx, userID)
	if err != nil || user == nil {
		failed("user", orMissing(err, "user"))
	}

	delta := models.StatsDelta{QuestionsAnswered: c.TotalQuestions, CorrectAnswers: c.CorrectAnswers}
	if first {
		delta.LessonsCompleted = 1
	}
	if user != nil {
		delta.CurrentStreak = user.StreakCount
	}
	if err := s.repos.Stats.Increment(ctx, userID, delta); err != nil {
		failed("stats", err)
	}

	if session.Lesson.BadgeID != nil {
		if badge, err := s.award(ctx, userID, *session.Lesson.BadgeID, now); err != nil {
			failed("lesson_badge", err)
		} else if badge != nil {
			c.NewBadges = append(c.NewBadges, *badge)
		}
	}

	if user != nil {
		earned, err := s.awardRequirementBadges(ctx, user, now)
		if err != nil {
			failed("requirement_badges", err)
		}
		c.NewBadges = append(c.NewBadges, earned...)
	}

	if goal, err := s.recordDailyGoal(ctx, userID, score, now); err != nil {
		failed("daily_goal", err)
	} else {
		c.DailyGoal = goal
	}

	if c.XP != nil && s.jobs != nil && s.board != nil {
		job := &worker.LeaderboardSyncJob{Board: s.board, UserID: userID, XP: c.XP.XP}
		if err := s.jobs.Submit(job); err != nil {
			failed("leaderboard", err)
		}
	}

	s.metrics.BadgesAwarded.Add(float64(len(c.NewBadges)))
	log.Info("lesson completed: score=%d, correct=%d/%d, first=%t, new_badges=%d",
		score, c.CorrectAnswers, c.TotalQuestions, first, len(c.NewBadges))
	return c
}

// awardXP adds amount and promotes the user when the new total crosses a
// level threshold. Levels are never lowered.
func (s *quizService) awardXP(ctx context.Context, userID uuid.UUID, amount int) (*models.XPResult, error) {
	xp, level, err := s.repos.Users.AddXP(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	res := &models.XPResult{XP: xp, Level: level, PreviousLevel: level}
	if target := progression.Promote(level, xp); target > level {
		stored, err := s.repos.Users.RaiseLevel(ctx, userID, target)
		if err != nil {
			return res, err
		}
		res.Level = stored
		res.LeveledUp = stored > level
	}
	s.metrics.XPAwarded.Add(float64(amount))
	if res.LeveledUp {
		s.metrics.LevelUps.Inc()
		logger.FromContext(ctx).Info("level up: %d -> %d", res.PreviousLevel, res.Level)
	}
	return res, nil
}

// award grants badgeID and returns it when newly earned, nil otherwise.
func (s *quizService) award(ctx context.Context, userID uuid.UUID, badgeID int64, now time.Time) (*models.Badge, error) {
	earned, err := s.repos.Badges.Award(ctx, userID, badgeID, now)
	if err != nil || !earned {
		return nil, err
	}
	badge, err := s.repos.Badges.Get(ctx, badgeID)
	if err != nil {
		return nil, err
	}
	if badge == nil {
		badge = &models.Badge{ID: badgeID}
	}
	return badge, nil
}

// awardRequirementBadges grants every requirement badge whose threshold the
// user now meets. It keeps going past individual failures and returns the
// first one.
func (s *quizService) awardRequirementBadges(ctx context.Context, user *models.User, now time.Time) ([]models.Badge, error) {
	badges, err := s.repos.Badges.ListWithRequirement(ctx)
	if err != nil || len(badges) == 0 {
		return nil, err
	}
	stats, err := s.repos.Stats.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var (
		earned   []models.Badge
		firstErr error
	)
	for _, b := range badges {
		if !requirementMet(b, user, stats) {
			continue
		}
		got, err := s.award(ctx, user.ID, b.ID, now)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if got != nil {
			earned = append(earned, b)
		}
	}
	return earned, firstErr
}

func requirementMet(b models.Badge, user *models.User, stats *models.UserStats) bool {
	switch b.RequirementType {
	case models.RequirementStreak:
		return user.StreakCount >= b.RequirementValue
	case models.RequirementLessonsCompleted:
		return stats.TotalLessonsCompleted >= b.RequirementValue
	case models.RequirementXP:
		return user.XP >= b.RequirementValue
	case models.RequirementLevel:
		return user.Level >= b.RequirementValue
	}
	return false
}

func (s *quizService) recordDailyGoal(ctx context.Context, userID uuid.UUID, score int, now time.Time) (*models.DailyGoal, error) {
	date := status.DateKey(now, s.cfg.location())
	err := s.repos.Goals.Increment(ctx, models.DailyGoal{
		UserID:           userID,
		Date:             date,
		XPGoal:           s.cfg.DailyXPGoal,
		LessonsGoal:      s.cfg.DailyLessonsGoal,
		XPEarned:         score,
		LessonsCompleted: 1,
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Goals.GetOrCreate(ctx, userID, date, s.cfg.DailyXPGoal, s.cfg.DailyLessonsGoal)
}

func quizError(err error) error {
	switch {
	case stderrors.Is(err, quiz.ErrInvalidState):
		return errors.NewConflictError(err.Error())
	case stderrors.Is(err, quiz.ErrNoSelection):
		return errors.NewValidationError("answer_id", err.Error())
	case stderrors.Is(err, quiz.ErrUnknownAnswer):
		return errors.NewValidationError("answer_id", err.Error())
	}
	return errors.NewInternalError(err)
}

func orMissing(err error, what string) error {
	if err != nil {
		return err
	}
	return stderrors.New(what + " not found")
}
